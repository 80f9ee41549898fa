package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) InsertTransaction(ctx context.Context, tx *PaymentTransaction) error {
	result, err := s.transactions.InsertOne(ctx, tx)
	if err != nil {
		return mapWriteError(err)
	}
	tx.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) FindTransactionByPaymentID(ctx context.Context, paymentID string) (*PaymentTransaction, error) {
	var tx PaymentTransaction
	err := s.transactions.FindOne(ctx, bson.M{"payment_id": paymentID}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// UpdateTransactionStatus touches only status, payment_status and updated_at.
// The amount recorded at checkout is never rewritten.
func (s *Store) UpdateTransactionStatus(ctx context.Context, paymentID, status, paymentStatus string) error {
	result, err := s.transactions.UpdateOne(ctx,
		bson.M{"payment_id": paymentID},
		bson.M{"$set": bson.M{
			"status":         status,
			"payment_status": paymentStatus,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// InsertOrder fails with ErrDuplicate if either order_number or
// payment_transaction_id is already taken.
func (s *Store) InsertOrder(ctx context.Context, order *Order) error {
	result, err := s.orders.InsertOne(ctx, order)
	if err != nil {
		return mapWriteError(err)
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) FindOrderByPaymentTransactionID(ctx context.Context, paymentTransactionID string) (*Order, error) {
	var order Order
	err := s.orders.FindOne(ctx, bson.M{"payment_transaction_id": paymentTransactionID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) MarkOrderCartCleared(ctx context.Context, orderNumber string) error {
	result, err := s.orders.UpdateOne(ctx,
		bson.M{"order_number": orderNumber},
		bson.M{"$set": bson.M{
			"cart_cleared": true,
			"updated_at":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListOrdersBySession returns the session's orders, newest first.
func (s *Store) ListOrdersBySession(ctx context.Context, sessionID string) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.orders.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

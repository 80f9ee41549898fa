package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) InsertCartItem(ctx context.Context, item *CartLineItem) error {
	result, err := s.cartItems.InsertOne(ctx, item)
	if err != nil {
		return mapWriteError(err)
	}
	item.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ListCartItems returns the session's line items in insertion order.
func (s *Store) ListCartItems(ctx context.Context, sessionID string) ([]CartLineItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.cartItems.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []CartLineItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteCartItem removes one line item only if it belongs to sessionID.
func (s *Store) DeleteCartItem(ctx context.Context, sessionID, itemID string) error {
	oID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return ErrCartItemNotFound
	}

	result, err := s.cartItems.DeleteOne(ctx, bson.M{"_id": oID, "session_id": sessionID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// DeleteCartItems empties the session's cart and reports how many rows went away.
func (s *Store) DeleteCartItems(ctx context.Context, sessionID string) (int64, error) {
	result, err := s.cartItems.DeleteMany(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

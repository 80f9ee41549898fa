package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	themesCollection       = "print_themes"
	cartItemsCollection    = "cart_items"
	transactionsCollection = "payment_transactions"
	ordersCollection       = "orders"
)

// Store is the document gateway for the four storefront collections.
// It holds no business rules beyond the uniqueness enforced by its indexes.
type Store struct {
	themes       *mongo.Collection
	cartItems    *mongo.Collection
	transactions *mongo.Collection
	orders       *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		themes:       db.Collection(themesCollection),
		cartItems:    db.Collection(cartItemsCollection),
		transactions: db.Collection(transactionsCollection),
		orders:       db.Collection(ordersCollection),
	}
}

// EnsureIndexes creates the lookup indexes and the unique constraints the payment
// flow depends on. The unique index on orders.payment_transaction_id is what makes
// concurrent finalization safe.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.themes, []mongo.IndexModel{
			{Keys: bson.D{{Key: "theme_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.cartItems, []mongo.IndexModel{
			{Keys: bson.D{{Key: "session_id", Value: 1}}},
		}},
		{s.transactions, []mongo.IndexModel{
			{Keys: bson.D{{Key: "payment_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "session_id", Value: 1}}},
		}},
		// Why two unique indexes on orders?
		// → order_number: a collision surfaces as ErrDuplicate and the insert retries with a new number
		// → payment_transaction_id: a second finalize for the same payment fails instead of creating a twin order
		//
		// Why session_id + created_at?
		// → ListOrdersBySession filters on the session and sorts newest first from the same index
		{s.orders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "payment_transaction_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: -1}}},
		}},
	}

	for _, spec := range specs {
		if _, err := spec.coll.Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", spec.coll.Name(), err)
		}
	}
	return nil
}

// Ping is used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.themes.Database().Client().Ping(ctx, nil)
}

// Disconnect closes the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.themes.Database().Client().Disconnect(ctx)
}

func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}

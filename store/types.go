package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction statuses. A poll may also store the provider's raw session status
// ("open", "expired") while the payment is unresolved.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
	TransactionRefunded  = "refunded"

	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type Variant struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	ImageURL  string    `bson:"image_url" json:"image_url"`
	Featured  bool      `bson:"featured" json:"featured"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type PrintTheme struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ThemeID     string             `bson:"theme_id" json:"theme_id"`
	Theme       string             `bson:"theme" json:"theme"`
	Description string             `bson:"description" json:"description"`
	BasePrice   int64              `bson:"base_price" json:"base_price"`
	Variants    []Variant          `bson:"variants" json:"variants"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasVariant reports whether id is one of the theme's variants.
func (t *PrintTheme) HasVariant(id string) bool {
	for _, v := range t.Variants {
		if v.ID == id {
			return true
		}
	}
	return false
}

// ThemeUpdate carries the admin-editable fields; nil means unchanged.
type ThemeUpdate struct {
	Theme       *string
	Description *string
	BasePrice   *int64
	Variants    []Variant
}

type CartLineItem struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID        string             `bson:"session_id" json:"session_id"`
	ThemeID          string             `bson:"theme_id" json:"theme_id"`
	SelectedVariants []string           `bson:"selected_variants" json:"selected_variants"`
	Quantity         int64              `bson:"quantity" json:"quantity"`
	UnitPrice        int64              `bson:"unit_price" json:"unit_price"`
	TotalPrice       int64              `bson:"total_price" json:"total_price"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// PaymentTransaction records one checkout session. Amount is fixed at creation.
type PaymentTransaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID     string             `bson:"session_id" json:"session_id"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	PaymentID     string             `bson:"payment_id" json:"payment_id"`
	Amount        int64              `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	Items         []CartLineItem     `bson:"items" json:"items"`
	Metadata      map[string]string  `bson:"metadata" json:"metadata"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type Order struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber          string             `bson:"order_number" json:"order_number"`
	SessionID            string             `bson:"session_id" json:"session_id"`
	Items                []CartLineItem     `bson:"items" json:"items"`
	Subtotal             int64              `bson:"subtotal" json:"subtotal"`
	ShippingCost         int64              `bson:"shipping_cost" json:"shipping_cost"`
	Total                int64              `bson:"total" json:"total"`
	Status               string             `bson:"status" json:"status"`
	PaymentTransactionID string             `bson:"payment_transaction_id" json:"payment_transaction_id"`
	CustomerInfo         map[string]string  `bson:"customer_info" json:"customer_info"`
	// CartCleared is set once the session's cart was emptied for this order.
	CartCleared          bool               `bson:"cart_cleared" json:"-"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

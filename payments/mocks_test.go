package payments

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/denine/artstore/cart"
	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

// memStore enforces the same uniqueness rules as the Mongo indexes.
type memStore struct {
	mu           sync.Mutex
	transactions map[string]*store.PaymentTransaction
	orders       []store.Order

	// collisions makes the next N InsertOrder calls fail as an order_number clash.
	collisions int
	insertErr  error
	updates    int
}

func newMemStore() *memStore {
	return &memStore{transactions: map[string]*store.PaymentTransaction{}}
}

func (m *memStore) InsertTransaction(ctx context.Context, tx *store.PaymentTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[tx.PaymentID]; ok {
		return store.ErrDuplicate
	}
	tx.ID = primitive.NewObjectID()
	copied := *tx
	m.transactions[tx.PaymentID] = &copied
	return nil
}

func (m *memStore) FindTransactionByPaymentID(ctx context.Context, paymentID string) (*store.PaymentTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[paymentID]
	if !ok {
		return nil, store.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *memStore) UpdateTransactionStatus(ctx context.Context, paymentID, status, paymentStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[paymentID]
	if !ok {
		return store.ErrTransactionNotFound
	}
	tx.Status = status
	tx.PaymentStatus = paymentStatus
	m.updates++
	return nil
}

func (m *memStore) InsertOrder(ctx context.Context, order *store.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if m.collisions > 0 {
		m.collisions--
		return store.ErrDuplicate
	}
	for _, o := range m.orders {
		if o.PaymentTransactionID == order.PaymentTransactionID || o.OrderNumber == order.OrderNumber {
			return store.ErrDuplicate
		}
	}
	order.ID = primitive.NewObjectID()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memStore) FindOrderByPaymentTransactionID(ctx context.Context, paymentTransactionID string) (*store.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.PaymentTransactionID == paymentTransactionID {
			copied := o
			return &copied, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (m *memStore) MarkOrderCartCleared(ctx context.Context, orderNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].OrderNumber == orderNumber {
			m.orders[i].CartCleared = true
			return nil
		}
	}
	return store.ErrOrderNotFound
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memStore) transaction(paymentID string) store.PaymentTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.transactions[paymentID]
}

type fakeCart struct {
	mu       sync.Mutex
	items    map[string][]store.CartLineItem
	clears   int
	err      error
	clearErr error
}

func newFakeCart() *fakeCart {
	return &fakeCart{items: map[string][]store.CartLineItem{}}
}

func (c *fakeCart) add(sessionID, themeID string, quantity, unitPrice int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[sessionID] = append(c.items[sessionID], store.CartLineItem{
		ID:               primitive.NewObjectID(),
		SessionID:        sessionID,
		ThemeID:          themeID,
		SelectedVariants: []string{themeID + "-v1"},
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		TotalPrice:       quantity * unitPrice,
	})
}

func (c *fakeCart) GetCartTotals(ctx context.Context, sessionID string) (*cart.Totals, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	items := append([]store.CartLineItem{}, c.items[sessionID]...)
	var subtotal int64
	for _, item := range items {
		subtotal += item.TotalPrice
	}
	return &cart.Totals{Subtotal: subtotal, Shipping: 0, Total: subtotal, Items: items}, nil
}

func (c *fakeCart) ClearCart(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clearErr != nil {
		return c.clearErr
	}
	delete(c.items, sessionID)
	c.clears++
	return nil
}

func (c *fakeCart) size(sessionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items[sessionID])
}

type fakeProcessor struct {
	mu        sync.Mutex
	sessionID string
	status    processor.SessionStatus
	createErr error
	statusErr error
	requests  []processor.SessionRequest
}

func (p *fakeProcessor) CreateSession(ctx context.Context, req processor.SessionRequest) (*processor.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.createErr != nil {
		return nil, p.createErr
	}
	return &processor.Session{
		ID:  p.sessionID,
		URL: "https://checkout.stripe.com/c/pay/" + p.sessionID,
	}, nil
}

func (p *fakeProcessor) GetSessionStatus(ctx context.Context, sessionID string) (*processor.SessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.statusErr != nil {
		return nil, p.statusErr
	}
	status := p.status
	status.ID = sessionID
	return &status, nil
}

func (p *fakeProcessor) VerifyAndParseWebhook(payload []byte, signatureHeader string) (*processor.WebhookEvent, error) {
	return nil, processor.ErrInvalidWebhook
}

type publishedEvent struct {
	name    string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{name: event, payload: payload})
	return nil
}

func (p *fakePublisher) named(name string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.name == name {
			out = append(out, e)
		}
	}
	return out
}

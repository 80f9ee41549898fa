package cart

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/denine/artstore/store"
)

type mockStore struct {
	mu    sync.Mutex
	items []store.CartLineItem
	err   error
}

func (m *mockStore) InsertCartItem(ctx context.Context, item *store.CartLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	item.ID = primitive.NewObjectID()
	m.items = append(m.items, *item)
	return nil
}

func (m *mockStore) ListCartItems(ctx context.Context, sessionID string) ([]store.CartLineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []store.CartLineItem
	for _, item := range m.items {
		if item.SessionID == sessionID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteCartItem(ctx context.Context, sessionID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, item := range m.items {
		if item.ID.Hex() == itemID && item.SessionID == sessionID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrCartItemNotFound
}

func (m *mockStore) DeleteCartItems(ctx context.Context, sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	kept := m.items[:0]
	var deleted int64
	for _, item := range m.items {
		if item.SessionID == sessionID {
			deleted++
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return deleted, nil
}

type mockThemes map[string]store.PrintTheme

func (m mockThemes) GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error) {
	t, ok := m[themeID]
	if !ok {
		return nil, store.ErrThemeNotFound
	}
	return &t, nil
}

func testThemes() mockThemes {
	return mockThemes{
		"terra-flow-01": {
			ThemeID:   "terra-flow-01",
			Theme:     "Terra Flow",
			BasePrice: 19900,
			Variants: []store.Variant{
				{ID: "terra-flow-01-v1"}, {ID: "terra-flow-01-v2"}, {ID: "terra-flow-01-v3"},
			},
		},
		"desert-convergence-02": {
			ThemeID:   "desert-convergence-02",
			Theme:     "Desert Convergence",
			BasePrice: 19900,
			Variants:  []store.Variant{{ID: "desert-convergence-02-v1"}},
		},
	}
}

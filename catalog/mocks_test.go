package catalog

import (
	"context"
	"sync"

	"github.com/denine/artstore/store"
)

type mockStore struct {
	mu        sync.Mutex
	themes    map[string]store.PrintTheme
	listCalls int
	getCalls  int
	err       error
}

func newMockStore(themes ...store.PrintTheme) *mockStore {
	m := &mockStore{themes: map[string]store.PrintTheme{}}
	for _, t := range themes {
		m.themes[t.ThemeID] = t
	}
	return m
}

func (m *mockStore) ListThemes(ctx context.Context) ([]store.PrintTheme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := []store.PrintTheme{}
	for _, t := range m.themes {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.themes[themeID]
	if !ok {
		return nil, store.ErrThemeNotFound
	}
	return &t, nil
}

func (m *mockStore) InsertTheme(ctx context.Context, theme *store.PrintTheme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.themes[theme.ThemeID]; ok {
		return store.ErrDuplicate
	}
	m.themes[theme.ThemeID] = *theme
	return nil
}

func (m *mockStore) UpdateTheme(ctx context.Context, themeID string, update store.ThemeUpdate) (*store.PrintTheme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.themes[themeID]
	if !ok {
		return nil, store.ErrThemeNotFound
	}
	if update.Theme != nil {
		t.Theme = *update.Theme
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.BasePrice != nil {
		t.BasePrice = *update.BasePrice
	}
	if update.Variants != nil {
		t.Variants = update.Variants
	}
	m.themes[themeID] = t
	return &t, nil
}

func (m *mockStore) DeleteTheme(ctx context.Context, themeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.themes[themeID]; !ok {
		return store.ErrThemeNotFound
	}
	delete(m.themes, themeID)
	return nil
}

func (m *mockStore) calls() (list, get int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.getCalls
}

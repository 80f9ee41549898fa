package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/denine/artstore/store"
)

// CachedStore puts ThemeCache in front of a Store. Reads fill the cache on miss,
// concurrent misses for the same key share one database round trip, and writes
// invalidate. Cache failures are logged and never fail the request.
type CachedStore struct {
	store  Store
	cache  *ThemeCache
	sfg    singleflight.Group
	logger *slog.Logger
}

func NewCachedStore(store Store, cache *ThemeCache, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (s *CachedStore) ListThemes(ctx context.Context) ([]store.PrintTheme, error) {
	themes, err := s.cache.GetThemes(ctx)
	if err != nil {
		s.logger.Warn("theme cache read failed", slog.Any("error", err))
	} else if themes != nil {
		return themes, nil
	}

	v, err, _ := s.sfg.Do(allThemesKey, func() (any, error) {
		themes, err := s.store.ListThemes(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetThemes(ctx, themes); err != nil {
			s.logger.Warn("failed to populate theme cache", slog.Any("error", err))
		}
		return themes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]store.PrintTheme), nil
}

func (s *CachedStore) GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error) {
	theme, err := s.cache.GetTheme(ctx, themeID)
	if err != nil {
		s.logger.Warn("theme cache read failed", slog.String("theme_id", themeID), slog.Any("error", err))
	} else if theme != nil {
		return theme, nil
	}

	v, err, _ := s.sfg.Do(themeKey(themeID), func() (any, error) {
		theme, err := s.store.GetTheme(ctx, themeID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetTheme(ctx, theme); err != nil {
			s.logger.Warn("failed to populate theme cache", slog.String("theme_id", themeID), slog.Any("error", err))
		}
		return theme, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*store.PrintTheme), nil
}

func (s *CachedStore) InsertTheme(ctx context.Context, theme *store.PrintTheme) error {
	if err := s.store.InsertTheme(ctx, theme); err != nil {
		return err
	}
	s.invalidate(ctx, theme.ThemeID)
	return nil
}

func (s *CachedStore) UpdateTheme(ctx context.Context, themeID string, update store.ThemeUpdate) (*store.PrintTheme, error) {
	theme, err := s.store.UpdateTheme(ctx, themeID, update)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, themeID)
	return theme, nil
}

func (s *CachedStore) DeleteTheme(ctx context.Context, themeID string) error {
	if err := s.store.DeleteTheme(ctx, themeID); err != nil {
		return err
	}
	s.invalidate(ctx, themeID)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, themeID string) {
	if err := s.cache.Invalidate(ctx, themeID); err != nil {
		s.logger.Warn("failed to invalidate theme cache", slog.String("theme_id", themeID), slog.Any("error", err))
	}
}

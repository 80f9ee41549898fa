package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/denine/artstore/common/apperr"
	"github.com/denine/artstore/store"
)

const (
	DefaultBasePrice    int64 = 19900
	placeholderImage          = "https://via.placeholder.com/500x700?text=Upload+Image"
	defaultVariantCount       = 3
)

// Store is the persistence the catalog needs. *store.Store and *CachedStore satisfy it.
type Store interface {
	ListThemes(ctx context.Context) ([]store.PrintTheme, error)
	GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error)
	InsertTheme(ctx context.Context, theme *store.PrintTheme) error
	UpdateTheme(ctx context.Context, themeID string, update store.ThemeUpdate) (*store.PrintTheme, error)
	DeleteTheme(ctx context.Context, themeID string) error
}

type CreateThemeRequest struct {
	ThemeID     string
	Theme       string
	Description string
	BasePrice   *int64
}

type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListThemes(ctx context.Context) ([]store.PrintTheme, error) {
	themes, err := s.store.ListThemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	return themes, nil
}

func (s *Service) GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error) {
	if strings.TrimSpace(themeID) == "" {
		return nil, apperr.Validation("theme_id is required")
	}
	return s.store.GetTheme(ctx, themeID)
}

// CreateTheme stores a new theme with three placeholder variants; the first is featured.
func (s *Service) CreateTheme(ctx context.Context, req CreateThemeRequest) (*store.PrintTheme, error) {
	if strings.TrimSpace(req.ThemeID) == "" {
		return nil, apperr.Validation("theme_id is required")
	}
	if strings.TrimSpace(req.Theme) == "" {
		return nil, apperr.Validation("theme is required")
	}
	price := DefaultBasePrice
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, apperr.Validation("base_price must not be negative")
		}
		price = *req.BasePrice
	}

	now := s.now()
	theme := &store.PrintTheme{
		ThemeID:     req.ThemeID,
		Theme:       req.Theme,
		Description: req.Description,
		BasePrice:   price,
		Variants:    DefaultVariants(req.ThemeID, req.Theme, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.InsertTheme(ctx, theme); err != nil {
		return nil, fmt.Errorf("create theme %s: %w", req.ThemeID, err)
	}

	s.logger.Info("print theme created", slog.String("theme_id", theme.ThemeID))
	return theme, nil
}

func (s *Service) UpdateTheme(ctx context.Context, themeID string, update store.ThemeUpdate) (*store.PrintTheme, error) {
	if update.BasePrice != nil && *update.BasePrice < 0 {
		return nil, apperr.Validation("base_price must not be negative")
	}
	if update.Theme != nil && strings.TrimSpace(*update.Theme) == "" {
		return nil, apperr.Validation("theme must not be empty")
	}
	if update.Variants != nil {
		if len(update.Variants) == 0 {
			return nil, apperr.Validation("variants must not be empty")
		}
		seen := make(map[string]bool, len(update.Variants))
		for _, v := range update.Variants {
			if v.ID == "" {
				return nil, apperr.Validation("variant id is required")
			}
			if seen[v.ID] {
				return nil, apperr.Validation("duplicate variant id %q", v.ID)
			}
			seen[v.ID] = true
		}
	}

	theme, err := s.store.UpdateTheme(ctx, themeID, update)
	if err != nil {
		return nil, fmt.Errorf("update theme %s: %w", themeID, err)
	}
	return theme, nil
}

func (s *Service) DeleteTheme(ctx context.Context, themeID string) error {
	if err := s.store.DeleteTheme(ctx, themeID); err != nil {
		return fmt.Errorf("delete theme %s: %w", themeID, err)
	}
	s.logger.Info("print theme deleted", slog.String("theme_id", themeID))
	return nil
}

// DefaultVariants builds "<id>-v1".."<id>-v3" named "<theme> I".."<theme> III".
func DefaultVariants(themeID, theme string, now time.Time) []store.Variant {
	numerals := []string{"I", "II", "III"}
	variants := make([]store.Variant, 0, defaultVariantCount)
	for i := 0; i < defaultVariantCount; i++ {
		variants = append(variants, store.Variant{
			ID:        fmt.Sprintf("%s-v%d", themeID, i+1),
			Name:      fmt.Sprintf("%s %s", theme, numerals[i]),
			ImageURL:  placeholderImage,
			Featured:  i == 0,
			CreatedAt: now,
		})
	}
	return variants
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/denine/artstore/store"
)

const allThemesKey = "themes:all"

// ThemeCache is the Redis side of the cache-aside catalogue. A miss returns nil, nil.
type ThemeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewThemeCache(client *redis.Client, ttl time.Duration) *ThemeCache {
	return &ThemeCache{
		client: client,
		ttl:    ttl,
	}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func themeKey(themeID string) string {
	return fmt.Sprintf("theme:%s", themeID)
}

func (c *ThemeCache) GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error) {
	var theme store.PrintTheme
	found, err := c.get(ctx, themeKey(themeID), &theme)
	if err != nil || !found {
		return nil, err
	}
	return &theme, nil
}

func (c *ThemeCache) SetTheme(ctx context.Context, theme *store.PrintTheme) error {
	return c.set(ctx, themeKey(theme.ThemeID), theme)
}

func (c *ThemeCache) GetThemes(ctx context.Context) ([]store.PrintTheme, error) {
	var themes []store.PrintTheme
	found, err := c.get(ctx, allThemesKey, &themes)
	if err != nil || !found {
		return nil, err
	}
	if themes == nil {
		themes = []store.PrintTheme{}
	}
	return themes, nil
}

func (c *ThemeCache) SetThemes(ctx context.Context, themes []store.PrintTheme) error {
	return c.set(ctx, allThemesKey, themes)
}

// Invalidate drops the theme entry and the listing that contains it.
func (c *ThemeCache) Invalidate(ctx context.Context, themeID string) error {
	return c.client.Del(ctx, themeKey(themeID), allThemesKey).Err()
}

func (c *ThemeCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get error: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *ThemeCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

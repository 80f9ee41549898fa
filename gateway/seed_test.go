package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denine/artstore/catalog"
	"github.com/denine/artstore/common/logger"
)

func TestSeedThemes(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	themes := SeedThemes(now)

	require.Len(t, themes, 5)
	ids := make(map[string]bool)
	for _, theme := range themes {
		ids[theme.ThemeID] = true
		assert.Equal(t, catalog.DefaultBasePrice, theme.BasePrice)
		assert.Equal(t, now, theme.CreatedAt)
		assert.NotEmpty(t, theme.Description)

		require.Len(t, theme.Variants, 3, theme.ThemeID)
		assert.Equal(t, theme.ThemeID+"-v1", theme.Variants[0].ID)
		assert.Equal(t, theme.ThemeID+"-v3", theme.Variants[2].ID)
		assert.True(t, theme.Variants[0].Featured)
		assert.False(t, theme.Variants[1].Featured)
		for _, v := range theme.Variants {
			assert.Contains(t, seedImages[:], v.ImageURL)
		}
	}
	assert.Len(t, ids, 5)

	assert.Equal(t, "terra-flow-01", themes[0].ThemeID)
	assert.Equal(t, "Terra Flow I", themes[0].Variants[0].Name)
	assert.Equal(t, seedImages[3], themes[1].Variants[0].ImageURL)
}

func TestSeedCatalog(t *testing.T) {
	seeder := &mockSeeder{}

	n, err := SeedCatalog(context.Background(), seeder, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, seeder.themes, 5)
	assert.Equal(t, "mineral-veins-05", seeder.themes[4].ThemeID)
}

func TestSeedCatalog_StopsOnError(t *testing.T) {
	seeder := &mockSeeder{err: errors.New("mongo down")}

	n, err := SeedCatalog(context.Background(), seeder, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terra-flow-01")
	assert.Zero(t, n)
}

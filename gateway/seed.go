package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/denine/artstore/catalog"
	"github.com/denine/artstore/store"
)

const assetBase = "https://customer-assets.emergentagent.com/job_d67d05e5-b65e-421b-93bc-daeca4d987b4/artifacts/"

var seedImages = [...]string{
	assetBase + "rm1z8whc_igorrnilsen_httpss.mj.runLhZO5OcPAXo_httpss.mj.runfPq83MaA-g8_h_9bf35ed4-f078-46f2-9c25-c575dcb1cb35.png",
	assetBase + "t62y1oeq_igorrnilsen_httpss.mj.runLhZO5OcPAXo_httpss.mj.runfPq83MaA-g8_h_3605bc9b-0df7-4471-abde-b6396993080f.png",
	assetBase + "tcqy627x_igorrnilsen_httpss.mj.runaQN_mLP4b5g_httpss.mj.runLhZO5OcPAXo_-_972d700e-645e-4833-a51a-b9c3a2c4989f.png",
	assetBase + "dsp4zzim_igorrnilsen_httpss.mj.runaQN_mLP4b5g_httpss.mj.runLhZO5OcPAXo_-_bde9ef52-47af-4c98-a035-8e3f9aa86523%20%281%29.png",
}

type seedTheme struct {
	themeID     string
	theme       string
	description string
	images      [3]int
}

var seedCatalog = []seedTheme{
	{
		themeID:     "terra-flow-01",
		theme:       "Terra Flow",
		description: "Abstract landscapes where earth meets water in flowing, organic forms. Each piece captures the natural dance between geological structures and flowing elements.",
		images:      [3]int{0, 1, 2},
	},
	{
		themeID:     "desert-convergence-02",
		theme:       "Desert Convergence",
		description: "Where sand dunes meet rivers, creating mesmerizing patterns of contrast and harmony. The interplay of warm earth tones with cool water elements.",
		images:      [3]int{3, 0, 1},
	},
	{
		themeID:     "arctic-formations-03",
		theme:       "Arctic Formations",
		description: "Frozen landscapes captured from above, revealing the subtle beauty of ice patterns and geological formations in pristine wilderness.",
		images:      [3]int{2, 3, 0},
	},
	{
		themeID:     "elemental-rhythms-04",
		theme:       "Elemental Rhythms",
		description: "Natural patterns emerge from the intersection of different landscapes, creating rhythmic compositions that speak to the earth's fundamental forces.",
		images:      [3]int{1, 2, 3},
	},
	{
		themeID:     "mineral-veins-05",
		theme:       "Mineral Veins",
		description: "Geological masterpieces revealed through aerial perspective, showcasing the earth's natural artistry in mineral deposits and erosion patterns.",
		images:      [3]int{3, 0, 1},
	},
}

type ThemeSeeder interface {
	UpsertTheme(ctx context.Context, theme *store.PrintTheme) error
}

// SeedThemes builds the launch catalogue.
func SeedThemes(now time.Time) []store.PrintTheme {
	themes := make([]store.PrintTheme, 0, len(seedCatalog))
	for _, st := range seedCatalog {
		variants := catalog.DefaultVariants(st.themeID, st.theme, now)
		for i := range variants {
			variants[i].ImageURL = seedImages[st.images[i]]
		}
		themes = append(themes, store.PrintTheme{
			ThemeID:     st.themeID,
			Theme:       st.theme,
			Description: st.description,
			BasePrice:   catalog.DefaultBasePrice,
			Variants:    variants,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return themes
}

// SeedCatalog upserts the launch catalogue, so running it twice is harmless.
func SeedCatalog(ctx context.Context, seeder ThemeSeeder, logger *slog.Logger) (int, error) {
	themes := SeedThemes(time.Now().UTC())
	for i := range themes {
		if err := seeder.UpsertTheme(ctx, &themes[i]); err != nil {
			return i, fmt.Errorf("seed theme %s: %w", themes[i].ThemeID, err)
		}
		logger.Info("seeded print theme", slog.String("theme_id", themes[i].ThemeID))
	}
	return len(themes), nil
}

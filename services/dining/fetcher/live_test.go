package fetcher

import (
	"context"
	"testing"
	"time"
	devenv "umddining-backend/dev/env"
	"umddining-backend/lib/telemetry"
	"umddining-backend/services/dining/extract"

	"github.com/stretchr/testify/require"
)

func TestLiveSite(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining/fetcher")
	defer cleanup()

	config, err := devenv.GetStateConfig[devenv.LiveSiteConfig]("live_site.json5")
	if err != nil {
		t.Skip("no dev/.state/live_site.json5, skipping requests to the live site:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	f, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}

	if config.DiningHallID != "" && config.Date != "" {
		html, err := f.MenuPage(ctx, config.DiningHallID, config.Date)
		if err != nil {
			t.Fatal(err)
		}
		placements, err := extract.ExtractMenu(ctx, html, config.DiningHallID, config.Date)
		if err != nil {
			t.Fatal(err)
		}
		require.NotEmpty(t, placements)
		t.Logf("%d placements, first: %+v", len(placements), placements[0])
	}
	if config.RecNum != "" {
		html, err := f.LabelPage(ctx, config.RecNum)
		if err != nil {
			t.Fatal(err)
		}
		nutrition, err := extract.ExtractNutrition(ctx, html)
		if err != nil {
			t.Fatal(err)
		}
		require.False(t, nutrition.Empty())
		t.Logf("%+v", nutrition)
	}
}

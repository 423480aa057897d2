package dining

import (
	"context"
	"path/filepath"
	"testing"
	"umddining-backend/lib/telemetry"
	"umddining-backend/services/dining/halls"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	cfg := DefaultConfig
	cfg.Database.File = filepath.Join(t.TempDir(), "state", "dining.db")
	cfg.DiningHalls = halls.Directory{{ID: "19", Name: "Yahentamitsi Dining Hall", Location: "South Campus"}}

	service, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer service.Close()

	rows, err := service.Store.DiningHalls(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []halls.DiningHall(cfg.DiningHalls), rows)
	require.Equal(t, cfg.DiningHalls, service.Engine.Halls())
	require.Equal(t, "https://nutrition.umd.edu", service.Fetcher.Http.BaseURL)
}

func TestOpenWithoutDatabase(t *testing.T) {
	cfg := DefaultConfig
	cfg.Database.File = ""
	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
}

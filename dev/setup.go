package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	devenv "umddining-backend/dev/env"
	"umddining-backend/pkg/migrations"
	"umddining-backend/services/dining/db"
	"umddining-backend/services/dining/halls"
	"umddining-backend/services/dining/store"
)

const devDbPath = "<dev_state>/dining.db"

func CreateDevDB() error {
	path, err := devenv.ResolvePath(devDbPath)
	if err != nil {
		return err
	}

	fmt.Println("creating database at", path)
	database, err := migrations.OpenAndMigrateDB(db.Schema, path)
	if err != nil {
		return err
	}
	defer database.Close()

	return store.New(database).SeedHalls(context.Background(), halls.Default)
}

// WriteLocalConfig points config.local.json5 at the dev database unless
// one already exists.
func WriteLocalConfig() error {
	_, err := os.Stat("config.local.json5")
	if err == nil {
		fmt.Println("config.local.json5 already exists, leaving it alone")
		return nil
	}

	path, err := devenv.ResolvePath(devDbPath)
	if err != nil {
		return err
	}
	contents := fmt.Sprintf("{\n  database: { file: %q },\n}\n", path)
	return os.WriteFile("config.local.json5", []byte(contents), 0600)
}

func PrintConfigLocations() {
	slog.Info("tests against the live nutrition site are skipped unless dev/.state/live_site.json5 exists, see dev/env/config.go for its fields.")
}

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"umddining-backend/lib/telemetry"
	"umddining-backend/pkg/migrations"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	database, err := migrations.OpenDB(dbpath)
	if err != nil {
		t.Fatal(err)
	}
	err = migrations.Migrate(context.Background(), database, params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: database}, func() {
		database.Close()
		cleanup()
	}
}

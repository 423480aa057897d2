package configlibsql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"umddining-backend/pkg/migrations"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Struct is the database section of a config file. A local sqlite file
// is used unless Url points at a remote libsql server.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) open() (*sql.DB, error) {
	if config.Url == "" {
		if config.File == "" {
			return nil, fmt.Errorf("neither a database file nor url was specified")
		}
		return migrations.OpenDB(config.File)
	}

	values := url.Values{}
	if config.AuthToken != "" {
		values.Add("authToken", config.AuthToken)
	}
	dsn := config.Url
	if len(values) > 0 {
		dsn += "?" + values.Encode()
	}
	return sql.Open("libsql", dsn)
}

// OpenDB opens the configured database and applies `schema` to it.
func (config Struct) OpenDB(ctx context.Context, schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	err = migrations.Migrate(ctx, db, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

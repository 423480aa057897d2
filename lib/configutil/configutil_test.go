package configutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int      `json:"port"`
	Database string   `json:"database"`
	Halls    []string `json:"halls"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](path)
	require.True(t, errors.Is(err, os.ErrNotExist))

	writeFile(t, path, `{
		// comments are allowed
		port: 8000,
		database: "dining.db",
	}`)
	cfg, err := ReadConfig[testConfig](path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, testConfig{Port: 8000, Database: "dining.db"}, cfg)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ database: "local.db" }`)
	cfg, err = ReadConfig[testConfig](path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, testConfig{Port: 8000, Database: "local.db"}, cfg)
}

func TestReadConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	defaults := testConfig{Port: 8000, Database: "dining.db", Halls: []string{"19"}}

	cfg, err := ReadConfigWithDefaults(path, defaults)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, defaults, cfg)

	writeFile(t, path, `{ port: 9000 }`)
	cfg, err = ReadConfigWithDefaults(path, defaults)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, testConfig{Port: 9000, Database: "dining.db", Halls: []string{"19"}}, cfg)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	err := os.MkdirAll(nested, 0777)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "walk.json5"), `{ port: 1234 }`)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	err = os.Chdir(nested)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadRecursively[testConfig]("walk.json5")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1234, cfg.Port)
}

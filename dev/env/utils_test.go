package devenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := ResolvePath("<dev_state>/dining.db")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, filepath.Join(root, "dev", ".state", "dining.db"), resolved)

	resolved, err = ResolvePath("some/other.db")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "some/other.db", resolved)
}

package halls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	hall, ok := Default.Get("51")
	require.True(t, ok)
	require.Equal(t, "251 North", hall.Name)
	require.Equal(t, "North Campus", hall.Location)

	_, ok = Default.Get("99")
	require.False(t, ok)

	require.Equal(t, Default, Directory(nil).OrDefault())

	custom := Directory{{ID: "1", Name: "Test Hall", Location: "Nowhere"}}
	require.Equal(t, custom, custom.OrDefault())
}

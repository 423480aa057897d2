package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSiteDate(t *testing.T) {
	cases := []struct {
		text     string
		expected time.Time
	}{
		{text: "9/3/2024", expected: time.Date(2024, time.September, 3, 0, 0, 0, 0, Location)},
		{text: "09/03/2024", expected: time.Date(2024, time.September, 3, 0, 0, 0, 0, Location)},
		{text: "2024-09-03", expected: time.Date(2024, time.September, 3, 0, 0, 0, 0, Location)},
		{text: " 12/31/2025 ", expected: time.Date(2025, time.December, 31, 0, 0, 0, 0, Location)},
	}

	for _, test := range cases {
		parsed, err := ParseSiteDate(test.text)
		if err != nil {
			t.Fatal(err)
		}
		require.True(t, test.expected.Equal(parsed), "%s parsed into %s", test.text, parsed)
	}

	_, err := ParseSiteDate("yesterday")
	require.Error(t, err)
	_, err = ParseSiteDate("13/45/2024")
	require.Error(t, err)
}

func TestNormalizeSiteDate(t *testing.T) {
	for _, text := range []string{"9/3/2024", "09/03/2024", "2024-09-03"} {
		normalized, err := NormalizeSiteDate(text)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, "9/3/2024", normalized)
	}
}

func TestStartOfDay(t *testing.T) {
	utc := time.Date(2024, time.September, 3, 2, 30, 0, 0, time.UTC)
	// 2:30 UTC is still the previous evening in College Park
	require.Equal(t, time.Date(2024, time.September, 2, 0, 0, 0, 0, Location), StartOfDay(utc))
	require.Equal(t, "9/2/2024", FormatSiteDate(StartOfDay(utc)))
}

package timezone

import (
	"fmt"
	"strings"
	"time"

	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// force timezone to be in College Park because the servers don't
// necessarily run on the east coast, which will shift what "today"
// means when comparing menu dates.
func Now() time.Time {
	return time.Now().In(Location)
}

// the nutrition site expects dates like 9/3/2024, no zero padding.
const siteLayout = "1/2/2006"

var acceptedLayouts = []string{
	siteLayout,
	"01/02/2006",
	"2006-01-02",
}

// FormatSiteDate renders t the way the nutrition site expects it in
// its dtdate query parameter.
func FormatSiteDate(t time.Time) string {
	return t.Format(siteLayout)
}

// Today is FormatSiteDate(Now()).
func Today() string {
	return FormatSiteDate(Now())
}

// ParseSiteDate accepts M/D/YYYY (with or without zero padding) or
// YYYY-MM-DD and returns midnight of that day in Location.
func ParseSiteDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range acceptedLayouts {
		t, err := time.ParseInLocation(layout, text, Location)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date '%s'", text)
}

// NormalizeSiteDate parses text and formats it back into the canonical
// site form so that "09/03/2024", "9/3/2024" and "2024-09-03" all key
// the same menu.
func NormalizeSiteDate(text string) (string, error) {
	t, err := ParseSiteDate(text)
	if err != nil {
		return "", err
	}
	return FormatSiteDate(t), nil
}

// StartOfDay truncates t to midnight in Location.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

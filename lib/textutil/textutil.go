package textutil

import (
	"regexp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Similarity is the Jaro-Winkler similarity of the normalized names,
// 1 being identical.
func Similarity(a, b string) float64 {
	return matchr.JaroWinkler(NormalizeName(a), NormalizeName(b), false)
}

// SortBySimilarity orders items from most to least similar to query,
// ties are broken by name so the order is stable between calls.
func SortBySimilarity[T any](items []T, query string, name func(T) string) {
	scores := make(map[string]float64, len(items))
	for _, item := range items {
		n := name(item)
		if _, ok := scores[n]; !ok {
			scores[n] = Similarity(n, query)
		}
	}
	slices.SortStableFunc(items, func(a, b T) int {
		an := name(a)
		bn := name(b)
		as := scores[an]
		bs := scores[bn]
		if as > bs {
			return -1
		}
		if as < bs {
			return 1
		}
		return strings.Compare(an, bn)
	})
}

package matching

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DescriptionSimilarity scores two transaction descriptions in [0, 1] using
// normalized Levenshtein distance. Case and surrounding whitespace are ignored
// since bank feeds normalize both inconsistently.
func DescriptionSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}

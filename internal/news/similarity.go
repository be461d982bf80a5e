package news

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the matching-blocks ratio of the two normalized
// titles, 2*M/T, where M is the number of runes in matching blocks and T
// the combined rune length. Two empty titles score 1.
//
// The pair is put in a fixed order before matching so the score does not
// depend on argument order.
func Similarity(a, b string) float64 {
	ra := []rune(NormalizeTitle(a))
	rb := []rune(NormalizeTitle(b))
	if compareRunes(ra, rb) > 0 {
		ra, rb = rb, ra
	}
	if len(ra)+len(rb) == 0 {
		return 1.0
	}
	return difflib.NewMatcher(runeStrings(ra), runeStrings(rb)).Ratio()
}

// runeStrings splits s into one element per rune, so the matcher's
// frequent-element junk rule counts runes.
func runeStrings(s []rune) []string {
	return strings.Split(string(s), "")
}

func compareRunes(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

package news

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidArgument is returned for an empty group.
var ErrInvalidArgument = errors.New("invalid argument")

// Representative picks the article with the longest title once highlight
// tags are stripped. Ties go to the earlier member.
func Representative(g Group) (Article, error) {
	if len(g) == 0 {
		return Article{}, fmt.Errorf("representative of empty group: %w", ErrInvalidArgument)
	}
	best := 0
	bestLen := utf8.RuneCountInString(StripBold(g[0].Title))
	for i := 1; i < len(g); i++ {
		if n := utf8.RuneCountInString(StripBold(g[i].Title)); n > bestLen {
			best, bestLen = i, n
		}
	}
	return g[best], nil
}

// MustRepresentative is Representative for groups produced by Cluster,
// which are never empty.
func MustRepresentative(g Group) Article {
	a, err := Representative(g)
	if err != nil {
		panic(err)
	}
	return a
}

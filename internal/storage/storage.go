// Package storage keeps track of which article links earlier runs have
// already reported.
package storage

import (
	"context"

	"github.com/deusflow/mvnonews/internal/news"
)

// History is a store of previously reported links.
type History interface {
	// LoadSeenLinks returns every link reported by earlier runs.
	LoadSeenLinks(ctx context.Context) (map[string]struct{}, error)
	// Record stores the links of a finished digest.
	Record(ctx context.Context, d news.Digest) error
	Close() error
}

package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/mvnonews/internal/logger"
	"github.com/deusflow/mvnonews/internal/metrics"
	"github.com/deusflow/mvnonews/internal/news"
)

// Source searches news for one keyword, newest first.
type Source interface {
	Search(ctx context.Context, keyword string, display int) ([]news.Article, error)
}

// CollectOptions control one collection pass.
type CollectOptions struct {
	Display     int // results requested per keyword
	Cap         int // max kept per keyword after filtering, 0 = no cap
	Policy      news.WindowPolicy
	Concurrency int
}

// Collect searches every keyword in parallel and keeps the results that
// mention the keyword and fall inside the window. A keyword whose search
// fails is logged and yields no articles.
func Collect(ctx context.Context, src Source, keywords []string, opts CollectOptions) map[string][]news.Article {
	results := make([][]news.Article, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, keyword := range keywords {
		g.Go(func() error {
			results[i] = collectKeyword(gctx, src, keyword, opts)
			return nil
		})
	}
	_ = g.Wait()

	perKeyword := make(map[string][]news.Article, len(keywords))
	for i, keyword := range keywords {
		perKeyword[keyword] = results[i]
	}
	return perKeyword
}

func collectKeyword(ctx context.Context, src Source, keyword string, opts CollectOptions) []news.Article {
	items, err := src.Search(ctx, keyword, opts.Display)
	if err != nil {
		logger.Error("Search failed", "keyword", keyword, "error", err)
		metrics.Global.IncrementSearchErrors()
		return nil
	}
	metrics.Global.AddFetched(len(items))

	var matched []news.Article
	for _, a := range items {
		if news.MatchesKeyword(a, keyword) {
			matched = append(matched, a)
		}
	}

	var inWindow []news.Article
	for _, a := range matched {
		if opts.Policy == nil || opts.Policy.Contains(a.PubDate) {
			inWindow = append(inWindow, a)
		}
	}

	kept := inWindow
	if opts.Cap > 0 && len(kept) > opts.Cap {
		kept = kept[:opts.Cap]
	}

	logger.Info("Searched",
		"keyword", keyword,
		"fetched", len(items),
		"matched", len(matched),
		"in_window", len(inWindow),
		"kept", len(kept),
	)
	return kept
}

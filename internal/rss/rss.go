// Package rss searches news through the Google News RSS search feed.
package rss

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/mvnonews/internal/news"
)

const DefaultBaseURL = "https://news.google.com/rss/search"

// GoogleNews is a keyword search over the Google News RSS endpoint,
// localized to Korea.
type GoogleNews struct {
	BaseURL string
	Timeout time.Duration
	parser  *gofeed.Parser
}

func NewGoogleNews(baseURL string, timeout time.Duration) *GoogleNews {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &GoogleNews{BaseURL: baseURL, Timeout: timeout, parser: gofeed.NewParser()}
}

func (g *GoogleNews) feedURL(keyword string) string {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("hl", "ko")
	q.Set("gl", "KR")
	q.Set("ceid", "KR:ko")
	return g.BaseURL + "?" + q.Encode()
}

// Search returns up to display feed items for keyword, newest first.
func (g *GoogleNews) Search(ctx context.Context, keyword string, display int) ([]news.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	feed, err := g.parser.ParseURLWithContext(g.feedURL(keyword), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse google news feed for %q: %w", keyword, err)
	}

	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		return publishedAt(items[i]).After(publishedAt(items[j]))
	})
	if display > 0 && len(items) > display {
		items = items[:display]
	}

	articles := make([]news.Article, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		articles = append(articles, toArticle(item))
	}
	return articles, nil
}

func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	return time.Time{}
}

func toArticle(item *gofeed.Item) news.Article {
	pub := item.Published
	if item.PublishedParsed != nil {
		pub = item.PublishedParsed.In(news.KST).Format(time.RFC1123Z)
	}
	return news.Article{
		Title:        item.Title,
		OriginalLink: item.Link,
		Link:         item.Link,
		Description:  item.Description,
		PubDate:      pub,
	}
}

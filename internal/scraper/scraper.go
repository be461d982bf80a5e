package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/deusflow/mvnonews/internal/cache"
)

const (
	// MaxPreviewRunes caps the length of a preview.
	MaxPreviewRunes = 200
	maxPageBytes    = 4 << 20
	minPreviewRunes = 20
)

// Scraper fetches short previews of article pages.
type Scraper struct {
	client *http.Client
	Limit  int           // max pages per batch, 0 = no limit
	Pause  time.Duration // between requests, don't overload sites

	cache    *cache.Cache
	cacheTTL time.Duration
}

func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{
		client: &http.Client{Timeout: timeout},
		Limit:  10,
		Pause:  500 * time.Millisecond,
	}
}

// WithCache remembers fetched previews for ttl, so repeated runs in one
// process don't refetch the same pages.
func (s *Scraper) WithCache(c *cache.Cache, ttl time.Duration) *Scraper {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

// FetchPreview returns the page description of pageURL.
func (s *Scraper) FetchPreview(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; mvnonews/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("error reading page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	preview := metaDescription(doc)
	if preview == "" {
		preview = readableExcerpt(body, pageURL)
	}
	if preview == "" {
		preview = firstParagraph(doc)
	}
	if preview == "" {
		return "", fmt.Errorf("no preview in %s", pageURL)
	}
	return truncate(preview), nil
}

// FetchPreviews gets previews for urls one by one. Failures are logged and
// left out of the result.
func (s *Scraper) FetchPreviews(ctx context.Context, urls []string) map[string]string {
	result := make(map[string]string)
	fetched := 0

	for _, link := range urls {
		if s.cache != nil {
			if preview, ok := s.cache.Get(link); ok {
				result[link] = preview
				continue
			}
		}
		if s.Limit > 0 && fetched >= s.Limit {
			continue
		}
		if fetched > 0 && s.Pause > 0 {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(s.Pause):
			}
		}

		fetched++
		preview, err := s.FetchPreview(ctx, link)
		if err != nil {
			log.Printf("⚠️ Can't get preview %s: %v", link, err)
			continue
		}
		result[link] = preview
		if s.cache != nil {
			s.cache.Set(link, preview, s.cacheTTL)
		}
	}

	return result
}

func metaDescription(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	}

	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if text := cleanText(content); text != "" {
				return text
			}
		}
	}
	return ""
}

// readableExcerpt runs the page through readability and returns its
// excerpt, or the start of the extracted text.
func readableExcerpt(body []byte, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return ""
	}

	for _, candidate := range []string{article.Excerpt, article.TextContent} {
		if text := cleanText(candidate); utf8.RuneCountInString(text) > minPreviewRunes {
			return text
		}
	}
	return ""
}

// firstParagraph finds the first paragraph that looks like body text.
func firstParagraph(doc *goquery.Document) string {
	var text string
	for _, selector := range []string{"article p", "#articleBodyContents", "#dic_area", "main p", "p"} {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			t := cleanText(s.Text())
			if utf8.RuneCountInString(t) > minPreviewRunes {
				text = t
				return false
			}
			return true
		})
		if text != "" {
			break
		}
	}

	return text
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxPreviewRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:MaxPreviewRunes])) + "…"
}

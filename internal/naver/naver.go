// Package naver is a client for the Naver news search API.
package naver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/deusflow/mvnonews/internal/news"
	"github.com/deusflow/mvnonews/internal/ratelimit"
	"github.com/deusflow/mvnonews/internal/retry"
)

const (
	DefaultBaseURL = "https://openapi.naver.com"
	searchPath     = "/v1/search/news.json"
	maxDisplay     = 100
)

type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
	Retry        retry.RetryConfig
	Quota        *ratelimit.DailyQuota // nil = no quota
}

// Client searches news sorted by date.
type Client struct {
	http  *resty.Client
	retry retry.RetryConfig
	quota *ratelimit.DailyQuota
}

type searchResponse struct {
	LastBuildDate string         `json:"lastBuildDate"`
	Total         int            `json:"total"`
	Start         int            `json:"start"`
	Display       int            `json:"display"`
	Items         []news.Article `json:"items"`
}

type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}
	}

	h := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("X-Naver-Client-Id", cfg.ClientID).
		SetHeader("X-Naver-Client-Secret", cfg.ClientSecret).
		SetHeader("Accept", "application/json")

	return &Client{http: h, retry: cfg.Retry, quota: cfg.Quota}
}

// Search returns up to display of the newest articles for keyword, newest
// first, exactly as the API returns them.
func (c *Client) Search(ctx context.Context, keyword string, display int) ([]news.Article, error) {
	if display < 1 {
		display = 1
	}
	if display > maxDisplay {
		display = maxDisplay
	}

	var result searchResponse
	err := retry.WithRetry(ctx, c.retry, func() error {
		if c.quota != nil {
			if err := c.quota.Use(); err != nil {
				return retry.Permanent(err)
			}
		}

		var apiErr errorResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"query":   keyword,
				"display": strconv.Itoa(display),
				"sort":    "date",
			}).
			SetResult(&result).
			SetError(&apiErr).
			Get(searchPath)
		if err != nil {
			return fmt.Errorf("naver search request: %w", err)
		}

		switch code := resp.StatusCode(); {
		case code == http.StatusOK:
			return nil
		case code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusBadRequest:
			return retry.Permanent(fmt.Errorf("naver search %q: status %d %s %s", keyword, code, apiErr.ErrorCode, apiErr.ErrorMessage))
		default:
			return fmt.Errorf("naver search %q: status %d", keyword, code)
		}
	})
	if err != nil {
		return nil, err
	}

	return result.Items, nil
}

package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/deusflow/mvnonews/internal/retry"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	// MaxMessageLength is Telegram's limit for one text message, in UTF-16
	// code units.
	MaxMessageLength = 4096
	truncatedMark    = "…"
)

// Client sends HTML messages to one chat.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
	retry   retry.RetryConfig
}

func NewClient(token, chatID string) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		retry: retry.RetryConfig{
			MaxAttempts: 3,
			Delay:       2 * time.Second,
			Backoff:     true,
		},
	}
}

// WithBaseURL points the client at another API host.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithRetry replaces the retry policy.
func (c *Client) WithRetry(cfg retry.RetryConfig) *Client {
	c.retry = cfg
	return c
}

// SendMessage sends text with retry logic. Client errors other than rate
// limiting are not retried.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	text = fitMessage(text, MaxMessageLength)

	attempt := 0
	err := retry.WithRetry(ctx, c.retry, func() error {
		attempt++
		err := c.sendMessageOnce(ctx, text)
		if err != nil {
			log.Printf("Error send to Telegram (try %d/%d): %v", attempt, c.retry.MaxAttempts, err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("can't send message: %w", err)
	}

	log.Printf("Message sent to Telegram (try %d)", attempt)
	return nil
}

// fitMessage shortens text to at most limit UTF-16 units. It cuts at the
// last line break that fits, so HTML tags and entities, which never span
// lines here, stay whole.
func fitMessage(text string, limit int) string {
	if utf16Len(text) <= limit {
		return text
	}

	budget := limit - utf16Len(truncatedMark)
	used, cut := 0, 0
	for i, r := range text {
		used += utf16.RuneLen(r)
		if used > budget {
			break
		}
		if r == '\n' {
			cut = i
		}
	}
	if cut > 0 {
		return text[:cut+1] + truncatedMark
	}

	// A single overlong line: cut by rune and drop a trailing partial tag
	// or entity.
	used = 0
	end := 0
	for i, r := range text {
		if used+utf16.RuneLen(r) > budget {
			end = i
			break
		}
		used += utf16.RuneLen(r)
	}
	head := text[:end]
	if lt := strings.LastIndexByte(head, '<'); lt > strings.LastIndexByte(head, '>') {
		head = head[:lt]
	}
	if amp := strings.LastIndexByte(head, '&'); amp > strings.LastIndexByte(head, ';') {
		head = head[:amp]
	}
	return head + truncatedMark
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// sendMessageOnce does one try to send message
func (c *Client) sendMessageOnce(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	payload := map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return retry.Permanent(fmt.Errorf("error make JSON: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Printf("Warning: failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}

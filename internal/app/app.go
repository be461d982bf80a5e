// Package app wires search, deduplication, reports, history and
// notification into one run.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deusflow/mvnonews/internal/cache"
	"github.com/deusflow/mvnonews/internal/config"
	"github.com/deusflow/mvnonews/internal/logger"
	"github.com/deusflow/mvnonews/internal/metrics"
	"github.com/deusflow/mvnonews/internal/naver"
	"github.com/deusflow/mvnonews/internal/news"
	"github.com/deusflow/mvnonews/internal/ratelimit"
	"github.com/deusflow/mvnonews/internal/report"
	"github.com/deusflow/mvnonews/internal/retry"
	"github.com/deusflow/mvnonews/internal/rss"
	"github.com/deusflow/mvnonews/internal/scraper"
	"github.com/deusflow/mvnonews/internal/storage"
	"github.com/deusflow/mvnonews/internal/telegram"
)

// Naver caps display at 100.
const maxDisplay = 100

// Notifier delivers the run summary.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// Result is what one run produced. Paths is zero when nothing new was
// found and no files were written.
type Result struct {
	Meta   report.Meta
	Digest news.Digest
	Paths  report.Paths
}

type App struct {
	cfg      *config.Config
	source   Source
	history  storage.History
	writer   *report.Writer
	notifier Notifier // nil = don't notify
	now      func() time.Time
	closers  []func()
}

// New assembles an App from ready collaborators. history and notifier may
// be nil.
func New(cfg *config.Config, source Source, history storage.History, writer *report.Writer, notifier Notifier) *App {
	return &App{
		cfg:      cfg,
		source:   source,
		history:  history,
		writer:   writer,
		notifier: notifier,
		now:      time.Now,
	}
}

// Build creates the collaborators named in cfg.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	history, err := OpenHistory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s history: %w", cfg.HistoryBackend, err)
	}

	writer := &report.Writer{DataDir: cfg.DataDir, ReportsDir: cfg.ReportsDir}

	a := New(cfg, newSource(cfg), history, writer, nil)
	a.closers = append(a.closers, func() {
		if err := history.Close(); err != nil {
			logger.Warn("Closing history failed", "error", err)
		}
	})

	if cfg.EnrichPreviews {
		previews := cache.New(time.Hour)
		writer.Previewer = scraper.New(cfg.RequestTimeout).WithCache(previews, 24*time.Hour)
		a.closers = append(a.closers, previews.Close)
	}

	if cfg.TelegramEnabled() {
		a.notifier = telegram.NewClient(cfg.TelegramToken, cfg.TelegramChatID).WithRetry(retryConfig(cfg))
	} else {
		logger.Warn("Telegram token or chat id not set, summaries will not be sent")
	}

	return a, nil
}

func retryConfig(cfg *config.Config) retry.RetryConfig {
	return retry.RetryConfig{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}
}

func newSource(cfg *config.Config) Source {
	if cfg.SearchProvider == "rss" {
		return rss.NewGoogleNews("", cfg.RequestTimeout)
	}
	var quota *ratelimit.DailyQuota
	if cfg.NaverDailyQuota > 0 {
		quota = ratelimit.NewDailyQuota(cfg.NaverDailyQuota)
	}
	return naver.NewClient(naver.Config{
		ClientID:     cfg.NaverClientID,
		ClientSecret: cfg.NaverClientSecret,
		Timeout:      cfg.RequestTimeout,
		Retry:        retryConfig(cfg),
		Quota:        quota,
	})
}

// Close releases the history connection and background workers.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// RunRolling collects what was published in the last SearchHours hours
// and was not reported before.
func (a *App) RunRolling(ctx context.Context) (*Result, error) {
	now := a.now()
	policy := news.RollingHours{Hours: a.cfg.SearchHours, Now: a.now}

	display := a.cfg.NewsCount * 3
	if display > maxDisplay {
		display = maxDisplay
	}

	meta := report.Meta{
		Mode:        report.ModeRolling,
		GeneratedAt: now,
		SearchHours: a.cfg.SearchHours,
		Threshold:   a.cfg.SimilarityThreshold,
	}
	return a.run(ctx, policy, meta, CollectOptions{
		Display:     display,
		Cap:         a.cfg.NewsCount,
		Policy:      policy,
		Concurrency: a.cfg.FetchConcurrency,
	})
}

// RunDaily summarizes one calendar day in KST, regardless of history.
func (a *App) RunDaily(ctx context.Context, day news.FixedCalendarDay) (*Result, error) {
	meta := report.Meta{
		Mode:        report.ModeDaily,
		GeneratedAt: a.now(),
		ReportDate:  day.Date(),
		Threshold:   a.cfg.SimilarityThreshold,
	}
	return a.run(ctx, day, meta, CollectOptions{
		Display:     a.cfg.DailySummaryCount,
		Policy:      day,
		Concurrency: a.cfg.FetchConcurrency,
	})
}

// Yesterday is the default day for RunDaily.
func (a *App) Yesterday() news.FixedCalendarDay {
	return news.Yesterday(a.now())
}

func (a *App) run(ctx context.Context, policy news.WindowPolicy, meta report.Meta, opts CollectOptions) (*Result, error) {
	start := time.Now()
	log := logger.With("mode", string(meta.Mode), "window", policy.Label())
	log.Info("Starting news collection",
		"keywords", len(a.cfg.Keywords),
		"threshold", a.cfg.SimilarityThreshold,
	)

	res, err := a.pipeline(ctx, policy, meta, opts)

	metrics.Global.RecordProcessingTime(time.Since(start))
	if err != nil {
		metrics.Global.SetError(err.Error())
		log.Error("Run failed", "error", err)
		return res, err
	}
	metrics.Global.SetLastRun(string(meta.Mode))
	log.Info("Run completed", "total", res.Digest.Stats.TotalNews, "duration", time.Since(start))
	return res, nil
}

func (a *App) pipeline(ctx context.Context, policy news.WindowPolicy, meta report.Meta, opts CollectOptions) (*Result, error) {
	res := &Result{Meta: meta}

	var seenLinks map[string]struct{}
	if policy.SeedsHistory() && a.history != nil {
		links, err := a.history.LoadSeenLinks(ctx)
		if err != nil {
			return res, fmt.Errorf("load history: %w", err)
		}
		seenLinks = links
		logger.Info("Loaded existing links", "count", len(links))
	}
	seen := news.NewSeenSet(seenLinks)

	perKeyword := Collect(ctx, a.source, a.cfg.Keywords, opts)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	candidates := 0
	for _, items := range perKeyword {
		candidates += len(items)
	}

	res.Digest = news.BuildDigest(a.cfg.Keywords, perKeyword, seen, a.cfg.SimilarityThreshold)
	metrics.Global.RecordDigest(candidates, res.Digest.Stats.TotalNews, res.Digest.GroupCount())

	for _, kg := range res.Digest.Keywords {
		logger.Info("Grouped", "keyword", kg.Keyword, "articles", kg.Size(), "groups", len(kg.Groups))
	}

	if res.Digest.Empty() {
		logger.Info("No new articles, nothing to report")
		return res, nil
	}

	paths, err := a.writer.Write(ctx, res.Digest, meta)
	if err != nil {
		return res, fmt.Errorf("write reports: %w", err)
	}
	res.Paths = paths
	metrics.Global.IncrementReportsWritten()

	var recordErr error
	if policy.SeedsHistory() && a.history != nil {
		if err := a.history.Record(ctx, res.Digest); err != nil {
			recordErr = fmt.Errorf("record history: %w", err)
		}
	}

	a.notify(ctx, res)

	return res, recordErr
}

// notify sends the summary. Delivery failures are logged, not returned:
// the reports are already on disk.
func (a *App) notify(ctx context.Context, res *Result) {
	if a.notifier == nil {
		logger.Warn("Skipping Telegram summary")
		return
	}

	msg := telegram.FormatSummary(res.Digest, res.Meta, res.Paths)
	if err := a.notifier.SendMessage(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("Telegram summary failed", "error", err)
		return
	}
	metrics.Global.IncrementTelegramMessagesSent()
}

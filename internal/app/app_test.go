package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/mvnonews/internal/config"
	"github.com/deusflow/mvnonews/internal/news"
	"github.com/deusflow/mvnonews/internal/report"
	"github.com/deusflow/mvnonews/internal/storage"
)

var runAt = time.Date(2026, 10, 19, 12, 0, 0, 0, news.KST)

func pub(t time.Time) string { return t.Format(time.RFC1123Z) }

// fakeSource returns canned results per keyword.
type fakeSource struct {
	mu       sync.Mutex
	results  map[string][]news.Article
	errs     map[string]error
	displays map[string]int
	delay    map[string]time.Duration
}

func (f *fakeSource) Search(ctx context.Context, keyword string, display int) ([]news.Article, error) {
	if d := f.delay[keyword]; d > 0 {
		time.Sleep(d)
	}
	f.mu.Lock()
	if f.displays == nil {
		f.displays = map[string]int{}
	}
	f.displays[keyword] = display
	f.mu.Unlock()
	if err := f.errs[keyword]; err != nil {
		return nil, err
	}
	return f.results[keyword], nil
}

type recordingNotifier struct {
	messages []string
	err      error
}

func (r *recordingNotifier) SendMessage(_ context.Context, text string) error {
	r.messages = append(r.messages, text)
	return r.err
}

func testConfig(t *testing.T) *config.Config {
	root := t.TempDir()
	return &config.Config{
		Keywords:            []string{"알뜰폰", "MVNO"},
		SearchHours:         3,
		NewsCount:           10,
		DailySummaryCount:   50,
		SimilarityThreshold: news.DefaultSimilarityThreshold,
		FetchConcurrency:    2,
		DataDir:             filepath.Join(root, "data"),
		ReportsDir:          filepath.Join(root, "reports"),
	}
}

func newTestApp(cfg *config.Config, src Source, n Notifier) *App {
	a := New(cfg, src, storage.NewFileHistory(cfg.DataDir),
		&report.Writer{DataDir: cfg.DataDir, ReportsDir: cfg.ReportsDir}, n)
	a.now = func() time.Time { return runAt }
	return a
}

func rollingSource() *fakeSource {
	return &fakeSource{results: map[string][]news.Article{
		"알뜰폰": {
			{Title: "<b>알뜰폰</b> 요금제 출시", Link: "https://n.example/1", PubDate: pub(runAt.Add(-time.Hour))},
			{Title: "<b>알뜰폰</b> 요금제 출시 예정", Link: "https://n.example/2", PubDate: pub(runAt.Add(-2 * time.Hour))},
			{Title: "<b>알뜰폰</b> 오래된 기사", Link: "https://n.example/old", PubDate: pub(runAt.Add(-5 * time.Hour))},
			{Title: "관련 없는 기사", Link: "https://n.example/x", PubDate: pub(runAt)},
		},
		"MVNO": {
			{Title: "MVNO 시장 확대", Link: "https://n.example/3", PubDate: "not a date"},
			{Title: "<b>알뜰폰</b> 요금제 출시", Description: "MVNO", Link: "https://n.example/1", PubDate: pub(runAt)},
		},
	}}
}

func TestRunRolling_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	src := rollingSource()
	n := &recordingNotifier{}

	res, err := newTestApp(cfg, src, n).RunRolling(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, src.displays["알뜰폰"])
	assert.Equal(t, 3, res.Digest.Stats.TotalNews)
	require.Len(t, res.Digest.Keywords, 2)

	assert.Equal(t, "알뜰폰", res.Digest.Keywords[0].Keyword)
	require.Len(t, res.Digest.Keywords[0].Groups, 1)
	assert.Len(t, res.Digest.Keywords[0].Groups[0], 2)

	// Link 1 is already taken by the earlier keyword; the undated
	// article is kept in rolling mode.
	assert.Equal(t, []news.Group{{{Title: "MVNO 시장 확대", Link: "https://n.example/3", PubDate: "not a date"}}},
		res.Digest.Keywords[1].Groups)

	assert.FileExists(t, res.Paths.JSON)
	assert.FileExists(t, res.Paths.Excel)
	assert.FileExists(t, res.Paths.Markdown)
	assert.Equal(t, filepath.Join(cfg.DataDir, "mvno_news_20261019_120000.json"), res.Paths.JSON)

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "📊 새 뉴스: 3개")
}

func TestRunRolling_SecondRunSeesHistory(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(cfg, rollingSource(), &recordingNotifier{})

	_, err := a.RunRolling(context.Background())
	require.NoError(t, err)

	n := &recordingNotifier{}
	a.notifier = n
	a.now = func() time.Time { return runAt.Add(time.Second) }

	res, err := a.RunRolling(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Digest.Empty())
	assert.Equal(t, report.Paths{}, res.Paths)
	assert.Empty(t, n.messages)

	files, err := filepath.Glob(filepath.Join(cfg.DataDir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRunRolling_CapsPerKeyword(t *testing.T) {
	cfg := testConfig(t)
	cfg.Keywords = []string{"MVNO"}
	cfg.NewsCount = 2

	src := &fakeSource{results: map[string][]news.Article{"MVNO": {
		{Title: "MVNO a", Link: "l1", PubDate: pub(runAt)},
		{Title: "MVNO bb different", Link: "l2", PubDate: pub(runAt)},
		{Title: "MVNO ccc other story", Link: "l3", PubDate: pub(runAt)},
	}}}

	res, err := newTestApp(cfg, src, nil).RunRolling(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, src.displays["MVNO"])
	assert.Equal(t, 2, res.Digest.Stats.TotalNews)
}

func TestRunDaily_IgnoresHistoryAndDropsUndated(t *testing.T) {
	cfg := testConfig(t)
	yesterday := runAt.AddDate(0, 0, -1)

	// A rolling report already holds link d1.
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "mvno_news_20261018_100000.json"),
		[]byte(`{"news_by_keyword":{"MVNO":[[{"link":"d1"}]]}}`), 0o644))

	src := &fakeSource{results: map[string][]news.Article{"MVNO": {
		{Title: "MVNO yesterday", Link: "d1", PubDate: pub(yesterday)},
		{Title: "MVNO today story", Link: "d2", PubDate: pub(runAt)},
		{Title: "MVNO undated", Link: "d3", PubDate: ""},
	}}}
	n := &recordingNotifier{}
	a := newTestApp(cfg, src, n)

	res, err := a.RunDaily(context.Background(), a.Yesterday())
	require.NoError(t, err)

	assert.Equal(t, 50, src.displays["MVNO"])
	assert.Equal(t, 1, res.Digest.Stats.TotalNews)
	assert.Equal(t, "d1", res.Digest.Keywords[0].Groups[0][0].Link)
	assert.Equal(t, filepath.Join(cfg.DataDir, "mvno_daily_20261018.json"), res.Paths.JSON)
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "📅 보고 날짜: 2026-10-18 (전일)")
}

func TestRun_NotifierFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	n := &recordingNotifier{err: errors.New("telegram down")}

	res, err := newTestApp(cfg, rollingSource(), n).RunRolling(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, res.Paths.JSON)
	assert.Len(t, n.messages, 1)
}

type failingHistory struct{ *storage.FileHistory }

func (failingHistory) LoadSeenLinks(context.Context) (map[string]struct{}, error) {
	return nil, errors.New("db down")
}

func TestRun_HistoryFailureAbortsRolling(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(cfg, rollingSource(), nil)
	a.history = failingHistory{}

	_, err := a.RunRolling(context.Background())
	assert.ErrorContains(t, err, "load history: db down")

	// Daily runs never read history.
	_, err = a.RunDaily(context.Background(), a.Yesterday())
	assert.NoError(t, err)
}

func TestCollect_KeepsKeywordOrderAndSurvivesErrors(t *testing.T) {
	src := &fakeSource{
		results: map[string][]news.Article{
			"a": {{Title: "a one", Link: "1"}},
			"c": {{Title: "c three", Link: "3"}},
		},
		errs:  map[string]error{"b": errors.New("boom")},
		delay: map[string]time.Duration{"a": 20 * time.Millisecond},
	}

	got := Collect(context.Background(), src, []string{"a", "b", "c"}, CollectOptions{Display: 5, Concurrency: 3})

	assert.Len(t, got, 3)
	assert.Equal(t, []news.Article{{Title: "a one", Link: "1"}}, got["a"])
	assert.Empty(t, got["b"])
	assert.Equal(t, []news.Article{{Title: "c three", Link: "3"}}, got["c"])
}

func TestCollect_KeywordFilterIsCaseInsensitive(t *testing.T) {
	src := &fakeSource{results: map[string][]news.Article{"MVNO": {
		{Title: "mvno lower", Link: "1"},
		{Title: "other", Description: "<b>Mvno</b> in description", Link: "2"},
		{Title: "other", Description: "nothing", Link: "3"},
	}}}

	got := Collect(context.Background(), src, []string{"MVNO"}, CollectOptions{})
	require.Len(t, got["MVNO"], 2)
	assert.Equal(t, "1", got["MVNO"][0].Link)
	assert.Equal(t, "2", got["MVNO"][1].Link)
}

func TestOpenHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.HistoryBackend = "file"

	h, err := OpenHistory(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.FileHistory{}, h)

	cfg.HistoryBackend = "nope"
	_, err = OpenHistory(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrUnknownHistory)
}

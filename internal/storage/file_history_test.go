package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/mvnonews/internal/news"
)

const rollingReport = `{
  "collection_time": "2026-10-19 09:00 KST",
  "statistics": {"total_news": 2, "by_keyword": {"알뜰폰": 2}},
  "news_by_keyword": {
    "알뜰폰": [
      [{"title": "a", "link": "https://n.example/1"}, {"title": "b", "link": "https://n.example/2"}]
    ],
    "MVNO": []
  }
}`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileHistory_LoadSeenLinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mvno_news_20261019_090000.json", rollingReport)
	writeFile(t, dir, "mvno_news_20261019_120000.json", "{not json")
	writeFile(t, dir, "mvno_daily_20261018.json",
		`{"news_by_keyword": {"x": [[{"link": "https://daily.example/1"}]]}}`)

	links, err := NewFileHistory(dir).LoadSeenLinks(context.Background())
	require.NoError(t, err)

	assert.Len(t, links, 2)
	assert.Contains(t, links, "https://n.example/1")
	assert.Contains(t, links, "https://n.example/2")
	assert.NotContains(t, links, "https://daily.example/1")
}

func TestFileHistory_MissingDir(t *testing.T) {
	links, err := NewFileHistory(filepath.Join(t.TempDir(), "nope")).LoadSeenLinks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestFileHistory_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mvno_news_1.json", rollingReport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileHistory(dir).LoadSeenLinks(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileHistory_RecordIsNoop(t *testing.T) {
	dir := t.TempDir()
	fh := NewFileHistory(dir)

	d := news.Digest{Keywords: []news.KeywordGroups{{
		Keyword: "MVNO",
		Groups:  []news.Group{{{Title: "t", Link: "https://n.example/9"}}},
	}}}
	require.NoError(t, fh.Record(context.Background(), d))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, fh.Close())
}

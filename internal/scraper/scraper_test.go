package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/mvnonews/internal/cache"
)

func servePages(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPreview_OGDescription(t *testing.T) {
	srv := servePages(t, map[string]string{
		"/a": `<html><head>
			<meta name="description" content="fallback">
			<meta property="og:description" content="  알뜰폰   가입자 1000만 돌파 ">
		</head><body><p>본문</p></body></html>`,
	})

	got, err := New(0).FetchPreview(context.Background(), srv.URL+"/a")
	require.NoError(t, err)
	assert.Equal(t, "알뜰폰 가입자 1000만 돌파", got)
}

func TestFetchPreview_ParagraphFallback(t *testing.T) {
	srv := servePages(t, map[string]string{
		"/b": `<html><body><article>
			<p>짧음</p>
			<p>과학기술정보통신부는 알뜰폰 활성화 방안을 발표했다고 밝혔다.</p>
		</article></body></html>`,
	})

	got, err := New(0).FetchPreview(context.Background(), srv.URL+"/b")
	require.NoError(t, err)
	assert.Contains(t, got, "과학기술정보통신부는 알뜰폰 활성화 방안을 발표했다고 밝혔다.")
}

func TestFetchPreview_Errors(t *testing.T) {
	srv := servePages(t, map[string]string{
		"/empty": `<html><body><p>x</p></body></html>`,
	})
	s := New(0)

	_, err := s.FetchPreview(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP error: 404")

	_, err = s.FetchPreview(context.Background(), srv.URL+"/empty")
	assert.ErrorContains(t, err, "no preview")
}

func TestFetchPreviews_SkipsFailuresAndHonorsLimit(t *testing.T) {
	page := `<meta property="og:description" content="desc">`
	srv := servePages(t, map[string]string{"/1": page, "/2": page, "/3": page})

	s := New(0)
	s.Pause = 0
	s.Limit = 3

	got := s.FetchPreviews(context.Background(), []string{
		srv.URL + "/1", srv.URL + "/missing", srv.URL + "/2", srv.URL + "/3",
	})
	assert.Equal(t, map[string]string{srv.URL + "/1": "desc", srv.URL + "/2": "desc"}, got)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("가", MaxPreviewRunes+5)
	got := truncate(long)
	assert.Equal(t, MaxPreviewRunes+1, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "short", truncate("short"))
}

func TestFetchPreviews_UsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`<meta property="og:description" content="cached">`))
	}))
	defer srv.Close()

	c := cache.New(0)
	defer c.Close()

	s := New(0).WithCache(c, time.Hour)
	s.Pause = 0
	s.Limit = 1

	first := s.FetchPreviews(context.Background(), []string{srv.URL + "/a"})
	second := s.FetchPreviews(context.Background(), []string{srv.URL + "/a", srv.URL + "/b"})

	assert.Equal(t, "cached", first[srv.URL+"/a"])
	assert.Equal(t, map[string]string{srv.URL + "/a": "cached", srv.URL + "/b": "cached"}, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

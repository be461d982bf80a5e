// Package report writes a digest to disk as JSON, Excel and Markdown.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deusflow/mvnonews/internal/logger"
	"github.com/deusflow/mvnonews/internal/news"
)

// Mode selects the naming and headers of a report.
type Mode string

const (
	ModeRolling Mode = "rolling"
	ModeDaily   Mode = "daily"
)

const timeLayout = "2006-01-02 15:04 KST"

// Meta describes the run a report belongs to.
type Meta struct {
	Mode        Mode
	GeneratedAt time.Time
	SearchHours int    // rolling only
	ReportDate  string // daily only, YYYY-MM-DD
	Threshold   float64
}

// Stem is the file name shared by the three outputs, without extension.
func (m Meta) Stem() string {
	if m.Mode == ModeDaily {
		return "mvno_daily_" + compactDate(m.ReportDate)
	}
	return "mvno_news_" + m.GeneratedAt.In(news.KST).Format("20060102_150405")
}

// Timestamp renders GeneratedAt the way reports and messages show it.
func (m Meta) Timestamp() string {
	return m.GeneratedAt.In(news.KST).Format(timeLayout)
}

func compactDate(date string) string {
	out := make([]byte, 0, len(date))
	for i := 0; i < len(date); i++ {
		if date[i] != '-' {
			out = append(out, date[i])
		}
	}
	return string(out)
}

// Paths are the files a Writer produced. Excel is empty when the digest
// had no rows to write.
type Paths struct {
	JSON     string
	Excel    string
	Markdown string
}

// Previewer fetches short descriptions for article links.
type Previewer interface {
	FetchPreviews(ctx context.Context, urls []string) map[string]string
}

// Writer writes the JSON report to DataDir and the Excel and Markdown
// reports to ReportsDir.
type Writer struct {
	DataDir    string
	ReportsDir string
	Previewer  Previewer // optional
}

func (w *Writer) Write(ctx context.Context, d news.Digest, m Meta) (Paths, error) {
	for _, dir := range []string{w.DataDir, w.ReportsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	stem := m.Stem()
	var paths Paths

	paths.JSON = filepath.Join(w.DataDir, stem+".json")
	if err := WriteJSON(paths.JSON, d, m); err != nil {
		return Paths{}, err
	}
	logger.Info("JSON saved", "path", paths.JSON)

	excelPath := filepath.Join(w.ReportsDir, stem+".xlsx")
	written, err := WriteExcel(excelPath, d)
	if err != nil {
		return Paths{}, err
	}
	if written {
		paths.Excel = excelPath
		logger.Info("Excel saved", "path", paths.Excel)
	}

	var previews map[string]string
	if w.Previewer != nil {
		previews = w.Previewer.FetchPreviews(ctx, representativeLinks(d))
	}

	paths.Markdown = filepath.Join(w.ReportsDir, stem+".md")
	if err := os.WriteFile(paths.Markdown, []byte(RenderMarkdown(d, m, previews)), 0o644); err != nil {
		return Paths{}, fmt.Errorf("write markdown: %w", err)
	}
	logger.Info("Markdown saved", "path", paths.Markdown)

	return paths, nil
}

func representativeLinks(d news.Digest) []string {
	var links []string
	for _, kg := range d.Keywords {
		for _, g := range kg.Groups {
			links = append(links, news.MustRepresentative(g).Link)
		}
	}
	return links
}

package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/deusflow/mvnonews/internal/news"
	"github.com/deusflow/mvnonews/internal/report"
)

const (
	// MaxHeadlines is how many group titles the summary lists.
	MaxHeadlines = 5
	// HeadlineWidth is the display width a listed title is cut to.
	HeadlineWidth = 60
)

// FormatSummary builds the HTML message announcing a finished run.
func FormatSummary(d news.Digest, m report.Meta, paths report.Paths) string {
	var b strings.Builder

	if m.Mode == report.ModeDaily {
		b.WriteString("📊 <b>MVNO 일일 뉴스 요약</b>\n\n")
		fmt.Fprintf(&b, "📅 보고 날짜: %s (전일)\n", m.ReportDate)
		fmt.Fprintf(&b, "🕐 생성 시간: %s\n", m.Timestamp())
		fmt.Fprintf(&b, "📰 총 기사: %d개\n\n", d.Stats.TotalNews)
	} else {
		b.WriteString("📰 <b>MVNO 뉴스 수집 완료</b>\n\n")
		fmt.Fprintf(&b, "📅 %s\n", m.Timestamp())
		fmt.Fprintf(&b, "⏱️ 최근 %d시간 뉴스\n", m.SearchHours)
		fmt.Fprintf(&b, "📊 새 뉴스: %d개\n\n", d.Stats.TotalNews)
	}

	if d.Stats.TotalNews > 0 {
		b.WriteString("📈 <b>키워드별 통계</b>\n")
		for _, kc := range d.Stats.ByKeyword {
			if kc.Count > 0 {
				fmt.Fprintf(&b, "  • %s: %d개\n", html.EscapeString(kc.Keyword), kc.Count)
			}
		}
		b.WriteString("\n")

		if headlines := headlines(d, MaxHeadlines); len(headlines) > 0 {
			b.WriteString("🗞 <b>주요 기사</b>\n")
			for _, a := range headlines {
				title := runewidth.Truncate(news.CleanTitle(a.Title), HeadlineWidth, "…")
				fmt.Fprintf(&b, "  • <a href=\"%s\">%s</a>\n", html.EscapeString(a.Link), html.EscapeString(title))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("💾 <b>저장 파일</b>\n")
	fmt.Fprintf(&b, "  • JSON: %s\n", paths.JSON)
	if paths.Excel != "" {
		fmt.Fprintf(&b, "  • Excel: %s\n", paths.Excel)
	}
	fmt.Fprintf(&b, "  • Markdown: %s\n", paths.Markdown)

	return b.String()
}

// headlines takes group representatives round-robin across keywords, so
// one busy keyword doesn't crowd out the rest.
func headlines(d news.Digest, limit int) []news.Article {
	var out []news.Article
	for round := 0; len(out) < limit; round++ {
		found := false
		for _, kg := range d.Keywords {
			if round >= len(kg.Groups) {
				continue
			}
			found = true
			out = append(out, news.MustRepresentative(kg.Groups[round]))
			if len(out) == limit {
				return out
			}
		}
		if !found {
			break
		}
	}
	return out
}

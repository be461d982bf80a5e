package report

import (
	"fmt"
	"strings"

	"github.com/deusflow/mvnonews/internal/news"
)

// RenderMarkdown renders the human-readable report. previews maps a
// representative link to a short description and may be nil.
func RenderMarkdown(d news.Digest, m Meta, previews map[string]string) string {
	var b strings.Builder

	if m.Mode == ModeDaily {
		b.WriteString("# MVNO 일일 뉴스 요약\n\n")
		fmt.Fprintf(&b, "**보고 날짜**: %s (전일)\n", m.ReportDate)
		fmt.Fprintf(&b, "**생성 시간**: %s\n", m.Timestamp())
	} else {
		b.WriteString("# MVNO 뉴스 모음\n\n")
		fmt.Fprintf(&b, "**수집 시간**: %s\n", m.Timestamp())
		fmt.Fprintf(&b, "**검색 기간**: 최근 %d시간\n", m.SearchHours)
	}
	fmt.Fprintf(&b, "**총 뉴스**: %d개\n\n", d.Stats.TotalNews)
	b.WriteString("---\n\n")

	for _, kg := range d.Keywords {
		if len(kg.Groups) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## 🔍 %s (%d개)\n\n", kg.Keyword, kg.Size())

		for i, g := range kg.Groups {
			rep := news.MustRepresentative(g)
			similar := len(g) - 1

			fmt.Fprintf(&b, "### %d. %s\n", i+1, news.CleanTitle(rep.Title))
			if similar > 0 {
				fmt.Fprintf(&b, "**유사 기사**: %d건\n", similar)
			}
			fmt.Fprintf(&b, "**링크**: %s\n", rep.Link)
			fmt.Fprintf(&b, "**발행일**: %s\n\n", rep.PubDate)

			if p := previews[rep.Link]; p != "" {
				fmt.Fprintf(&b, "> %s\n\n", p)
			}

			if similar > 0 {
				b.WriteString("**유사 기사 목록**:\n")
				for _, a := range g[1:] {
					fmt.Fprintf(&b, "- %s\n", news.CleanTitle(a.Title))
					fmt.Fprintf(&b, "  - %s\n", a.Link)
				}
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/deusflow/mvnonews/internal/news"
)

type jsonReport struct {
	CollectionTime      string               `json:"collection_time,omitempty"`
	SearchHours         int                  `json:"search_hours,omitempty"`
	ReportDate          string               `json:"report_date,omitempty"`
	GeneratedAt         string               `json:"generated_at,omitempty"`
	SimilarityThreshold float64              `json:"similarity_threshold"`
	Statistics          news.Stats           `json:"statistics"`
	NewsByKeyword       news.GroupsByKeyword `json:"news_by_keyword"`
}

func newJSONReport(d news.Digest, m Meta) jsonReport {
	r := jsonReport{
		SimilarityThreshold: m.Threshold,
		Statistics:          d.Stats,
		NewsByKeyword:       news.GroupsByKeyword(d.Keywords),
	}
	if m.Mode == ModeDaily {
		r.ReportDate = m.ReportDate
		r.GeneratedAt = m.Timestamp()
	} else {
		r.CollectionTime = m.Timestamp()
		r.SearchHours = m.SearchHours
	}
	return r
}

// EncodeJSON renders the report with two-space indentation and raw
// (unescaped) titles.
func EncodeJSON(d news.Digest, m Meta) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newJSONReport(d, m)); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

func WriteJSON(path string, d news.Digest, m Meta) error {
	data, err := EncodeJSON(d, m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

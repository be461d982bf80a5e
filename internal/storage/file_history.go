package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/deusflow/mvnonews/internal/news"
)

// RollingReportPattern matches the JSON reports written in rolling mode.
// Daily summaries are not part of the history.
const RollingReportPattern = "mvno_news_*.json"

// FileHistory rebuilds the seen links from the JSON reports in a data
// directory. The reports themselves are the history, so Record is a no-op.
type FileHistory struct {
	dir     string
	pattern string
}

// reportLinks is the part of a JSON report the history needs.
type reportLinks struct {
	NewsByKeyword map[string][][]struct {
		Link string `json:"link"`
	} `json:"news_by_keyword"`
}

func NewFileHistory(dir string) *FileHistory {
	return &FileHistory{dir: dir, pattern: RollingReportPattern}
}

// LoadSeenLinks scans every rolling report in the directory. A missing
// directory means no history; unreadable or malformed files are skipped.
func (fh *FileHistory) LoadSeenLinks(ctx context.Context) (map[string]struct{}, error) {
	links := make(map[string]struct{})

	if _, err := os.Stat(fh.dir); os.IsNotExist(err) {
		return links, nil
	}

	files, err := filepath.Glob(filepath.Join(fh.dir, fh.pattern))
	if err != nil {
		return nil, fmt.Errorf("glob history files: %w", err)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := readReportLinks(path, links); err != nil {
			log.Printf("⚠️ Skipping history file %s: %v", path, err)
		}
	}

	return links, nil
}

func readReportLinks(path string, into map[string]struct{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var r reportLinks
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	for _, groups := range r.NewsByKeyword {
		for _, g := range groups {
			for _, a := range g {
				into[a.Link] = struct{}{}
			}
		}
	}
	return nil
}

func (fh *FileHistory) Record(context.Context, news.Digest) error {
	return nil
}

func (fh *FileHistory) Close() error {
	return nil
}

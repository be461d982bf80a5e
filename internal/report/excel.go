package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/deusflow/mvnonews/internal/news"
)

const sheetName = "Sheet1"

var excelHeader = []interface{}{"키워드", "제목", "링크", "발행일", "유사기사수", "그룹크기"}

// Row is one spreadsheet line: a group shown through its representative.
type Row struct {
	Keyword      string
	Title        string
	Link         string
	PubDate      string
	SimilarCount int
	GroupSize    int
}

// Rows flattens a digest into one row per group, in keyword order.
func Rows(d news.Digest) []Row {
	var rows []Row
	for _, kg := range d.Keywords {
		for _, g := range kg.Groups {
			rep := news.MustRepresentative(g)
			rows = append(rows, Row{
				Keyword:      kg.Keyword,
				Title:        news.CleanTitle(rep.Title),
				Link:         rep.Link,
				PubDate:      rep.PubDate,
				SimilarCount: len(g) - 1,
				GroupSize:    len(g),
			})
		}
	}
	return rows
}

// WriteExcel saves the rows of d to path. Nothing is written when there
// are no rows; the returned flag says whether a file was created.
func WriteExcel(path string, d news.Digest) (bool, error) {
	rows := Rows(d)
	if len(rows) == 0 {
		return false, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheetName, "A1", &excelHeader); err != nil {
		return false, fmt.Errorf("write excel header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return false, err
		}
		values := []interface{}{r.Keyword, r.Title, r.Link, r.PubDate, r.SimilarCount, r.GroupSize}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return false, fmt.Errorf("write excel row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheetName, "B", "C", 60); err != nil {
		return false, err
	}

	if err := f.SaveAs(path); err != nil {
		return false, fmt.Errorf("save excel: %w", err)
	}
	return true, nil
}

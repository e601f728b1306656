// Package export projects the hackathon document into downloadable
// artifacts: a two-sheet XLSX workbook and a raw JSON snapshot. Export never
// mutates the document.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"hackathon-portal/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	submissionsSheet = "User Submissions"
	summarySheet     = "Problem Summary"
)

// Workbook renders one row per participant plus a problem-summary sheet.
func Workbook(doc domain.Document, problems []domain.Problem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", submissionsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}

	if err := writeSubmissions(f, doc, problems); err != nil {
		return nil, err
	}
	if err := writeSummary(f, problems); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// RawJSON is the verbatim document download.
func RawJSON(doc domain.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

func writeSubmissions(f *excelize.File, doc domain.Document, problems []domain.Problem) error {
	header := []string{"Username", "Start Time", "Completed", "Total Score"}
	for _, p := range problems {
		pid := strconv.Itoa(p.ID)
		header = append(header,
			"Problem "+pid+" Solution",
			"Problem "+pid+" Score",
			"Problem "+pid+" Feedback",
			"Problem "+pid+" Submitted At",
		)
	}

	rows := [][]interface{}{toRow(header)}
	for _, username := range sortedUsernames(doc) {
		rec := doc.Users[username]
		row := []interface{}{
			username,
			formatTime(rec.StartTime),
			yesNo(rec.Completed),
			rec.TotalScore,
		}
		for _, p := range problems {
			sub := rec.Problems[strconv.Itoa(p.ID)]
			if sub == nil {
				row = append(row, "", "", "", "")
				continue
			}
			score := interface{}("")
			if sub.Score != nil {
				score = *sub.Score
			}
			row = append(row, sub.Solution, score, sub.Feedback, formatTime(sub.SubmittedAt))
		}
		rows = append(rows, row)
	}

	if err := writeRows(f, submissionsSheet, rows); err != nil {
		return err
	}
	return autofit(f, submissionsSheet, rows)
}

func writeSummary(f *excelize.File, problems []domain.Problem) error {
	rows := [][]interface{}{
		{"Problem ID", "Title", "Difficulty", "Max Score"},
	}
	for _, p := range problems {
		rows = append(rows, []interface{}{p.ID, p.Title, p.Difficulty, p.MaxScore})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	return autofit(f, summarySheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

// autofit widens each column to its longest cell, matching the report
// formatting participants are used to.
func autofit(f *excelize.File, sheet string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	for col := range rows[0] {
		maxLen := 0
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			if n := len(fmt.Sprint(row[col])); n > maxLen {
				maxLen = n
			}
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		width := float64(maxLen + 2)
		if width > 80 {
			width = 80
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func sortedUsernames(doc domain.Document) []string {
	names := make([]string, 0, len(doc.Users))
	for username := range doc.Users {
		names = append(names, username)
	}
	sort.Strings(names)
	return names
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

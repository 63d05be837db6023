package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary = "Summary"
	SheetIssues  = "Issues"
)

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

// Export writes a workbook with a summary sheet and a per-issue sheet.
func (e *ExcelExporter) Export(rep *Report) (string, error) {
	filename := filepath.Join(e.OutputDir, baseName(rep)+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	if err := e.createSummarySheet(f, rep); err != nil {
		return "", fmt.Errorf("failed to create summary: %w", err)
	}
	if err := e.createIssueSheet(f, rep); err != nil {
		return "", fmt.Errorf("failed to create issue sheet: %w", err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetSummary)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(filename); err != nil {
		return "", fmt.Errorf("failed to save excel file: %w", err)
	}
	return filename, nil
}

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1},
		{Type: "top", Color: "#000000", Style: 1},
		{Type: "bottom", Color: "#000000", Style: 1},
	}
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
}

func (e *ExcelExporter) createSummarySheet(f *excelize.File, rep *Report) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	missing, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
		Border: border(),
	})
	if err != nil {
		return err
	}
	total, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#B4C7E7"}, Pattern: 1},
		Font:   &excelize.Font{Bold: true},
		Border: border(),
	})
	if err != nil {
		return err
	}

	meta := [][2]any{
		{"Kind:", string(rep.Kind)},
		{"Date:", rep.Date},
		{"Generated:", rep.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Source:", rep.Source},
		{"Items fetched:", rep.Fetched},
	}
	for i, kv := range meta {
		row := i + 1
		f.SetCellValue(SheetSummary, cellName(1, row), kv[0])
		f.SetCellValue(SheetSummary, cellName(2, row), kv[1])
	}

	row := len(meta) + 2
	for col, h := range []string{"#", "User", "Submitted", "Mention ID"} {
		cell := cellName(col+1, row)
		f.SetCellValue(SheetSummary, cell, h)
		f.SetCellStyle(SheetSummary, cell, cell, header)
	}
	row++

	for i, r := range rep.Rows {
		f.SetCellValue(SheetSummary, cellName(1, row), i+1)
		f.SetCellValue(SheetSummary, cellName(2, row), r.User)
		f.SetCellValue(SheetSummary, cellName(3, row), submittedLabel(r.Submitted))
		f.SetCellValue(SheetSummary, cellName(4, row), r.MentionID)
		if !r.Submitted {
			f.SetCellStyle(SheetSummary, cellName(1, row), cellName(4, row), missing)
		}
		row++
	}

	submitted := len(rep.Rows) - len(rep.Unsubmitted())
	f.SetCellValue(SheetSummary, cellName(2, row), "Total")
	f.SetCellValue(SheetSummary, cellName(3, row), fmt.Sprintf("%d/%d", submitted, len(rep.Rows)))
	f.SetCellStyle(SheetSummary, cellName(1, row), cellName(4, row), total)

	f.SetColWidth(SheetSummary, "A", "A", 16)
	f.SetColWidth(SheetSummary, "B", "B", 24)
	f.SetColWidth(SheetSummary, "C", "D", 22)
	return nil
}

func (e *ExcelExporter) createIssueSheet(f *excelize.File, rep *Report) error {
	if _, err := f.NewSheet(SheetIssues); err != nil {
		return err
	}

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	for col, h := range []string{"#", "Title", "Assignees", "URL"} {
		cell := cellName(col+1, 1)
		f.SetCellValue(SheetIssues, cell, h)
		f.SetCellStyle(SheetIssues, cell, cell, header)
	}

	for i, issue := range rep.Issues {
		row := i + 2
		f.SetCellValue(SheetIssues, cellName(1, row), i+1)
		f.SetCellValue(SheetIssues, cellName(2, row), issue.Title)
		f.SetCellValue(SheetIssues, cellName(3, row), strings.Join(issue.Assignees, ", "))
		if issue.URL != "" {
			f.SetCellValue(SheetIssues, cellName(4, row), issue.URL)
			f.SetCellHyperLink(SheetIssues, cellName(4, row), issue.URL, "External")
		}
	}

	f.SetColWidth(SheetIssues, "A", "A", 5)
	f.SetColWidth(SheetIssues, "B", "B", 40)
	f.SetColWidth(SheetIssues, "C", "C", 30)
	f.SetColWidth(SheetIssues, "D", "D", 60)

	f.SetPanes(SheetIssues, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type CSVExporter struct {
	OutputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir}
}

// Export writes the submissions and the counted issues as two files.
func (e *CSVExporter) Export(rep *Report) ([]string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := baseName(rep)
	submissions := filepath.Join(e.OutputDir, base+"_submissions.csv")
	if err := e.exportSubmissions(rep, submissions); err != nil {
		return nil, fmt.Errorf("failed to export submissions: %w", err)
	}

	issues := filepath.Join(e.OutputDir, base+"_issues.csv")
	if err := e.exportIssues(rep, issues); err != nil {
		return []string{submissions}, fmt.Errorf("failed to export issues: %w", err)
	}

	return []string{submissions, issues}, nil
}

func (e *CSVExporter) exportSubmissions(rep *Report, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Kind:", string(rep.Kind)}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Date:", rep.Date}); err != nil {
		return err
	}
	if err := writer.Write([]string{""}); err != nil {
		return err
	}

	header := []string{"#", "User", "Submitted", "Mention ID"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, row := range rep.Rows {
		record := []string{
			strconv.Itoa(i + 1),
			row.User,
			submittedLabel(row.Submitted),
			row.MentionID,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	totals := []string{"", "Total", fmt.Sprintf("%d/%d", len(rep.Rows)-len(rep.Unsubmitted()), len(rep.Rows)), ""}
	if err := writer.Write(totals); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func (e *CSVExporter) exportIssues(rep *Report, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"#", "Title", "Assignees", "URL"}); err != nil {
		return err
	}
	for i, issue := range rep.Issues {
		record := []string{
			strconv.Itoa(i + 1),
			issue.Title,
			strings.Join(issue.Assignees, ", "),
			issue.URL,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func submittedLabel(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

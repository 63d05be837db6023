package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format names accepted by Export.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

// Export writes rep in every requested format and returns the written paths.
// It stops at the first format that fails.
func (e *Exporter) Export(rep *Report, formats []string) ([]string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case FormatJSON:
			path, err := e.ExportJSON(rep, baseName(rep)+".json")
			if err != nil {
				return written, fmt.Errorf("failed to export JSON: %w", err)
			}
			written = append(written, path)

		case FormatCSV:
			paths, err := NewCSVExporter(e.OutputDir).Export(rep)
			written = append(written, paths...)
			if err != nil {
				return written, fmt.Errorf("failed to export CSV: %w", err)
			}

		case FormatXLSX, "excel":
			path, err := NewExcelExporter(e.OutputDir).Export(rep)
			if err != nil {
				return written, fmt.Errorf("failed to export Excel: %w", err)
			}
			written = append(written, path)

		default:
			return written, fmt.Errorf("unsupported report format %q", format)
		}
	}
	return written, nil
}

func (e *Exporter) ExportJSON(rep *Report, filename string) (string, error) {
	data, err := json.MarshalIndent(rep, "", "\t")
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.OutputDir, filename)
	return path, os.WriteFile(path, data, 0644)
}

func baseName(rep *Report) string {
	return fmt.Sprintf("%s_%s", rep.Kind, rep.GeneratedAt.Format("2006-01-02_15-04-05"))
}

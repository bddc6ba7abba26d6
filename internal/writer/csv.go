// Package writer renders parse results into export formats.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/zueribudget/statement-importer/internal/models"
)

const dateLayout = "02.01.2006"

// CSVWriter writes parsed transactions as CSV.
type CSVWriter struct {
	// IncludeSource emits the source document name as a comment row
	// before the column header.
	IncludeSource bool
}

// WriteToFile writes the result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result *models.ParseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write writes the result in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, result *models.ParseResult) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeSource && result.SourceName != "" {
		writer.Write([]string{"# Source", result.SourceName})
	}

	header := []string{"Date", "Details", "Direction", "Amount", "Category"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range result.Transactions {
		row := []string{
			txn.Date.Format(dateLayout),
			txn.Details,
			string(txn.Direction),
			txn.Amount.StringFixed(2),
			string(txn.Category),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

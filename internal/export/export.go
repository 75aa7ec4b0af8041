// Package export renders a comparison as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"splitcalc/internal/core"
)

// WriteCSV writes one row per category with one amount column per record.
// The header row holds "Category" followed by the record labels.
func WriteCSV(w io.Writer, cmp core.Comparison) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(cmp.Rows)+1)
	header = append(header, "Category")
	for _, row := range cmp.Rows {
		header = append(header, row.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, category := range cmp.Categories {
		line := make([]string, 0, len(cmp.Rows)+1)
		line = append(line, category)
		for _, row := range cmp.Rows {
			line = append(line, core.FormatAmount(row.Amounts[i]))
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns a download name such as
// "splitcalc-comparison-2024-03-01-18-30.csv".
func Filename(prefix string, at time.Time) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = "splitcalc comparison"
	}
	return slug.Make(prefix+" "+at.Format("2006-01-02 15:04")) + ".csv"
}

package core

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Palette colors comparison series by record position.
var Palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ColorFor returns the palette entry for the i-th series.
func ColorFor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

type (
	// Series is one record's amounts for charting.
	Series struct {
		RecordID int64     `json:"record_id"`
		Label    string    `json:"label"`
		Color    string    `json:"color"`
		Data     []float64 `json:"data"`
	}

	// Row is one record's amounts for tabular display.
	Row struct {
		RecordID int64     `json:"record_id"`
		Label    string    `json:"label"`
		Amounts  []float64 `json:"amounts"`
	}

	// CategoryPair names two categories that differ only slightly. They are
	// still compared as separate categories.
	CategoryPair struct {
		A string `json:"a"`
		B string `json:"b"`
	}

	// Comparison aligns several records on one category axis. Every series
	// and row has len(Categories) values in Categories order.
	Comparison struct {
		Categories     []string       `json:"categories"`
		Series         []Series       `json:"series"`
		Rows           []Row          `json:"rows"`
		NearDuplicates []CategoryPair `json:"near_duplicates,omitempty"`
	}
)

func (c Comparison) Empty() bool {
	return len(c.Rows) == 0
}

// Compare builds the aligned comparison for records, in the given order.
// Categories are matched by exact, case-sensitive name.
func Compare(records []CalculationRecord) Comparison {
	if len(records) == 0 {
		return Comparison{}
	}

	categories := unionCategories(records)
	cmp := Comparison{
		Categories:     categories,
		Series:         make([]Series, 0, len(records)),
		Rows:           make([]Row, 0, len(records)),
		NearDuplicates: nearDuplicates(categories),
	}

	for i, rec := range records {
		data := align(rec, categories)
		cmp.Series = append(cmp.Series, Series{
			RecordID: rec.ID,
			Label:    rec.Label(),
			Color:    ColorFor(i),
			Data:     data,
		})
		cmp.Rows = append(cmp.Rows, Row{
			RecordID: rec.ID,
			Label:    rec.Label(),
			Amounts:  append([]float64{}, data...),
		})
	}
	return cmp
}

// SelectRecords keeps the records whose id is selected, in store order.
// Ids that no longer exist are ignored.
func SelectRecords(records []CalculationRecord, selected []int64) []CalculationRecord {
	want := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	out := make([]CalculationRecord, 0, len(selected))
	for _, r := range records {
		if _, ok := want[r.ID]; ok {
			out = append(out, r.Clone())
		}
	}
	return out
}

func unionCategories(records []CalculationRecord) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, rec := range records {
		for _, e := range rec.Expenses {
			if _, ok := seen[e.Category]; ok {
				continue
			}
			seen[e.Category] = struct{}{}
			out = append(out, e.Category)
		}
	}
	return out
}

// align uses the first item per category; absent categories are 0.
func align(rec CalculationRecord, categories []string) []float64 {
	first := make(map[string]float64, len(rec.Expenses))
	for _, e := range rec.Expenses {
		if _, ok := first[e.Category]; !ok {
			first[e.Category] = e.Amount
		}
	}
	out := make([]float64, len(categories))
	for i, c := range categories {
		out[i] = first[c]
	}
	return out
}

func nearDuplicates(categories []string) []CategoryPair {
	var pairs []CategoryPair
	for i := 0; i < len(categories); i++ {
		for j := i + 1; j < len(categories); j++ {
			a := strings.ToLower(strings.TrimSpace(categories[i]))
			b := strings.ToLower(strings.TrimSpace(categories[j]))
			limit := min(len(a), len(b)) / 5
			if limit < 1 {
				limit = 1
			}
			if levenshtein.ComputeDistance(a, b) <= limit {
				pairs = append(pairs, CategoryPair{A: categories[i], B: categories[j]})
			}
		}
	}
	return pairs
}

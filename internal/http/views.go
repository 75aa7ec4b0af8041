package http

import (
	"math"

	"splitcalc/internal/app"
	"splitcalc/internal/core"
	"splitcalc/internal/core/split"
)

type (
	// StateView is the JSON and template shape of the session.
	StateView struct {
		Items         []core.ExpenseItem `json:"items"`
		Total         float64            `json:"total"`
		People        int                `json:"people"`
		Advanced      bool               `json:"advanced"`
		Percentages   []float64          `json:"percentages"`
		PercentageSum float64            `json:"percentage_sum"`
		Result        string             `json:"result"`
		Outcome       *core.Outcome      `json:"outcome,omitempty"`
		Notice        string             `json:"notice,omitempty"`
		Currency      string             `json:"currency"`
		Records       []RecordView       `json:"records"`
		Selection     []int64            `json:"selection"`

		// Overflow is set when the total or the percentage sum is too large
		// to represent. Total and PercentageSum are then reported as 0.
		Overflow bool `json:"overflow,omitempty"`
	}

	RecordView struct {
		core.CalculationRecord
		Label    string  `json:"label"`
		Total    float64 `json:"total"`
		Selected bool    `json:"selected"`
	}

	// ChartBar is one bar of the server-rendered comparison chart.
	ChartBar struct {
		Label  string
		Color  string
		Amount string
		Width  int
	}

	ChartGroup struct {
		Category string
		Bars     []ChartBar
	}
)

func newStateView(st app.State) StateView {
	total, sum := st.Ledger.Total(), split.Sum(st.Policy.Percentages)
	v := StateView{
		Items:         st.Ledger.Items(),
		Total:         finiteOrZero(total),
		People:        st.Policy.People,
		Advanced:      st.Policy.Advanced,
		Percentages:   append([]float64{}, st.Policy.Percentages...),
		PercentageSum: finiteOrZero(sum),
		Overflow:      !split.IsFinite(total) || !split.IsFinite(sum),
		Result:        st.Result,
		Outcome:       st.Outcome,
		Notice:        st.Notice,
		Currency:      st.Currency,
		Records:       make([]RecordView, 0, len(st.Records)),
		Selection:     append([]int64{}, st.Selection...),
	}
	for _, r := range st.Records {
		v.Records = append(v.Records, newRecordView(r, st.Selected(r.ID)))
	}
	return v
}

func newRecordView(r core.CalculationRecord, selected bool) RecordView {
	return RecordView{
		CalculationRecord: r,
		Label:             r.Label(),
		Total:             finiteOrZero(r.Ledger().Total()),
		Selected:          selected,
	}
}

func finiteOrZero(v float64) float64 {
	if !split.IsFinite(v) {
		return 0
	}
	return v
}

// chartGroups lays the comparison out as grouped bars scaled to the largest
// amount.
func chartGroups(cmp core.Comparison) []ChartGroup {
	var maxAmount float64
	for _, s := range cmp.Series {
		for _, v := range s.Data {
			maxAmount = math.Max(maxAmount, v)
		}
	}

	groups := make([]ChartGroup, len(cmp.Categories))
	for i, category := range cmp.Categories {
		g := ChartGroup{Category: category}
		for _, s := range cmp.Series {
			width := 0
			if maxAmount > 0 && s.Data[i] > 0 {
				width = int(math.Round(s.Data[i] / maxAmount * 100))
				if width < 2 {
					width = 2
				}
			}
			g.Bars = append(g.Bars, ChartBar{
				Label:  s.Label,
				Color:  s.Color,
				Amount: core.FormatAmount(s.Data[i]),
				Width:  width,
			})
		}
		groups[i] = g
	}
	return groups
}

// Package chart re-encodes the frequency table as the JSON structure the
// browser viewer draws: stacked bars per publication, a yearly trend line,
// and a pie of the biggest publications.
package chart

import (
	"fmt"

	"avissok/internal/aggregate"
)

// OtherLabel buckets every publication outside the top N in the pie chart.
const OtherLabel = "Andre aviser"

// Newspaper is one stacked-bar series: per-year counts for a publication.
type Newspaper struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
	Total int    `json:"total"`
}

// PieSlice is one pie-chart entry.
type PieSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Statistics summarizes the run for the viewer's header.
type Statistics struct {
	TotalArticles   int      `json:"totalArticles"`
	TotalNewspapers int      `json:"totalNewspapers"`
	TopNewspapers   []string `json:"topNewspapers"`
	DateRange       string   `json:"dateRange"`
}

// Payload is the full chart document.
type Payload struct {
	Years        []int       `json:"years"`
	Newspapers   []Newspaper `json:"newspapers"`
	YearlyTotals []int       `json:"yearlyTotals"`
	Pie          []PieSlice  `json:"pieData"`
	Statistics   Statistics  `json:"statistics"`
}

// Build derives the chart payload from an aggregated table, keeping the
// topN publications as individual series and folding the rest into the
// pie's other-bucket. Pure; the table's row order (descending total) is
// reused as the ranking.
func Build(t *aggregate.Table, topN int) Payload {
	if topN <= 0 {
		topN = 10
	}
	if topN > len(t.Rows) {
		topN = len(t.Rows)
	}

	p := Payload{
		Years:        append([]int(nil), t.Years...),
		Newspapers:   make([]Newspaper, 0, topN),
		YearlyTotals: append([]int(nil), t.YearTotals...),
	}

	for _, row := range t.Rows[:topN] {
		p.Newspapers = append(p.Newspapers, Newspaper{
			Label: row.Publication,
			Data:  append([]int(nil), row.Cells...),
			Total: row.Total,
		})
		p.Pie = append(p.Pie, PieSlice{Label: row.Publication, Value: row.Total})
	}

	others := 0
	for _, row := range t.Rows[topN:] {
		others += row.Total
	}
	if others > 0 {
		p.Pie = append(p.Pie, PieSlice{Label: OtherLabel, Value: others})
	}

	top := topN
	if top > 5 {
		top = 5
	}
	names := make([]string, 0, top)
	for _, row := range t.Rows[:top] {
		names = append(names, row.Publication)
	}

	p.Statistics = Statistics{
		TotalArticles:   t.Grand,
		TotalNewspapers: len(t.Rows),
		TopNewspapers:   names,
		DateRange:       fmt.Sprintf("%d-%d", t.FromYear, t.ToYear),
	}

	return p
}

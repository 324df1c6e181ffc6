package aggregate

import (
	"sort"

	"avissok/internal/models"
)

// UnknownPublication groups hits whose publication name is missing, so the
// grand total always equals the number of in-range records.
const UnknownPublication = "unknown"

// Row is one publication's yearly counts. Cells is parallel to Table.Years.
type Row struct {
	Publication string
	Cells       []int
	Total       int
}

// Table is the publication x year frequency table with totals. Years are
// exactly FromYear..ToYear ascending; rows are ordered by descending total,
// ties broken by publication name.
type Table struct {
	FromYear   int
	ToYear     int
	Years      []int
	Rows       []Row
	YearTotals []int
	Grand      int
}

// Aggregate folds an unordered record list into a frequency table for the
// inclusive year range. Records outside the range are discarded; the remote
// client should already restrict by date but is not trusted to do so
// exactly. Pure function: no side effects, deterministic output.
func Aggregate(records []models.Article, fromYear, toYear int) *Table {
	span := toYear - fromYear + 1
	if span < 1 {
		span = 0
	}

	t := &Table{
		FromYear:   fromYear,
		ToYear:     toYear,
		Years:      make([]int, span),
		YearTotals: make([]int, span),
	}
	for i := range t.Years {
		t.Years[i] = fromYear + i
	}

	cells := make(map[string][]int)
	for _, rec := range records {
		if rec.Year < fromYear || rec.Year > toYear {
			continue
		}

		pub := rec.Publication
		if pub == "" {
			pub = UnknownPublication
		}

		row, ok := cells[pub]
		if !ok {
			row = make([]int, span)
			cells[pub] = row
		}
		row[rec.Year-fromYear]++
	}

	t.Rows = make([]Row, 0, len(cells))
	for pub, counts := range cells {
		total := 0
		for i, n := range counts {
			total += n
			t.YearTotals[i] += n
		}
		t.Rows = append(t.Rows, Row{Publication: pub, Cells: counts, Total: total})
		t.Grand += total
	}

	sort.Slice(t.Rows, func(i, j int) bool {
		if t.Rows[i].Total != t.Rows[j].Total {
			return t.Rows[i].Total > t.Rows[j].Total
		}
		return t.Rows[i].Publication < t.Rows[j].Publication
	})

	return t
}

// Cell returns the count for a publication and year, zero when either is
// absent from the table.
func (t *Table) Cell(publication string, year int) int {
	if year < t.FromYear || year > t.ToYear {
		return 0
	}
	for _, row := range t.Rows {
		if row.Publication == publication {
			return row.Cells[year-t.FromYear]
		}
	}
	return 0
}

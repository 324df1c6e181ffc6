// Package table persists the frequency table as a delimited artifact and
// reads it back for the presentation layer.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"avissok/internal/aggregate"
	"avissok/internal/archive"
	"avissok/internal/models"
	"avissok/internal/processing"
)

// Callers branch on these: a missing artifact is recoverable by re-running
// the fetch, a malformed one is a bug and must be reported as such.
var (
	ErrArtifactMissing   = errors.New("artifact missing")
	ErrArtifactMalformed = errors.New("artifact malformed")
)

const totalLabel = "TOTAL"

// Spreadsheet apps need the BOM to detect UTF-8; the original consumers of
// these files open them in Excel.
const utf8BOM = "\uFEFF"

// ArtifactName encodes the phrase, mode, and year range into the pivot
// file name for traceability.
func ArtifactName(phrase string, mode archive.Mode, fromYear, toYear int) string {
	return fmt.Sprintf("%s_%s_%d_%d.csv", processing.Slug(phrase), mode, fromYear, toYear)
}

// DetailsName is the per-hit companion file to ArtifactName.
func DetailsName(phrase string, mode archive.Mode, fromYear, toYear int) string {
	return fmt.Sprintf("%s_%s_%d_%d_details.csv", processing.Slug(phrase), mode, fromYear, toYear)
}

// Write serializes the table to path, overwriting any previous run. Columns
// are the years plus TOTAL, rows the publications in table order plus a
// TOTAL row.
func Write(path string, t *aggregate.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w := csv.NewWriter(f)

	header := make([]string, 0, len(t.Years)+2)
	header = append(header, "publication")
	for _, year := range t.Years {
		header = append(header, strconv.Itoa(year))
	}
	header = append(header, totalLabel)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	for _, row := range t.Rows {
		if err := w.Write(recordFor(row.Publication, row.Cells, row.Total)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := w.Write(recordFor(totalLabel, t.YearTotals, t.Grand)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteDetails serializes the deduplicated hit list (issue date,
// publication, URN, year), sorted by year then publication.
func WriteDetails(path string, records []models.Article) error {
	sorted := make([]models.Article, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Publication < sorted[j].Publication
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "publication", "urn", "year"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, rec := range sorted {
		date := ""
		if !rec.Issued.IsZero() {
			date = rec.Issued.Format("2006-01-02")
		}
		record := []string{date, rec.Publication, rec.URN, strconv.Itoa(rec.Year)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Read parses a previously written pivot artifact. It reports
// ErrArtifactMissing when the file does not exist and wraps
// ErrArtifactMalformed on any structural problem, including totals that do
// not add up.
func Read(path string) (*aggregate.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	content := strings.TrimPrefix(string(data), utf8BOM)
	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactMalformed, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: too few rows", ErrArtifactMalformed)
	}

	header := rows[0]
	if len(header) < 3 || header[0] != "publication" || header[len(header)-1] != totalLabel {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrArtifactMalformed, header)
	}

	years := make([]int, 0, len(header)-2)
	for _, raw := range header[1 : len(header)-1] {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: year column %q", ErrArtifactMalformed, raw)
		}
		years = append(years, year)
	}
	for i := 1; i < len(years); i++ {
		if years[i] != years[i-1]+1 {
			return nil, fmt.Errorf("%w: non-contiguous year columns", ErrArtifactMalformed)
		}
	}

	t := &aggregate.Table{
		FromYear:   years[0],
		ToYear:     years[len(years)-1],
		Years:      years,
		YearTotals: make([]int, len(years)),
	}

	last := rows[len(rows)-1]
	if len(last) != len(header) || last[0] != totalLabel {
		return nil, fmt.Errorf("%w: missing TOTAL row", ErrArtifactMalformed)
	}

	for _, record := range rows[1 : len(rows)-1] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: row %q has %d columns, want %d",
				ErrArtifactMalformed, record[0], len(record), len(header))
		}

		cells, total, err := parseCounts(record)
		if err != nil {
			return nil, err
		}

		sum := 0
		for i, n := range cells {
			sum += n
			t.YearTotals[i] += n
		}
		if sum != total {
			return nil, fmt.Errorf("%w: row %q total %d, cells sum to %d",
				ErrArtifactMalformed, record[0], total, sum)
		}

		t.Rows = append(t.Rows, aggregate.Row{Publication: record[0], Cells: cells, Total: total})
		t.Grand += total
	}

	totals, grand, err := parseCounts(last)
	if err != nil {
		return nil, err
	}
	for i, n := range totals {
		if n != t.YearTotals[i] {
			return nil, fmt.Errorf("%w: year %d total %d, cells sum to %d",
				ErrArtifactMalformed, years[i], n, t.YearTotals[i])
		}
	}
	if grand != t.Grand {
		return nil, fmt.Errorf("%w: grand total %d, rows sum to %d",
			ErrArtifactMalformed, grand, t.Grand)
	}

	return t, nil
}

func recordFor(label string, cells []int, total int) []string {
	record := make([]string, 0, len(cells)+2)
	record = append(record, label)
	for _, n := range cells {
		record = append(record, strconv.Itoa(n))
	}
	return append(record, strconv.Itoa(total))
}

func parseCounts(record []string) ([]int, int, error) {
	counts := make([]int, 0, len(record)-1)
	for _, raw := range record[1:] {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, 0, fmt.Errorf("%w: cell %q in row %q", ErrArtifactMalformed, raw, record[0])
		}
		counts = append(counts, n)
	}
	return counts[:len(counts)-1], counts[len(counts)-1], nil
}

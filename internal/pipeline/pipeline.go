// Package pipeline runs one fetch-and-aggregate pass: query the archive,
// drop duplicate hits, fold the rest into the frequency table, and persist
// both CSV artifacts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"avissok/internal/aggregate"
	"avissok/internal/archive"
	"avissok/internal/dedupe"
	"avissok/internal/models"
	"avissok/internal/processing"
	"avissok/internal/table"
)

// Searcher is the remote archive boundary.
type Searcher interface {
	Search(ctx context.Context, q archive.Query) ([]models.Article, error)
}

// Result bundles one run's outputs.
type Result struct {
	Table      *aggregate.Table
	Records    []models.Article
	Duplicates int
	PivotPath  string
	DetailPath string
}

// Run executes the pipeline once. Zero hits is not an error: the run still
// writes a valid all-zero table. A remote or write failure aborts the run;
// there are no retries and no partial artifacts kept deliberately.
func Run(ctx context.Context, log *slog.Logger, searcher Searcher, q archive.Query, outputDir string) (*Result, error) {
	records, err := searcher.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("archive search: %w", err)
	}

	unique, duplicates := Dedupe(records, q.FromYear, q.ToYear)
	if duplicates > 0 {
		log.Info("dropped duplicate hits",
			slog.Int("fetched", len(records)),
			slog.Int("duplicates", duplicates),
		)
	}

	res := &Result{
		Table:      aggregate.Aggregate(unique, q.FromYear, q.ToYear),
		Records:    unique,
		Duplicates: duplicates,
		PivotPath:  filepath.Join(outputDir, table.ArtifactName(q.Phrase, q.Mode, q.FromYear, q.ToYear)),
		DetailPath: filepath.Join(outputDir, table.DetailsName(q.Phrase, q.Mode, q.FromYear, q.ToYear)),
	}

	if err := table.Write(res.PivotPath, res.Table); err != nil {
		return nil, fmt.Errorf("write pivot: %w", err)
	}
	if err := table.WriteDetails(res.DetailPath, res.Records); err != nil {
		return nil, fmt.Errorf("write details: %w", err)
	}

	log.Info("run complete",
		slog.Int("articles", res.Table.Grand),
		slog.Int("publications", len(res.Table.Rows)),
		slog.String("pivot", res.PivotPath),
	)

	return res, nil
}

// Dedupe keeps the first occurrence of every distinct hit inside the year
// range. Each archive hit has a URN; the dedup key is derived from it, and
// hits with no identifying fields at all get a unique key so they are
// never merged away.
func Dedupe(records []models.Article, fromYear, toYear int) ([]models.Article, int) {
	seen := dedupe.NewSet(len(records) + 1)
	unique := make([]models.Article, 0, len(records))
	duplicates := 0

	for _, rec := range records {
		if rec.Year < fromYear || rec.Year > toYear {
			continue
		}

		id := processing.RecordID(rec.URN, rec.Publication, rec.Issued)
		if id == "" {
			id = uuid.NewString()
		}

		if seen.Seen(id) {
			duplicates++
			continue
		}
		seen.Add(id)
		unique = append(unique, rec)
	}

	return unique, duplicates
}

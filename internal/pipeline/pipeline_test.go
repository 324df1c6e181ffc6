package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"avissok/internal/archive"
	"avissok/internal/models"
	"avissok/internal/pipeline"
	"avissok/internal/table"
)

type stubSearcher struct {
	records []models.Article
	err     error
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ archive.Query) ([]models.Article, error) {
	s.calls++
	return s.records, s.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func query() archive.Query {
	return archive.Query{
		Phrase:   "historiske spel",
		Mode:     archive.ModeExactPhrase,
		FromYear: 2020,
		ToYear:   2021,
		Limit:    100,
	}
}

func issued(year int) time.Time {
	return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	searcher := &stubSearcher{records: []models.Article{
		{URN: "urn-1", Publication: "Aftenposten", Year: 2020, Issued: issued(2020)},
		{URN: "urn-2", Publication: "Aftenposten", Year: 2020, Issued: issued(2020)},
		{URN: "urn-3", Publication: "VG", Year: 2021, Issued: issued(2021)},
	}}

	res, err := pipeline.Run(context.Background(), discard(), searcher, query(), dir)
	require.NoError(t, err)

	require.Equal(t, 3, res.Table.Grand)
	require.Equal(t, 2, res.Table.Cell("Aftenposten", 2020))
	require.Zero(t, res.Duplicates)

	got, err := table.Read(res.PivotPath)
	require.NoError(t, err)
	require.Equal(t, res.Table, got)

	_, err = os.Stat(res.DetailPath)
	require.NoError(t, err)
}

func TestRunDropsDuplicateURNs(t *testing.T) {
	dup := models.Article{URN: "urn-1", Publication: "Aftenposten", Year: 2020, Issued: issued(2020)}
	searcher := &stubSearcher{records: []models.Article{dup, dup, dup}}

	res, err := pipeline.Run(context.Background(), discard(), searcher, query(), t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 1, res.Table.Grand)
	require.Equal(t, 2, res.Duplicates)
	require.Len(t, res.Records, 1)
}

func TestRunZeroHitsIsNotAnError(t *testing.T) {
	searcher := &stubSearcher{}

	res, err := pipeline.Run(context.Background(), discard(), searcher, query(), t.TempDir())
	require.NoError(t, err)

	require.Zero(t, res.Table.Grand)

	got, err := table.Read(res.PivotPath)
	require.NoError(t, err)
	require.Zero(t, got.Grand)
	require.Equal(t, []int{2020, 2021}, got.Years)
}

func TestRunSearchFailure(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("connection refused")}

	_, err := pipeline.Run(context.Background(), discard(), searcher, query(), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "archive search")
}

func TestRunWriteFailure(t *testing.T) {
	searcher := &stubSearcher{}

	_, err := pipeline.Run(context.Background(), discard(), searcher, query(), "/does/not/exist")
	require.Error(t, err)
}

func TestDedupeRecordsWithoutIdentityAreKept(t *testing.T) {
	records := []models.Article{
		{Year: 2020},
		{Year: 2020},
	}

	unique, duplicates := pipeline.Dedupe(records, 2020, 2021)

	// No URN, publication, or date: nothing safe to merge on.
	require.Len(t, unique, 2)
	require.Zero(t, duplicates)
}

func TestDedupeFiltersOutOfRange(t *testing.T) {
	records := []models.Article{
		{URN: "urn-1", Publication: "VG", Year: 2030, Issued: issued(2030)},
		{URN: "urn-2", Publication: "VG", Year: 2020, Issued: issued(2020)},
	}

	unique, duplicates := pipeline.Dedupe(records, 2020, 2021)

	require.Len(t, unique, 1)
	require.Equal(t, "urn-2", unique[0].URN)
	require.Zero(t, duplicates)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-runewidth"

	"avissok/internal/aggregate"
	"avissok/internal/archive"
	"avissok/internal/config"
	"avissok/internal/logger"
	"avissok/internal/pipeline"
)

func main() {
	log := logger.New("search")
	cfg, err := config.LoadSearch()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	client := archive.New(cfg.ArchiveURL, cfg.ArchiveTimeout, log)

	log.Info("searching archive",
		slog.String("phrase", cfg.Phrase),
		slog.String("mode", cfg.Mode.String()),
		slog.Int("from", cfg.FromYear),
		slog.Int("to", cfg.ToYear),
	)

	res, err := pipeline.Run(ctx, log, client, cfg.Query, cfg.OutputDir)
	if err != nil {
		log.Error("run failed", slog.Any("err", err))
		log.Error("the newspaper archive needs research access; without it, use the public search on the archive's website instead")
		os.Exit(1)
	}

	fmt.Println(renderTable(res.Table))
	fmt.Print(renderStatistics(res.Table))

	if res.Table.Grand == 0 {
		log.Warn("no hits for phrase in range; wrote an all-zero table",
			slog.String("pivot", res.PivotPath),
		)
	}
}

// renderTable prints the pivot with width-aware padding so Norwegian
// publication names line up.
func renderTable(t *aggregate.Table) string {
	nameWidth := runewidth.StringWidth("TOTAL")
	for _, row := range t.Rows {
		if w := runewidth.StringWidth(row.Publication); w > nameWidth {
			nameWidth = w
		}
	}

	var b strings.Builder

	b.WriteString(runewidth.FillRight("", nameWidth))
	for _, year := range t.Years {
		fmt.Fprintf(&b, "  %5d", year)
	}
	b.WriteString("  TOTAL\n")

	writeRow := func(label string, cells []int, total int) {
		b.WriteString(runewidth.FillRight(label, nameWidth))
		for _, n := range cells {
			fmt.Fprintf(&b, "  %5d", n)
		}
		fmt.Fprintf(&b, "  %5d\n", total)
	}

	for _, row := range t.Rows {
		writeRow(row.Publication, row.Cells, row.Total)
	}
	writeRow("TOTAL", t.YearTotals, t.Grand)

	return b.String()
}

func renderStatistics(t *aggregate.Table) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nUnique articles: %d\n", t.Grand)
	fmt.Fprintf(&b, "Publications:    %d\n", len(t.Rows))
	fmt.Fprintf(&b, "Period:          %d-%d\n", t.FromYear, t.ToYear)

	top := len(t.Rows)
	if top > 10 {
		top = 10
	}
	if top > 0 {
		b.WriteString("\nTop publications:\n")
		for i, row := range t.Rows[:top] {
			fmt.Fprintf(&b, "  %2d. %s %4d\n", i+1,
				runewidth.FillRight(row.Publication, 40), row.Total)
		}
	}

	if t.Grand > 0 {
		b.WriteString("\nArticles per year:\n")
		for i, year := range t.Years {
			n := t.YearTotals[i]
			bar := strings.Repeat("█", min(n/2, 50))
			pct := float64(n) / float64(t.Grand) * 100
			fmt.Fprintf(&b, "  %s: %4d (%5.1f%%) %s\n", strconv.Itoa(year), n, pct, bar)
		}
	}

	return b.String()
}

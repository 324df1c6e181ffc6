package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"avissok/internal/archive"
	"avissok/internal/config"
	"avissok/internal/logger"
	"avissok/internal/pipeline"
)

// compare runs the same phrase through every search mode so the trade-off
// between them can be seen on real data before committing to a mode.
func main() {
	log := logger.New("compare")
	cfg, err := config.LoadCompare()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	client := archive.New(cfg.ArchiveURL, cfg.ArchiveTimeout, log)

	modes := []archive.Mode{archive.ModeExactPhrase, archive.ModeFulltext, archive.ModeFreetext}
	counts := make(map[archive.Mode]int, len(modes))

	for _, mode := range modes {
		q := cfg.Query
		q.Mode = mode

		records, err := client.Search(ctx, q)
		if err != nil {
			log.Error("search failed", slog.String("mode", mode.String()), slog.Any("err", err))
			os.Exit(1)
		}

		unique, duplicates := pipeline.Dedupe(records, q.FromYear, q.ToYear)
		counts[mode] = len(unique)

		log.Info("mode done",
			slog.String("mode", mode.String()),
			slog.Int("hits", len(records)),
			slog.Int("unique", len(unique)),
			slog.Int("duplicates", duplicates),
		)
	}

	fmt.Printf("phrase %q, %d-%d\n\n", cfg.Phrase, cfg.FromYear, cfg.ToYear)
	for _, mode := range modes {
		fmt.Printf("  %-12s %5d unique articles\n", mode, counts[mode])
	}

	diff := counts[archive.ModeFulltext] - counts[archive.ModeExactPhrase]
	fmt.Printf("\n  fulltext - exact_phrase: %+d\n", diff)

	switch {
	case diff > 0:
		fmt.Println("\nfulltext matches the words independently and inflates the count;")
		fmt.Println("use exact_phrase for articles that contain the phrase itself.")
	case diff == 0:
		fmt.Println("\nboth modes agree for this phrase; either works.")
	default:
		fmt.Println("\nexact_phrase returned more than fulltext, which is unexpected;")
		fmt.Println("check the archive's query handling before trusting either count.")
	}

	if counts[archive.ModeFreetext] == 0 && counts[archive.ModeExactPhrase] > 0 {
		fmt.Println("freetext found nothing; its tokenization does not handle this phrase.")
	}
}

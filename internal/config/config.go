package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"avissok/internal/archive"
)

// Common contains archive API parameters shared by every binary.
type Common struct {
	ArchiveURL     string
	ArchiveTimeout time.Duration
}

// Search holds configuration for the search binary.
type Search struct {
	Common
	archive.Query
	OutputDir string
}

// Compare holds configuration for the mode-comparison binary.
type Compare struct {
	Common
	archive.Query
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	archive.Query
	OutputDir     string
	BindAddr      string
	TopN          int
	CacheTTL      time.Duration
	CacheCapacity int
}

// LoadSearch builds a Search config from environment variables.
func LoadSearch() (*Search, error) {
	c := &Search{
		Common:    loadCommon(),
		OutputDir: getEnv("OUTPUT_DIR", "."),
	}

	query, err := loadQuery()
	if err != nil {
		return nil, err
	}
	c.Query = *query

	return c, nil
}

// LoadCompare builds a Compare config from environment variables. The mode
// is ignored on purpose: the compare binary always runs all three.
func LoadCompare() (*Compare, error) {
	c := &Compare{Common: loadCommon()}

	query, err := loadQuery()
	if err != nil {
		return nil, err
	}
	c.Query = *query

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common:        loadCommon(),
		OutputDir:     getEnv("OUTPUT_DIR", "."),
		BindAddr:      getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		TopN:          getInt("API_TOP_N", 10),
		CacheTTL:      getDuration("API_CACHE_TTL", "10m"),
		CacheCapacity: getInt("API_CACHE_CAPACITY", 32),
	}

	query, err := loadQuery()
	if err != nil {
		return nil, err
	}
	c.Query = *query

	if c.TopN <= 0 {
		return nil, fmt.Errorf("API_TOP_N must be positive")
	}
	if c.CacheCapacity <= 0 {
		return nil, fmt.Errorf("API_CACHE_CAPACITY must be positive")
	}
	if c.CacheTTL <= 0 {
		return nil, fmt.Errorf("API_CACHE_TTL must be positive")
	}

	return c, nil
}

func loadCommon() Common {
	return Common{
		ArchiveURL:     getEnv("ARCHIVE_API_URL", "https://api.nb.no"),
		ArchiveTimeout: getDuration("ARCHIVE_TIMEOUT", "60s"),
	}
}

func loadQuery() (*archive.Query, error) {
	q := &archive.Query{
		Phrase:   strings.TrimSpace(getEnv("SEARCH_PHRASE", "historiske spel")),
		FromYear: getInt("SEARCH_FROM_YEAR", 2015),
		ToYear:   getInt("SEARCH_TO_YEAR", 2025),
		Limit:    getInt("SEARCH_LIMIT", 2000),
	}

	mode, err := archive.ParseMode(getEnv("SEARCH_MODE", archive.ModeExactPhrase.String()))
	if err != nil {
		return nil, fmt.Errorf("SEARCH_MODE: %w", err)
	}
	q.Mode = mode

	if q.Phrase == "" {
		return nil, fmt.Errorf("SEARCH_PHRASE must not be empty")
	}
	if q.FromYear > q.ToYear {
		return nil, fmt.Errorf("SEARCH_FROM_YEAR cannot exceed SEARCH_TO_YEAR")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("SEARCH_LIMIT must be positive")
	}

	return q, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

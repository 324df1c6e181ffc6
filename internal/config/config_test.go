package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"avissok/internal/archive"
	"avissok/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ARCHIVE_API_URL", "ARCHIVE_TIMEOUT",
		"SEARCH_PHRASE", "SEARCH_MODE", "SEARCH_FROM_YEAR", "SEARCH_TO_YEAR", "SEARCH_LIMIT",
		"OUTPUT_DIR", "API_BIND_ADDR", "API_TOP_N", "API_CACHE_TTL", "API_CACHE_CAPACITY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSearchDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadSearch()
	require.NoError(t, err)

	require.Equal(t, "https://api.nb.no", cfg.ArchiveURL)
	require.Equal(t, 60*time.Second, cfg.ArchiveTimeout)
	require.Equal(t, "historiske spel", cfg.Phrase)
	require.Equal(t, archive.ModeExactPhrase, cfg.Mode)
	require.Equal(t, 2015, cfg.FromYear)
	require.Equal(t, 2025, cfg.ToYear)
	require.Equal(t, 2000, cfg.Limit)
	require.Equal(t, ".", cfg.OutputDir)
}

func TestLoadSearchOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARCHIVE_API_URL", "http://localhost:9999")
	t.Setenv("ARCHIVE_TIMEOUT", "5s")
	t.Setenv("SEARCH_PHRASE", "grunnlovsjubileum")
	t.Setenv("SEARCH_MODE", "fulltext")
	t.Setenv("SEARCH_FROM_YEAR", "2000")
	t.Setenv("SEARCH_TO_YEAR", "2010")
	t.Setenv("SEARCH_LIMIT", "50")
	t.Setenv("OUTPUT_DIR", "/tmp/out")

	cfg, err := config.LoadSearch()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9999", cfg.ArchiveURL)
	require.Equal(t, 5*time.Second, cfg.ArchiveTimeout)
	require.Equal(t, "grunnlovsjubileum", cfg.Phrase)
	require.Equal(t, archive.ModeFulltext, cfg.Mode)
	require.Equal(t, 2000, cfg.FromYear)
	require.Equal(t, 2010, cfg.ToYear)
	require.Equal(t, 50, cfg.Limit)
	require.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestLoadSearchRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad mode", key: "SEARCH_MODE", value: "phrase"},
		{name: "inverted range", key: "SEARCH_FROM_YEAR", value: "2030"},
		{name: "zero limit", key: "SEARCH_LIMIT", value: "0"},
		{name: "blank phrase", key: "SEARCH_PHRASE", value: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.LoadSearch()
			require.Error(t, err)
		})
	}
}

func TestLoadAPI(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BIND_ADDR", ":9090")
	t.Setenv("API_TOP_N", "5")
	t.Setenv("API_CACHE_TTL", "30s")
	t.Setenv("API_CACHE_CAPACITY", "8")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, 5, cfg.TopN)
	require.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.Equal(t, 8, cfg.CacheCapacity)
	require.Equal(t, archive.ModeExactPhrase, cfg.Mode)
}

func TestLoadAPIDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.BindAddr)
	require.Equal(t, 10, cfg.TopN)
	require.Equal(t, 10*time.Minute, cfg.CacheTTL)
	require.Equal(t, 32, cfg.CacheCapacity)
}

func TestLoadAPIRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_TOP_N", "0")

	_, err := config.LoadAPI()
	require.Error(t, err)
}

func TestLoadCompareIgnoresMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_MODE", "freetext")

	cfg, err := config.LoadCompare()
	require.NoError(t, err)
	require.Equal(t, "historiske spel", cfg.Phrase)
}

package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug turns a search phrase into a filename-safe fragment: lowercased,
// with every run of non-alphanumeric characters collapsed to a single
// underscore ("historiske spel" -> "historiske_spel").
func Slug(phrase string) string {
	slug := nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(phrase)), "_")
	return strings.Trim(slug, "_")
}

// RecordID hashes the most stable fields of a hit to form a deterministic
// dedup key. Returns empty when every field is empty; callers are expected
// to substitute a unique ID so such records are never merged.
func RecordID(urn, publication string, issued time.Time) string {
	if urn == "" && publication == "" && issued.IsZero() {
		return ""
	}
	s := sha1.Sum([]byte(urn + "|" + publication + "|" + issued.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(s[:])
}

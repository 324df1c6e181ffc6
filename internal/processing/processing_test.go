package processing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"avissok/internal/processing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple phrase", input: "historiske spel", want: "historiske_spel"},
		{name: "upper case", input: "Historiske Spel", want: "historiske_spel"},
		{name: "punctuation", input: `"historiske spel!"`, want: "historiske_spel"},
		{name: "norwegian letters kept", input: "blåveis og røyk", want: "blåveis_og_røyk"},
		{name: "collapsed runs", input: "a  -  b", want: "a_b"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.Slug(tt.input))
		})
	}
}

func TestRecordIDDeterministic(t *testing.T) {
	ts := time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC)

	id1 := processing.RecordID("urn-1", "Aftenposten", ts)
	id2 := processing.RecordID("urn-1", "Aftenposten", ts)
	require.NotEmpty(t, id1)
	require.Equal(t, id1, id2)

	require.NotEqual(t, id1, processing.RecordID("urn-2", "Aftenposten", ts))
	require.NotEqual(t, id1, processing.RecordID("urn-1", "VG", ts))
}

func TestRecordIDEmptyFields(t *testing.T) {
	require.Empty(t, processing.RecordID("", "", time.Time{}))

	// A bare publication is still identifying.
	require.NotEmpty(t, processing.RecordID("", "Aftenposten", time.Time{}))
}

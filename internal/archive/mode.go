package archive

import (
	"fmt"
	"strings"
)

// Mode selects how the archive matches a multi-word phrase. The modes have
// very different recall/precision characteristics and the choice is never
// adaptive: callers get ModeExactPhrase unless they override it.
type Mode int

const (
	// ModeExactPhrase matches the words as a contiguous phrase in the
	// OCR text. The only mode that returns precise results for phrases
	// of more than one word.
	ModeExactPhrase Mode = iota
	// ModeFulltext matches the words anywhere in the OCR text, in any
	// order. Roughly five times the hit count of ModeExactPhrase, most
	// of it noise for multi-word phrases.
	ModeFulltext
	// ModeFreetext queries the tokenized catalog index. Depending on the
	// archive's tokenization it may return zero hits for multi-word
	// phrases; callers must not rely on it.
	ModeFreetext
)

// ParseMode maps the wire/env spelling onto a Mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "exact_phrase":
		return ModeExactPhrase, nil
	case "fulltext":
		return ModeFulltext, nil
	case "freetext":
		return ModeFreetext, nil
	default:
		return ModeExactPhrase, fmt.Errorf("unknown search mode %q", raw)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeFulltext:
		return "fulltext"
	case ModeFreetext:
		return "freetext"
	default:
		return "exact_phrase"
	}
}

package models

import "time"

// Article is one hit returned by the newspaper-archive search. Publication
// is the newspaper title; Year is derived from the issue date. URN is the
// archive's stable identifier and may be empty for older digitisations.
type Article struct {
	URN         string    `json:"urn"`
	Publication string    `json:"publication"`
	Year        int       `json:"year"`
	Issued      time.Time `json:"issued"`
}

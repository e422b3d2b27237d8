package dto

// RawRecord is one parsed CSV row, keyed by trimmed header name. Source
// schemas vary per ranking provider, so fields are resolved downstream by
// header pattern instead of fixed struct tags.
type RawRecord map[string]string

// SubRanks holds the optional per-topic ranks some sources publish alongside
// the overall rank. A nil field means the source had no such column or the
// cell did not parse as an integer.
type SubRanks struct {
	Education  *int
	Employment *int
	Faculty    *int
	Research   *int
}

// ResolvedRecord is the normalized output of field resolution for one
// accepted row: the columns located by header pattern, parsed and typed.
type ResolvedRecord struct {
	Name     string
	Rank     int
	Score    *float64
	Country  *string
	SubRanks SubRanks
}

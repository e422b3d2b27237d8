package ingest

import (
	"regexp"
	"strconv"

	"github.com/ougirez/rankuni/internal/domain/dto"
	"github.com/shopspring/decimal"
)

// Outcome classifies what happened to a single source record.
type Outcome int

const (
	Accepted Outcome = iota
	SkippedYearMismatch
	SkippedUnparseable
	SkippedWriteConflict
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case SkippedYearMismatch:
		return "skipped_year_mismatch"
	case SkippedUnparseable:
		return "skipped_unparseable"
	case SkippedWriteConflict:
		return "skipped_write_conflict"
	}
	return "unknown"
}

var (
	namePattern  = regexp.MustCompile(`(?i)institution|university|school|name`)
	rankPattern  = regexp.MustCompile(`(?i)rank|world_rank`)
	scorePattern = regexp.MustCompile(`(?i)score|total_score`)
)

// subRankKeys are the fixed source columns some providers publish per-topic
// ranks under.
var subRankKeys = []struct {
	key    string
	assign func(*dto.SubRanks, *int)
}{
	{"quality_of_education", func(s *dto.SubRanks, v *int) { s.Education = v }},
	{"alumni_employment", func(s *dto.SubRanks, v *int) { s.Employment = v }},
	{"quality_of_faculty", func(s *dto.SubRanks, v *int) { s.Faculty = v }},
	{"publications", func(s *dto.SubRanks, v *int) { s.Research = v }},
}

// FieldResolver locates the name/rank/score columns of one header shape.
// Source schemas vary, so columns are found by pattern: the first header
// matching each pattern, in header order, wins.
type FieldResolver struct {
	nameKey  string
	rankKey  string
	scoreKey string
}

func NewFieldResolver(headers []string) *FieldResolver {
	r := &FieldResolver{}

	for _, h := range headers {
		if r.nameKey == "" && namePattern.MatchString(h) {
			r.nameKey = h
		}
		if r.rankKey == "" && rankPattern.MatchString(h) {
			r.rankKey = h
		}
		if r.scoreKey == "" && scorePattern.MatchString(h) {
			r.scoreKey = h
		}
	}

	return r
}

// Resolve applies the year filter and extracts the typed field bundle for one
// record. Records outside filterYear, records with no resolvable name or rank
// column, and records whose rank does not parse as an integer are rejected
// with the corresponding outcome.
func (r *FieldResolver) Resolve(rec dto.RawRecord, filterYear int) (*dto.ResolvedRecord, Outcome) {
	// Some sources ship several years of history in one file; without this
	// check a 2024 run would ingest 2012 rows as 2024 data.
	if yearStr, ok := rec["year"]; ok && yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year != filterYear {
			return nil, SkippedYearMismatch
		}
	}

	if r.nameKey == "" || r.rankKey == "" {
		return nil, SkippedUnparseable
	}

	name := rec[r.nameKey]
	rank, err := strconv.Atoi(rec[r.rankKey])
	if name == "" || err != nil {
		return nil, SkippedUnparseable
	}

	resolved := &dto.ResolvedRecord{
		Name: name,
		Rank: rank,
	}

	if r.scoreKey != "" && rec[r.scoreKey] != "" {
		if d, err := decimal.NewFromString(rec[r.scoreKey]); err == nil {
			score := d.InexactFloat64()
			resolved.Score = &score
		}
	}

	if country := rec["country"]; country != "" {
		resolved.Country = &country
	}

	for _, sub := range subRankKeys {
		if raw := rec[sub.key]; raw != "" {
			if val, err := strconv.Atoi(raw); err == nil {
				sub.assign(&resolved.SubRanks, &val)
			}
		}
	}

	return resolved, Accepted
}

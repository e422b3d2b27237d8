package domain

import "time"

type Year = int

// MetricCategoryRankings is the category every ranking-derived metric row is
// written under; other importers use their own categories.
const MetricCategoryRankings = "Rankings"

// School is one canonical institution row. The ingestion pipeline only ever
// reads schools; rows are created and maintained by the per-country importers.
type School struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Country string `db:"country"`
}

// RankingEntry is one accepted row of a ranking source for a given
// (source, year) batch. Name and country are kept verbatim from the source
// file for display; SchoolID is nil when the name could not be matched
// against the school registry.
type RankingEntry struct {
	ID                string    `db:"id"`
	Name              string    `db:"name"`
	Country           *string   `db:"country"`
	Rank              int       `db:"rank"`
	Score             *float64  `db:"score"`
	Year              Year      `db:"year"`
	Source            string    `db:"source"`
	SchoolID          *string   `db:"school_id"`
	EducationRank     *int      `db:"education_rank"`
	EmployabilityRank *int      `db:"employability_rank"`
	FacultyRank       *int      `db:"faculty_rank"`
	ResearchRank      *int      `db:"research_rank"`
	CreatedAt         time.Time `db:"created_at"`
}

// Metric is a generic per-school fact row, shared with the other importers.
// Ranking ingestion mirrors matched entries here under the "Rankings" category.
type Metric struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	Category  string    `db:"category"`
	Name      string    `db:"name"`
	Value     float64   `db:"value"`
	Year      Year      `db:"year"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}

type StoreCounts struct {
	Schools        int64 `db:"schools"`
	Metrics        int64 `db:"metrics"`
	RankingEntries int64 `db:"ranking_entries"`
}

type CountrySchoolCount struct {
	Country string `db:"country"`
	Count   int64  `db:"count"`
}

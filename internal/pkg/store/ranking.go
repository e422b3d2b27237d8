package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/ougirez/rankuni/internal/domain"
	"github.com/ougirez/rankuni/internal/pkg/store/xpgx"
)

var rankingEntryColumns = []string{
	"id", "name", "country", "rank", "score", "year", "source", "school_id",
	"education_rank", "employability_rank", "faculty_rank", "research_rank",
}

func (s *store) DeleteRankingEntries(ctx context.Context, source string, year domain.Year) (int64, error) {
	query := builder().Delete(tableRankingEntries).
		Where(sq.And{
			sq.Eq{"source": source},
			sq.Eq{"year": year},
		})

	tag, err := xpgx.Execx(ctx, s.pool, query)
	if err != nil {
		return 0, fmt.Errorf("delete ranking_entries: %w", wrapErr(err))
	}

	return tag.RowsAffected(), nil
}

func (s *store) InsertRankingEntry(ctx context.Context, entry *domain.RankingEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := builder().Insert(tableRankingEntries).
		Columns(rankingEntryColumns...).
		Values(
			entry.ID, entry.Name, entry.Country, entry.Rank, entry.Score,
			entry.Year, entry.Source, entry.SchoolID,
			entry.EducationRank, entry.EmployabilityRank, entry.FacultyRank, entry.ResearchRank,
		)

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		return fmt.Errorf("insert ranking_entry: %w", wrapErr(err))
	}

	return nil
}

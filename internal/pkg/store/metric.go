package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/ougirez/rankuni/internal/domain"
	"github.com/ougirez/rankuni/internal/pkg/store/xpgx"
)

var metricColumns = []string{"id", "school_id", "category", "name", "value", "year", "source"}

// DeleteMetrics is scoped to the rankings category so batch replacement never
// touches metrics written by the other importers.
func (s *store) DeleteMetrics(ctx context.Context, source string, year domain.Year) (int64, error) {
	query := builder().Delete(tableMetrics).
		Where(sq.And{
			sq.Eq{"source": source},
			sq.Eq{"year": year},
			sq.Eq{"category": domain.MetricCategoryRankings},
		})

	tag, err := xpgx.Execx(ctx, s.pool, query)
	if err != nil {
		return 0, fmt.Errorf("delete metrics: %w", wrapErr(err))
	}

	return tag.RowsAffected(), nil
}

func (s *store) InsertMetric(ctx context.Context, metric *domain.Metric) error {
	if metric.ID == "" {
		metric.ID = uuid.NewString()
	}

	query := builder().Insert(tableMetrics).
		Columns(metricColumns...).
		Values(
			metric.ID, metric.SchoolID, metric.Category, metric.Name,
			metric.Value, metric.Year, metric.Source,
		)

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		return fmt.Errorf("insert metric: %w", wrapErr(err))
	}

	return nil
}

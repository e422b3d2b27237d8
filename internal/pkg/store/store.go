package store

import (
	"context"

	"github.com/ougirez/rankuni/internal/domain"
	"github.com/ougirez/rankuni/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	// ListSchools returns the full school registry snapshot (id, name, country).
	ListSchools(ctx context.Context) ([]*domain.School, error)

	// DeleteRankingEntries removes every entry of a (source, year) batch and
	// returns the number of rows removed.
	DeleteRankingEntries(ctx context.Context, source string, year domain.Year) (int64, error)
	InsertRankingEntry(ctx context.Context, entry *domain.RankingEntry) error

	// DeleteMetrics removes every ranking-category metric of a (source, year)
	// batch and returns the number of rows removed.
	DeleteMetrics(ctx context.Context, source string, year domain.Year) (int64, error)
	InsertMetric(ctx context.Context, metric *domain.Metric) error

	Counts(ctx context.Context) (*domain.StoreCounts, error)
	CountSchoolsByCountry(ctx context.Context) ([]*domain.CountrySchoolCount, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}

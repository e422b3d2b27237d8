package store

import (
	"context"
	"fmt"

	"github.com/ougirez/rankuni/internal/domain"
	"github.com/ougirez/rankuni/internal/pkg/store/xpgx"
)

func (s *store) Counts(ctx context.Context) (*domain.StoreCounts, error) {
	query := builder().Select(
		fmt.Sprintf("(select count(*) from %s) as schools", tableSchools),
		fmt.Sprintf("(select count(*) from %s) as metrics", tableMetrics),
		fmt.Sprintf("(select count(*) from %s) as ranking_entries", tableRankingEntries),
	)

	counts, err := xpgx.Getx[domain.StoreCounts](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", wrapErr(err))
	}

	return counts, nil
}

package store

import (
	"context"

	"github.com/ougirez/rankuni/internal/domain"
	"github.com/ougirez/rankuni/internal/pkg/logger"
	"github.com/ougirez/rankuni/internal/pkg/store/xpgx"
)

var schoolColumns = []string{"id", "name", "country"}

func (s *store) ListSchools(ctx context.Context) ([]*domain.School, error) {
	query := builder().Select(schoolColumns...).
		From(tableSchools)

	selected, err := xpgx.Selectx[domain.School](ctx, s.pool, query)
	if err != nil {
		logger.Errorf(ctx, "ListSchools: %s", err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CountSchoolsByCountry(ctx context.Context) ([]*domain.CountrySchoolCount, error) {
	query := builder().Select("country", "count(*) as count").
		From(tableSchools).
		GroupBy("country").
		OrderBy("count desc")

	selected, err := xpgx.Selectx[domain.CountrySchoolCount](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

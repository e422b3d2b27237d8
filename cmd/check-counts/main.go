// check-counts prints quick table totals so an operator can sanity-check the
// store after an ingestion run.
package main

import (
	"context"
	"fmt"

	"github.com/ougirez/rankuni/internal/pkg/config"
	"github.com/ougirez/rankuni/internal/pkg/constants"
	"github.com/ougirez/rankuni/internal/pkg/logger"
	"github.com/ougirez/rankuni/internal/pkg/store"
	"github.com/ougirez/rankuni/internal/pkg/store/xpgx"
	"github.com/spf13/viper"
)

func main() {
	ctx := context.Background()

	config.Init()

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperKeyDatabaseDSN))
	if err != nil {
		logger.Fatalf(ctx, "xpgx.NewPool: %s", err.Error())
	}
	defer pool.Close()

	st := store.NewStore(pool)

	counts, err := st.Counts(ctx)
	if err != nil {
		logger.Fatalf(ctx, "store.Counts: %s", err.Error())
	}

	byCountry, err := st.CountSchoolsByCountry(ctx)
	if err != nil {
		logger.Fatalf(ctx, "store.CountSchoolsByCountry: %s", err.Error())
	}

	for _, c := range byCountry {
		fmt.Printf("%s Schools: %d\n", c.Country, c.Count)
	}
	fmt.Printf("Schools total: %d\n", counts.Schools)
	fmt.Printf("Metrics: %d\n", counts.Metrics)
	fmt.Printf("Rankings: %d\n", counts.RankingEntries)
}

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ougirez/rankuni/internal/pkg/config"
	"github.com/ougirez/rankuni/internal/pkg/constants"
	"github.com/ougirez/rankuni/internal/pkg/logger"
	"github.com/ougirez/rankuni/internal/pkg/store"
	"github.com/ougirez/rankuni/internal/pkg/store/xpgx"
	"github.com/ougirez/rankuni/internal/service/ingest"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: ingest-rankings <filepath> <sourceName> <year> [csvYear]")
	fmt.Fprintln(os.Stderr, `Example: ingest-rankings ./cwurData.csv "CWUR" 2024`)
	os.Exit(1)
}

func main() {
	ctx := context.Background()

	args := os.Args[1:]
	if len(args) < 3 {
		usage()
	}

	filePath, source := args[0], args[1]

	year, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid year: %s\n", args[2])
		usage()
	}

	filterYear := year
	if len(args) > 3 {
		filterYear, err = strconv.Atoi(args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid csvYear: %s\n", args[3])
			usage()
		}
	}

	if _, err := os.Stat(filePath); err != nil {
		fmt.Fprintf(os.Stderr, "File not found: %s\n", filePath)
		os.Exit(1)
	}

	config.Init()

	if l, err := zap.NewDevelopment(); err == nil {
		logger.SetLogger(l)
	}

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperKeyDatabaseDSN))
	if err != nil {
		logger.Fatalf(ctx, "xpgx.NewPool: %s", err.Error())
	}
	defer pool.Close()

	svc := ingest.NewService(store.NewStore(pool))

	report, err := svc.Run(ctx, ingest.RunOptions{
		FilePath:          filePath,
		Source:            source,
		Year:              year,
		FilterYear:        filterYear,
		MetricWriteMode:   ingest.MetricWriteMode(viper.GetString(constants.ViperKeyMetricWriteMode)),
		LowMatchThreshold: viper.GetInt(constants.ViperKeyLowMatchThreshold),
	})
	if err != nil {
		logger.Fatalf(ctx, "ingest run: %s", err.Error())
	}

	if reportPath := viper.GetString(constants.ViperKeyReportPath); reportPath != "" {
		if err := ingest.WriteReport(reportPath, report); err != nil {
			logger.Errorf(ctx, "WriteReport: %s", err.Error())
		}
	}
}

package constants

import "errors"

// viper keys
const (
	ViperKeyDatabaseDSN       = "database.dsn"
	ViperKeyMetricWriteMode   = "ingest.metric_write_mode"
	ViperKeyReportPath        = "ingest.report_path"
	ViperKeyLowMatchThreshold = "ingest.low_match_threshold"
)

// DefaultLowMatchThreshold is the matched-row count below which a completed
// run is reported as degraded.
const DefaultLowMatchThreshold = 200

var (
	ErrDBNotFound = errors.New("not found in db")
)

package config

import (
	"strings"

	"github.com/ougirez/rankuni/internal/pkg/constants"
	"github.com/spf13/viper"
)

// Init wires viper: defaults, RANKUNI_* env vars and an optional config.yaml
// next to the binary. Env key database.dsn becomes RANKUNI_DATABASE_DSN.
func Init() {
	viper.SetDefault(constants.ViperKeyMetricWriteMode, "accumulate")
	viper.SetDefault(constants.ViperKeyLowMatchThreshold, constants.DefaultLowMatchThreshold)

	viper.SetEnvPrefix("RANKUNI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// config file is optional, env is enough
	_ = viper.ReadInConfig()
}

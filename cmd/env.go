package cmd

import (
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every flag name to form its environment
// variable, e.g. INCGRAPH_LOG_LEVEL for --log-level.
const EnvPrefix = "INCGRAPH"

// applyEnv layers environment variables under the command-line flags. A flag
// set explicitly always wins over the environment.
func applyEnv(flags *pflag.FlagSet, config *models.Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	config.OutputFile = v.GetString("output")
	config.OutputFormat = v.GetString("format")
	config.Workers = v.GetInt("workers")
	config.FailOnWarnings = v.GetBool("fail-on-warnings")
	config.NoCache = v.GetBool("no-cache")
	config.ClearCache = v.GetBool("clear-cache")
	config.CacheDir = v.GetString("cache-dir")
	config.CacheTTL = v.GetDuration("cache-ttl")
	config.LogLevel = v.GetString("log-level")
	config.LogFormat = v.GetString("log-format")
	return nil
}

package orrery

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration shared by the orrery services.
type Config struct {
	ListenAddr        string
	NASAAPIKey        string
	DataDir           string
	FeedURL           string
	RequestsPerSecond float64
	TrajectorySamples int
}

// LoadConfig reads conf.toml from the directory named by the ORRERY_CONFIG
// environment variable, falling back to defaults and ORRERY_* environment
// overrides when no file is present. A present-but-broken config file is an
// error rather than a silent fallback.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("server.listen", ":8000")
	v.SetDefault("nasa.api_key", "DEMO_KEY")
	v.SetDefault("nasa.feed_url", DefaultNeoWsURL)
	v.SetDefault("nasa.requests_per_second", 1.0)
	v.SetDefault("general.data_dir", "data")
	v.SetDefault("general.trajectory_samples", DefaultTrajectorySamples)
	v.SetEnvPrefix("ORRERY")
	// Dotted keys map to underscored variables, e.g. nasa.api_key is
	// overridden by ORRERY_NASA_API_KEY.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if confPath := os.Getenv("ORRERY_CONFIG"); confPath != "" {
		v.SetConfigName("conf")
		v.AddConfigPath(confPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s/conf.toml: %w", confPath, err)
		}
	}

	cfg := Config{
		ListenAddr:        v.GetString("server.listen"),
		NASAAPIKey:        v.GetString("nasa.api_key"),
		DataDir:           v.GetString("general.data_dir"),
		FeedURL:           v.GetString("nasa.feed_url"),
		RequestsPerSecond: v.GetFloat64("nasa.requests_per_second"),
		TrajectorySamples: v.GetInt("general.trajectory_samples"),
	}
	if cfg.TrajectorySamples <= 0 {
		return Config{}, fmt.Errorf("trajectory_samples must be positive, got %d", cfg.TrajectorySamples)
	}
	return cfg, nil
}

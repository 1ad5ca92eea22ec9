package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the sync core.
type Config struct {
	AppName           string
	AppEnv            string
	SeedEmail         string
	SeedPassword      string
	LatencyMin        time.Duration
	LatencyMax        time.Duration
	RedisURL          string
	AnalyticsCacheTTL time.Duration
	FetchTimeout      time.Duration
}

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKOLA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "skolasync")
	v.SetDefault("app.env", "development")
	v.SetDefault("seed.email", "test@example.com")
	v.SetDefault("seed.password", "password123")
	v.SetDefault("latency.min", "300ms")
	v.SetDefault("latency.max", "500ms")
	v.SetDefault("analytics.cache_ttl", "5m")
	v.SetDefault("fetch.timeout", "10s")

	latencyMin, err := time.ParseDuration(v.GetString("latency.min"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid minimum latency: %w", err)
	}

	latencyMax, err := time.ParseDuration(v.GetString("latency.max"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid maximum latency: %w", err)
	}

	if latencyMax < latencyMin {
		return Config{}, fmt.Errorf("maximum latency %s is below minimum %s", latencyMax, latencyMin)
	}

	ttl, err := time.ParseDuration(v.GetString("analytics.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid analytics cache ttl: %w", err)
	}

	fetchTimeout, err := time.ParseDuration(v.GetString("fetch.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid fetch timeout: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		SeedEmail:         v.GetString("seed.email"),
		SeedPassword:      v.GetString("seed.password"),
		LatencyMin:        latencyMin,
		LatencyMax:        latencyMax,
		RedisURL:          v.GetString("redis.url"),
		AnalyticsCacheTTL: ttl,
		FetchTimeout:      fetchTimeout,
	}

	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return Config{}, fmt.Errorf("seed credentials must be provided")
	}

	return cfg, nil
}

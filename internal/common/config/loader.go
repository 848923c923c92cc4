// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml plus an optional config.<env>.yaml overlay,
// with environment variables overriding both.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // overlay is optional

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "construction-engine"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Remote.Model == "" {
		cfg.Remote.Model = "gemini-2.0-flash"
	}
	if cfg.Remote.ProviderCap == 0 {
		cfg.Remote.ProviderCap = 10
	}
	if cfg.Remote.Timeout == 0 {
		cfg.Remote.Timeout = 15000
	}
	if cfg.Predictor.Timeout == 0 {
		cfg.Predictor.Timeout = 5000
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 4096
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "providers"
	}

	applyEngineDefaults(&cfg.Engine)
}

// DefaultEngineConfig returns the calibrated market tables. Residential
// rates double as the unknown-type default.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RequestWeights: RequestWeights{
			Tech: 0.30, Budget: 0.25, Location: 0.15, Size: 0.15, Timeline: 0.15,
		},
		ComparisonWeights: ComparisonWeights{
			Tech: 0.30, Budget: 0.25, Location: 0.20, TypeExperience: 0.15, MinTimeline: 0.10,
		},
		BaseRates: map[string]Rate{
			"Residential": {CostPerSqm: 4500, MonthsPer1000Sqm: 3},
			"Commercial":  {CostPerSqm: 6000, MonthsPer1000Sqm: 4},
			"Industrial":  {CostPerSqm: 3500, MonthsPer1000Sqm: 2.5},
			"Mixed-Use":   {CostPerSqm: 5200, MonthsPer1000Sqm: 3.5},
		},
		ComplexityMultipliers: map[string]Multiplier{
			"low":    {Cost: 0.9, Time: 0.9},
			"medium": {Cost: 1.0, Time: 1.0},
			"high":   {Cost: 1.3, Time: 1.4},
		},
		LocationMultipliers: map[string]float64{
			"Riyadh": 1.0,
			"Jeddah": 1.1,
			"Dammam": 1.05,
			"Mecca":  1.15,
			"Medina": 1.12,
		},
	}
}

// applyEngineDefaults fills the calibrated tables anywhere the config file
// left them out.
func applyEngineDefaults(e *EngineConfig) {
	defaults := DefaultEngineConfig()
	zero := RequestWeights{}
	if e.RequestWeights == zero {
		e.RequestWeights = defaults.RequestWeights
	}
	zeroCmp := ComparisonWeights{}
	if e.ComparisonWeights == zeroCmp {
		e.ComparisonWeights = defaults.ComparisonWeights
	}
	if len(e.BaseRates) == 0 {
		e.BaseRates = defaults.BaseRates
	}
	if len(e.ComplexityMultipliers) == 0 {
		e.ComplexityMultipliers = defaults.ComplexityMultipliers
	}
	if len(e.LocationMultipliers) == 0 {
		e.LocationMultipliers = defaults.LocationMultipliers
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be memory or redis, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("cache.backend is redis but database.redis.address is empty")
	}
	w := cfg.Engine.RequestWeights
	if w.Tech < 0 || w.Budget < 0 || w.Location < 0 || w.Size < 0 || w.Timeline < 0 {
		return fmt.Errorf("engine.request_weights must be non-negative")
	}
	return nil
}

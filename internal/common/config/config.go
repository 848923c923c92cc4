// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Camunda   CamundaConfig   `mapstructure:"camunda"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RequestWeights is the weighting used when ranking providers for a request.
type RequestWeights struct {
	Tech     float64 `mapstructure:"tech"`
	Budget   float64 `mapstructure:"budget"`
	Location float64 `mapstructure:"location"`
	Size     float64 `mapstructure:"size"`
	Timeline float64 `mapstructure:"timeline"`
}

// ComparisonWeights is the weighting used for ad-hoc comparison scoring.
// Kept separate from RequestWeights on purpose; downstream views assume
// these exact percentages.
type ComparisonWeights struct {
	Tech           float64 `mapstructure:"tech"`
	Budget         float64 `mapstructure:"budget"`
	Location       float64 `mapstructure:"location"`
	TypeExperience float64 `mapstructure:"type_experience"`
	MinTimeline    float64 `mapstructure:"min_timeline"`
}

// Rate is a per-type base rate pair for the deterministic estimator.
type Rate struct {
	CostPerSqm       float64 `mapstructure:"cost_per_sqm"`
	MonthsPer1000Sqm float64 `mapstructure:"months_per_1000_sqm"`
}

// Multiplier is a (cost, time) multiplier pair.
type Multiplier struct {
	Cost float64 `mapstructure:"cost"`
	Time float64 `mapstructure:"time"`
}

// EngineConfig holds every tunable rate table and weight constant so the
// market calibration can change without code changes.
type EngineConfig struct {
	RequestWeights        RequestWeights        `mapstructure:"request_weights"`
	ComparisonWeights     ComparisonWeights     `mapstructure:"comparison_weights"`
	BaseRates             map[string]Rate       `mapstructure:"base_rates"`
	ComplexityMultipliers map[string]Multiplier `mapstructure:"complexity_multipliers"`
	LocationMultipliers   map[string]float64    `mapstructure:"location_multipliers"`
}

// RemoteConfig configures the text-completion ranking path.
type RemoteConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Model       string `mapstructure:"model"`
	APIKey      string `mapstructure:"api_key"`
	ProviderCap int    `mapstructure:"provider_cap"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
}

// PredictorConfig configures the cost prediction microservice client.
type PredictorConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// CacheConfig selects the ranking cache backend.
type CacheConfig struct {
	Backend  string `mapstructure:"backend"` // "memory" or "redis"
	Capacity int    `mapstructure:"capacity"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

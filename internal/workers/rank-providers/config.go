// internal/workers/rank-providers/config.go
package rankproviders

import "time"

type Config struct {
	DefaultCount int
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultCount: 5,
		Timeout:      30 * time.Second,
	}
}

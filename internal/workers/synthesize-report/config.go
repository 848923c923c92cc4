// internal/workers/synthesize-report/config.go
package synthesizereport

import "time"

type Config struct {
	DefaultTopN int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultTopN: 3,
		Timeout:     60 * time.Second,
	}
}

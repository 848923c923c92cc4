// internal/workers/search-providers/config.go
package searchproviders

import "time"

type Config struct {
	DefaultSize int
	Timeout     time.Duration
}

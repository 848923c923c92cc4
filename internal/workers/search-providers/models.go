// internal/workers/search-providers/models.go
package searchproviders

import "construction-engine/internal/models"

type Input struct {
	Query string `json:"query"`
	Size  int    `json:"size,omitempty"`
}

type Output struct {
	Providers []models.Provider `json:"providers"`
	Count     int               `json:"providerCount"`
}

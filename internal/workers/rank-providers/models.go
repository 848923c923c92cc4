// internal/workers/rank-providers/models.go
package rankproviders

import "construction-engine/internal/models"

type Input struct {
	Project   models.Project    `json:"project"`
	Providers []models.Provider `json:"providers"`
	Count     int               `json:"count"`
}

type Output struct {
	Providers []models.ScoredProvider `json:"rankedProviders"`
	Source    string                  `json:"rankingSource"`
	Degraded  bool                    `json:"degraded"`
}

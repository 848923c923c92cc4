// internal/workers/synthesize-report/models.go
package synthesizereport

import "construction-engine/internal/models"

type Input struct {
	Project   models.Project    `json:"project"`
	Providers []models.Provider `json:"providers"`
	TopN      int               `json:"topN"`
}

type Output struct {
	Report *models.Report `json:"report"`
}

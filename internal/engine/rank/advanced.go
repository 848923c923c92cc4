// internal/engine/rank/advanced.go
package rank

import (
	"sort"
	"strings"

	"construction-engine/internal/engine/scoring"
	"construction-engine/internal/models"
)

// Advanced scoring weights, used by the report synthesizer when picking the
// providers to analyze in depth. This calibration favors market presence and
// breadth over schedule fit.
const (
	advWeightTech       = 0.30
	advWeightBudget     = 0.20
	advWeightLocation   = 0.15
	advWeightExperience = 0.15
	advWeightSaudi      = 0.10
	advWeightInnovation = 0.10

	advSaudiMiss      = 0.3
	advInnovationHigh = 0.8
	advInnovationLow  = 0.4
	// Providers offering more than this many technologies count as
	// innovation-oriented.
	advInnovationBreadth = 2
)

// ScoreAdvanced computes the analysis-path suitability score for a provider.
func (r *Ranker) ScoreAdvanced(provider *models.Provider, project *models.Project) float64 {
	tech := scoring.TechMatch(provider.Technologies, project.TechNeeds, scoring.TechNeutralAdvanced)
	budget := scoring.BudgetFit(project.Budget, provider.EstimatedCost(project.SizeSqm), scoring.BudgetStairsAdvanced, scoring.BudgetStairsAdvancedFloor)
	location := scoring.LocationAffinity(provider.Location, project.Location, scoring.LocationAdvanced)
	experience := scoring.ExperienceFit(provider.PastProjects)

	saudi := advSaudiMiss
	if strings.Contains(strings.ToLower(provider.Location), "saudi") {
		saudi = 1.0
	}

	innovation := advInnovationLow
	if len(provider.Technologies) > advInnovationBreadth {
		innovation = advInnovationHigh
	}

	score := tech*advWeightTech +
		budget*advWeightBudget +
		location*advWeightLocation +
		experience*advWeightExperience +
		saudi*advWeightSaudi +
		innovation*advWeightInnovation

	return scoring.Clamp01(score)
}

// TopAdvanced returns the n best providers by advanced score, stable order.
func (r *Ranker) TopAdvanced(project *models.Project, providers []models.Provider, n int) []models.ScoredProvider {
	scored := make([]models.ScoredProvider, 0, len(providers))
	for i := range providers {
		scored = append(scored, models.ScoredProvider{
			Provider:   providers[i],
			FinalScore: r.ScoreAdvanced(&providers[i], project),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})

	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

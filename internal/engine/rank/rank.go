// internal/engine/rank/rank.go

// Package rank implements the local, deterministic provider ranking. Two
// weighting variants exist for the same concept and are kept separate on
// purpose; downstream views quote the exact percentages of each.
package rank

import (
	"sort"

	"construction-engine/internal/engine/scoring"
	"construction-engine/internal/models"
)

// RequestWeights drives Rank, the per-request ranking.
type RequestWeights struct {
	Tech     float64
	Budget   float64
	Location float64
	Size     float64
	Timeline float64
}

// ComparisonWeights drives ScoreComparison, the ad-hoc comparison score.
type ComparisonWeights struct {
	Tech           float64
	Budget         float64
	Location       float64
	TypeExperience float64
	MinTimeline    float64
}

var (
	DefaultRequestWeights = RequestWeights{
		Tech: 0.30, Budget: 0.25, Location: 0.15, Size: 0.15, Timeline: 0.15,
	}
	DefaultComparisonWeights = ComparisonWeights{
		Tech: 0.30, Budget: 0.25, Location: 0.20, TypeExperience: 0.15, MinTimeline: 0.10,
	}
)

// Scores a provider's project type experience and timeline headroom in the
// comparison variant.
const (
	typeExperienceMiss = 0.5
	minTimelineMiss    = 0.3
)

type Ranker struct {
	request    RequestWeights
	comparison ComparisonWeights
}

func New(request RequestWeights, comparison ComparisonWeights) *Ranker {
	return &Ranker{request: request, comparison: comparison}
}

func NewDefault() *Ranker {
	return New(DefaultRequestWeights, DefaultComparisonWeights)
}

// Rank scores every provider with the request-ranking weights and returns
// them ordered by finalScore descending. The sort is stable: ties keep the
// catalog input order, so identical input always yields identical output.
func (r *Ranker) Rank(project *models.Project, providers []models.Provider) []models.ScoredProvider {
	ranked := make([]models.ScoredProvider, 0, len(providers))
	for i := range providers {
		ranked = append(ranked, r.scoreForRequest(project, &providers[i]))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	return ranked
}

func (r *Ranker) scoreForRequest(project *models.Project, provider *models.Provider) models.ScoredProvider {
	sub := subScores{
		Tech:     scoring.TechMatch(provider.Technologies, project.TechNeeds, scoring.TechNeutralBasic),
		Budget:   scoring.BudgetFit(project.Budget, provider.EstimatedCost(project.SizeSqm), scoring.BudgetStairsBasic, scoring.BudgetStairsBasicFloor),
		Location: scoring.LocationAffinity(provider.Location, project.Location, scoring.LocationBasic),
		Size:     scoring.SizeFit(provider, project),
		Timeline: scoring.TimelineFit(provider, project),
	}

	final := sub.Tech*r.request.Tech +
		sub.Budget*r.request.Budget +
		sub.Location*r.request.Location +
		sub.Size*r.request.Size +
		sub.Timeline*r.request.Timeline

	return models.ScoredProvider{
		Provider:   *provider,
		FinalScore: scoring.Clamp01(final),
		Rationale:  buildRationale(sub),
	}
}

// ScoreComparison is the single-provider score used by comparison tables.
func (r *Ranker) ScoreComparison(provider *models.Provider, project *models.Project) float64 {
	if project == nil {
		return 0.5
	}

	tech := scoring.TechMatch(provider.Technologies, project.TechNeeds, scoring.TechNeutralBasic)
	budget := scoring.BudgetFit(project.Budget, provider.EstimatedCost(project.SizeSqm), scoring.BudgetStairsBasic, scoring.BudgetStairsBasicFloor)
	location := scoring.LocationAffinity(provider.Location, project.Location, scoring.LocationDirect)

	typeExperience := typeExperienceMiss
	if provider.HandlesType(project.Type) {
		typeExperience = 1.0
	}

	timeline := minTimelineMiss
	if project.TimelineMonths >= provider.MinTimeline() {
		timeline = 1.0
	}

	score := tech*r.comparison.Tech +
		budget*r.comparison.Budget +
		location*r.comparison.Location +
		typeExperience*r.comparison.TypeExperience +
		timeline*r.comparison.MinTimeline

	return scoring.Clamp01(score)
}

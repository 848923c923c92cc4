// internal/engine/scoring/policy.go
package scoring

// The two calibration variants below disagree slightly on purpose: the
// request-ranking path and the comparison/analysis path were tuned against
// different downstream views and both behaviors must stay reproducible.
// Every threshold is a named constant here, never a literal at a call site.

// Neutral tech-match defaults when the project lists no tech needs.
const (
	TechNeutralBasic    = 0.5
	TechNeutralAdvanced = 0.6
)

// BudgetBreak maps a budget/estimated-cost ratio floor to a score.
type BudgetBreak struct {
	MinRatio float64
	Score    float64
}

// Staircases are evaluated top-down; the first breakpoint whose MinRatio is
// satisfied wins. Entries must be sorted by MinRatio descending.
var (
	BudgetStairsBasic = []BudgetBreak{
		{MinRatio: 1.2, Score: 1.0},
		{MinRatio: 0.9, Score: 0.8},
		{MinRatio: 0.7, Score: 0.5},
	}
	BudgetStairsBasicFloor = 0.2

	BudgetStairsAdvanced = []BudgetBreak{
		{MinRatio: 1.3, Score: 1.0},
		{MinRatio: 1.1, Score: 0.9},
		{MinRatio: 0.9, Score: 0.7},
		{MinRatio: 0.7, Score: 0.4},
	}
	BudgetStairsAdvancedFloor = 0.1
)

// LocationPolicy tunes the affinity fallbacks below a direct substring match.
// A zero RegionScore disables the region lookup; a zero SaudiFallback
// disables the country-level fallback.
type LocationPolicy struct {
	RegionScore   float64
	SaudiFallback float64
	Default       float64
}

var (
	// LocationBasic is used by the request-ranking path.
	LocationBasic = LocationPolicy{RegionScore: 0.8, Default: 0.5}
	// LocationAdvanced adds the country-level fallback used by analysis.
	LocationAdvanced = LocationPolicy{RegionScore: 0.8, SaudiFallback: 0.6, Default: 0.3}
	// LocationDirect is the comparison-scoring variant: substring or nothing.
	LocationDirect = LocationPolicy{Default: 0.3}
)

// regions maps a region key to the city/area names that resolve to it.
var regions = map[string][]string{
	"riyadh": {"riyadh", "central"},
	"jeddah": {"jeddah", "makkah", "western"},
	"dammam": {"dammam", "eastern", "khobar", "dhahran"},
}

// DeviationPolicy scores a relative deviation against two thresholds.
type DeviationPolicy struct {
	Tight      float64
	Loose      float64
	TightScore float64
	LooseScore float64
	FarScore   float64
}

var (
	SizeFitPolicy     = DeviationPolicy{Tight: 0.3, Loose: 0.6, TightScore: 1.0, LooseScore: 0.7, FarScore: 0.3}
	TimelineFitPolicy = DeviationPolicy{Tight: 0.2, Loose: 0.4, TightScore: 1.0, LooseScore: 0.7, FarScore: 0.3}
)

// ExperienceSaturation is the past-project count at which experience maxes out.
const ExperienceSaturation = 50

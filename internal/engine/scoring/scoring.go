// internal/engine/scoring/scoring.go

// Package scoring holds the pure sub-score functions combined by the
// rankers. Every function returns a value in [0,1] for any input, including
// degenerate ones (empty tech needs, zero estimated cost).
package scoring

import (
	"strings"

	"construction-engine/internal/models"
)

// TechMatch is recall against the project's needs: intersection size over
// len(needs), case-insensitive. A provider offering many irrelevant
// technologies is not penalized. With no needs it returns neutralDefault.
func TechMatch(providerTech, projectNeeds []string, neutralDefault float64) float64 {
	if len(projectNeeds) == 0 {
		return neutralDefault
	}

	offered := make(map[string]bool, len(providerTech))
	for _, t := range providerTech {
		offered[strings.ToLower(t)] = true
	}

	matches := 0
	for _, need := range projectNeeds {
		if offered[strings.ToLower(need)] {
			matches++
		}
	}

	return float64(matches) / float64(len(projectNeeds))
}

// BudgetFit maps budget/estimatedCost onto a staircase. A zero or negative
// estimated cost counts as very low fit, not an error.
func BudgetFit(budget, estimatedCost float64, stairs []BudgetBreak, floor float64) float64 {
	if estimatedCost <= 0 {
		return floor
	}
	ratio := budget / estimatedCost
	for _, b := range stairs {
		if ratio >= b.MinRatio {
			return b.Score
		}
	}
	return floor
}

// LocationAffinity scores provider vs project location: substring match in
// either direction wins outright, then the policy fallbacks apply.
func LocationAffinity(providerLocation, projectLocation string, pol LocationPolicy) float64 {
	prov := strings.ToLower(providerLocation)
	proj := strings.ToLower(projectLocation)

	if prov != "" && proj != "" &&
		(strings.Contains(prov, proj) || strings.Contains(proj, prov)) {
		return 1.0
	}

	if pol.RegionScore > 0 && sameRegion(prov, proj) {
		return pol.RegionScore
	}

	if pol.SaudiFallback > 0 && strings.Contains(prov, "saudi") {
		return pol.SaudiFallback
	}

	return pol.Default
}

func sameRegion(prov, proj string) bool {
	for _, cities := range regions {
		if containsAny(proj, cities) && containsAny(prov, cities) {
			return true
		}
	}
	return false
}

func containsAny(loc string, cities []string) bool {
	for _, c := range cities {
		if strings.Contains(loc, c) {
			return true
		}
	}
	return false
}

// ExperienceFit saturates at ExperienceSaturation past projects.
func ExperienceFit(pastProjects int) float64 {
	if pastProjects <= 0 {
		return 0
	}
	fit := float64(pastProjects) / float64(ExperienceSaturation)
	if fit > 1 {
		return 1
	}
	return fit
}

// SizeFit scores the relative deviation between the provider's typical
// project size and the project size.
func SizeFit(provider *models.Provider, project *models.Project) float64 {
	return deviationScore(provider.TypicalSize(), project.SizeSqm, SizeFitPolicy)
}

// TimelineFit scores the relative deviation between the provider's typical
// timeline and the project timeline.
func TimelineFit(provider *models.Provider, project *models.Project) float64 {
	return deviationScore(provider.TypicalTimeline(), project.TimelineMonths, TimelineFitPolicy)
}

func deviationScore(typical, actual float64, pol DeviationPolicy) float64 {
	if typical <= 0 {
		return pol.FarScore
	}
	diff := typical - actual
	if diff < 0 {
		diff = -diff
	}
	ratio := diff / typical
	switch {
	case ratio <= pol.Tight:
		return pol.TightScore
	case ratio <= pol.Loose:
		return pol.LooseScore
	default:
		return pol.FarScore
	}
}

// Clamp01 bounds a composite score into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

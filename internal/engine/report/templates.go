// internal/engine/report/templates.go
package report

import (
	"fmt"
	"strings"

	"construction-engine/internal/models"
)

// Static fallback content, parameterized by project type and city. When the
// remote analysis fails, the report is assembled from these tables plus the
// locally computed estimate and ranking.

var marketIntelligenceByCity = map[string]models.MarketIntelligence{
	"riyadh": {
		GrowthRate: "8.5% annually",
		KeyDrivers: []string{"Vision 2030 giga-projects", "Government infrastructure spending", "Population growth"},
		Challenges: []string{"Skilled labor shortage", "Material cost volatility"},
		Opportunities: []string{
			"Modular construction adoption",
			"Green building certification demand",
		},
	},
	"jeddah": {
		GrowthRate: "7% annually",
		KeyDrivers: []string{"Red Sea tourism corridor", "Port and logistics expansion", "Urban regeneration programs"},
		Challenges: []string{"Coastal humidity and corrosion", "Legacy infrastructure constraints"},
		Opportunities: []string{
			"Hospitality construction demand",
			"Waterfront development projects",
		},
	},
	"dammam": {
		GrowthRate: "6% annually",
		KeyDrivers: []string{"Industrial diversification", "Energy sector investment", "Eastern province logistics"},
		Challenges: []string{"Competition for industrial contractors", "Specialized equipment availability"},
		Opportunities: []string{
			"Industrial prefabrication",
			"Energy-efficient retrofits",
		},
	},
}

var defaultMarketIntelligence = models.MarketIntelligence{
	GrowthRate: "6.5% annually",
	KeyDrivers: []string{"Vision 2030 economic diversification", "Public investment programs"},
	Challenges: []string{"Skilled labor shortage", "Supply chain dependencies"},
	Opportunities: []string{
		"Modern construction method adoption",
		"Local manufacturing incentives",
	},
}

func marketIntelligenceFor(location string) models.MarketIntelligence {
	if mi, ok := marketIntelligenceByCity[strings.ToLower(location)]; ok {
		return mi
	}
	return defaultMarketIntelligence
}

func riskCategoriesFor(project *models.Project) []models.RiskCategory {
	categories := []models.RiskCategory{
		{
			Category:   "Financial",
			Risks:      []string{"Material price escalation", "Currency exposure on imported systems"},
			Mitigation: []string{"Fixed-price supply agreements", "Contingency budget of 10-15%"},
		},
		{
			Category:   "Schedule",
			Risks:      []string{"Permit approval delays", "Long-lead equipment deliveries"},
			Mitigation: []string{"Early regulatory engagement", "Parallel procurement tracks"},
		},
		{
			Category:   "Technical",
			Risks:      []string{"Technology integration complexity", "Quality control across subcontractors"},
			Mitigation: []string{"Prototype and mock-up phase", "Independent inspection regime"},
		},
	}
	if project.Complexity == models.ComplexityHigh {
		categories = append(categories, models.RiskCategory{
			Category:   "Execution",
			Risks:      []string{"Interface management between specialized trades", "Design change ripple effects"},
			Mitigation: []string{"Dedicated interface manager", "Strict change control board"},
		})
	}
	return categories
}

func adoptionRoadmap(project *models.Project) []models.RoadmapPhase {
	return []models.RoadmapPhase{
		{
			Phase:        "Assessment & Planning",
			Duration:     "1-2 months",
			Activities:   []string{"Technology readiness assessment", "Provider capability verification", "Regulatory review"},
			Deliverables: []string{"Technology selection report", "Approved project execution plan"},
		},
		{
			Phase:        "Pilot & Validation",
			Duration:     "2-3 months",
			Activities:   []string{"Mock-up construction", "Process validation with selected provider"},
			Deliverables: []string{"Validated construction methodology", "Quality benchmarks"},
		},
		{
			Phase:        "Full Deployment",
			Duration:     fmt.Sprintf("%.0f months", project.TimelineMonths),
			Activities:   []string{"Production construction", "Progress monitoring", "Continuous quality assurance"},
			Deliverables: []string{"Completed works", "As-built documentation"},
		},
	}
}

func templateMarketAnalysis(project *models.Project) models.MarketAnalysis {
	return models.MarketAnalysis{
		RegionalTrends:            fmt.Sprintf("The %s construction market is expanding under Vision 2030, with sustained demand for %s developments.", displayCity(project.Location), strings.ToLower(string(project.Type))),
		RegulatoryEnvironment:     "Saudi Building Code (SBC) compliance is mandatory; municipal approvals typically add 4-8 weeks to mobilization.",
		SupplyChainConsiderations: "Core materials are locally available; specialized systems may require import lead times of 8-12 weeks.",
		LaborMarket:               "Competition for certified trades remains high; providers with established local workforces hold a schedule advantage.",
		ClimateFactors:            "High summer temperatures compress outdoor working windows; off-site fabrication reduces weather exposure.",
	}
}

func templateTechRecommendations(project *models.Project) []models.TechnologyRecommendation {
	techs := project.TechNeeds
	if len(techs) == 0 {
		techs = defaultTechsByType(project.Type)
	}
	recs := make([]models.TechnologyRecommendation, 0, len(techs))
	for _, tech := range techs {
		recs = append(recs, models.TechnologyRecommendation{
			Technology:      tech,
			Justification:   fmt.Sprintf("%s aligns with the project's %s complexity profile and %.0f sqm scale.", tech, project.Complexity, project.SizeSqm),
			SaudiAdvantages: "Reduces on-site labor exposure to extreme heat and shortens the outdoor construction window.",
			CostImpact:      "Neutral to moderate premium, typically recovered through schedule compression.",
			TimelineImpact:  "Potential 15-25% schedule reduction versus conventional methods.",
			RiskAssessment:  "Low to moderate; depends on provider's prior delivery record with the system.",
		})
	}
	return recs
}

func defaultTechsByType(t models.ProjectType) []string {
	switch t {
	case models.TypeIndustrial:
		return []string{"Prefabrication", "Steel Frame"}
	case models.TypeCommercial:
		return []string{"BIM", "Precast"}
	case models.TypeMixedUse:
		return []string{"BIM", "Modular LGS"}
	default:
		return []string{"Precast", "Modular LGS"}
	}
}

func templateProviderAnalysis(providers []models.ScoredProvider) []models.ProviderAnalysis {
	analyses := make([]models.ProviderAnalysis, 0, len(providers))
	for _, sp := range providers {
		strengths := []string{"Established regional track record"}
		if len(sp.Technologies) > 2 {
			strengths = append(strengths, "Broad technology portfolio")
		}
		if strings.Contains(strings.ToLower(sp.Location), "saudi") {
			strengths = append(strengths, "Local presence and regulatory familiarity")
		}
		analyses = append(analyses, models.ProviderAnalysis{
			ProviderName:        sp.Name,
			Strengths:           strengths,
			ProjectFit:          fmt.Sprintf("Overall suitability score %.2f against the stated requirements.", sp.FinalScore),
			SaudiExperience:     saudiExperiencePhrase(sp.Provider),
			InnovationScore:     innovationScore(sp.Provider),
			RecommendationLevel: recommendationLevel(sp.FinalScore),
		})
	}
	return analyses
}

func saudiExperiencePhrase(p models.Provider) string {
	if strings.Contains(strings.ToLower(p.Location), "saudi") {
		return "Operates locally with direct Saudi market delivery experience."
	}
	return "International provider; Saudi delivery experience should be verified."
}

func innovationScore(p models.Provider) int {
	score := 5 + len(p.Technologies)
	if score > 10 {
		score = 10
	}
	return score
}

func recommendationLevel(finalScore float64) string {
	switch {
	case finalScore >= 0.75:
		return "Highly Recommended"
	case finalScore >= 0.5:
		return "Recommended"
	default:
		return "Consider with Caution"
	}
}

func templateImplementation(project *models.Project) models.ImplementationStrategy {
	return models.ImplementationStrategy{
		Phases: []string{
			"Design finalization and permitting",
			"Procurement and provider mobilization",
			"Construction and quality assurance",
			"Commissioning and handover",
		},
		KeyMilestones: []string{
			"Building permit issued",
			"Provider contract signed",
			"Structural completion",
			"Final inspection passed",
		},
		RiskMitigation: "Stage-gated delivery with monthly schedule and cost reviews against the baseline estimate.",
		SuccessMetrics: []string{
			"Delivery within approved budget",
			fmt.Sprintf("Completion within %.0f months", project.TimelineMonths),
			"Zero major non-conformances at handover",
		},
	}
}

func templateFinancial(project *models.Project, estimate models.EstimateResult) models.FinancialAnalysis {
	adherence := "Estimated cost fits within the stated budget."
	if estimate.EstCost > project.Budget {
		adherence = fmt.Sprintf("Estimated cost exceeds budget by %.0f SAR; scope or specification adjustment is advised.", estimate.EstCost-project.Budget)
	}
	return models.FinancialAnalysis{
		CostBreakdown:    fmt.Sprintf("Estimated total of %.0f SAR (%.0f SAR/sqm) covering structure, envelope, MEP and finishes.", estimate.EstCost, estimate.EstCost/project.SizeSqm),
		ValueEngineering: "Standardized structural grids and locally sourced finishes offer the largest savings potential.",
		ROIProjection:    "Return profile depends on end use; modern methods typically improve asset delivery speed by one quarter.",
		BudgetAdherence:  adherence,
	}
}

func templateExecutiveSummary(project *models.Project, estimate models.EstimateResult) string {
	return fmt.Sprintf(
		"The %s project (%s, %.0f sqm, %s complexity) carries an estimated cost of %.0f SAR over roughly %.1f months. Provider options and delivery risks are summarized below.",
		project.Name, displayCity(project.Location), project.SizeSqm, project.Complexity, estimate.EstCost, estimate.EstTimeMonths,
	)
}

func displayCity(location string) string {
	if location == "" {
		return "Saudi"
	}
	return location
}

// internal/models/report.go
package models

// Report sources, also used for ranking results.
const (
	SourceRemote    = "remote"
	SourceHeuristic = "heuristic"
	SourceCache     = "cache"
	SourceTemplate  = "template"
)

// MarketAnalysis holds the narrative market section of a report.
type MarketAnalysis struct {
	RegionalTrends            string `json:"regionalTrends"`
	RegulatoryEnvironment     string `json:"regulatoryEnvironment"`
	SupplyChainConsiderations string `json:"supplyChainConsiderations"`
	LaborMarket               string `json:"laborMarket"`
	ClimateFactors            string `json:"climateFactors"`
}

// TechnologyRecommendation justifies one building technology for the project.
type TechnologyRecommendation struct {
	Technology      string `json:"technology"`
	Justification   string `json:"justification"`
	SaudiAdvantages string `json:"saudiAdvantages"`
	CostImpact      string `json:"costImpact"`
	TimelineImpact  string `json:"timelineImpact"`
	RiskAssessment  string `json:"riskAssessment"`
}

// ProviderAnalysis summarizes one provider's fit.
type ProviderAnalysis struct {
	ProviderName        string   `json:"providerName"`
	Strengths           []string `json:"strengths"`
	ProjectFit          string   `json:"projectFit"`
	SaudiExperience     string   `json:"saudiExperience"`
	InnovationScore     int      `json:"innovationScore"`
	RecommendationLevel string   `json:"recommendationLevel"`
}

// ImplementationStrategy describes the phased delivery plan.
type ImplementationStrategy struct {
	Phases         []string `json:"phases"`
	KeyMilestones  []string `json:"keyMilestones"`
	RiskMitigation string   `json:"riskMitigation"`
	SuccessMetrics []string `json:"successMetrics"`
}

// FinancialAnalysis holds the narrative cost sections.
type FinancialAnalysis struct {
	CostBreakdown    string `json:"costBreakdown"`
	ValueEngineering string `json:"valueEngineering"`
	ROIProjection    string `json:"roiProjection"`
	BudgetAdherence  string `json:"budgetAdherence"`
}

// CalculatedMetrics are computed locally and are present on every report
// regardless of whether the remote analysis succeeded.
type CalculatedMetrics struct {
	BudgetAdequacyScore float64 `json:"budgetAdequacyScore"`
	TimelineFeasibility float64 `json:"timelineFeasibility"`
	ComplexityFactor    float64 `json:"complexityFactor"`
}

// MarketIntelligence is the per-city market lookup attached to reports.
type MarketIntelligence struct {
	GrowthRate    string   `json:"growthRate"`
	KeyDrivers    []string `json:"keyDrivers"`
	Challenges    []string `json:"challenges"`
	Opportunities []string `json:"opportunities"`
}

// RiskCategory groups related delivery risks with their mitigations.
type RiskCategory struct {
	Category   string   `json:"category"`
	Risks      []string `json:"risks"`
	Mitigation []string `json:"mitigation"`
}

// RoadmapPhase is one step of the technology adoption roadmap.
type RoadmapPhase struct {
	Phase        string   `json:"phase"`
	Duration     string   `json:"duration"`
	Activities   []string `json:"activities"`
	Deliverables []string `json:"deliverables"`
}

// Report is the consolidated output of the report synthesizer. Source is
// "remote" when the narrative came from the text-completion service and
// "template" when the local fallback produced it; CalculatedMetrics,
// MarketIntelligence, RiskCategories and AdoptionRoadmap are always local.
type Report struct {
	ExecutiveSummary    string                     `json:"executiveSummary"`
	MarketAnalysis      MarketAnalysis             `json:"marketAnalysis"`
	TechRecommendations []TechnologyRecommendation `json:"technologyRecommendations"`
	ProviderAnalysis    []ProviderAnalysis         `json:"providerAnalysis"`
	Implementation      ImplementationStrategy     `json:"implementationStrategy"`
	Financial           FinancialAnalysis          `json:"financialAnalysis"`
	CalculatedMetrics   CalculatedMetrics          `json:"calculatedMetrics"`
	MarketIntelligence  MarketIntelligence         `json:"saudiMarketIntelligence"`
	RiskCategories      []RiskCategory             `json:"riskCategories"`
	OverallRiskLevel    string                     `json:"overallRiskLevel"`
	AdoptionRoadmap     []RoadmapPhase             `json:"technologyAdoptionRoadmap"`
	TopProviders        []ScoredProvider           `json:"topProviders"`
	Estimate            EstimateResult             `json:"estimate"`
	Source              string                     `json:"source"`
}

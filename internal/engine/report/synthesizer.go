// internal/engine/report/synthesizer.go

// Package report composes the consolidated project report: deterministic
// estimate, advanced provider ranking, locally computed metrics, and a
// narrative section that prefers the text-completion service but always has
// a template fallback.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/common/metrics"
	"construction-engine/internal/engine/cache"
	"construction-engine/internal/engine/estimate"
	"construction-engine/internal/engine/rank"
	"construction-engine/internal/engine/remote"
	"construction-engine/internal/models"
)

// DefaultTopN is how many providers get a per-provider analysis section.
const DefaultTopN = 3

const reportCacheSize = 256

// Budget adequacy uses heavier multipliers than the estimator: analysis-path
// adequacy is judged against a conservative adjusted cost.
var adequacyComplexityFactors = map[models.Complexity]float64{
	models.ComplexityLow:    1.0,
	models.ComplexityMedium: 1.2,
	models.ComplexityHigh:   1.5,
}

var adequacyLocationFactors = map[string]float64{
	"riyadh": 1.0,
	"jeddah": 1.15,
	"dammam": 1.1,
	"mecca":  1.25,
	"medina": 1.2,
}

// remoteAnalysis is the object shape the analysis prompt asks the completion
// service to return.
type remoteAnalysis struct {
	ExecutiveSummary    string                            `json:"executiveSummary"`
	MarketAnalysis      models.MarketAnalysis             `json:"marketAnalysis"`
	TechRecommendations []models.TechnologyRecommendation `json:"technologyRecommendations"`
	ProviderAnalysis    []models.ProviderAnalysis         `json:"providerAnalysis"`
	Implementation      models.ImplementationStrategy     `json:"implementationStrategy"`
	Financial           models.FinancialAnalysis          `json:"financialAnalysis"`
}

type Synthesizer struct {
	completer remote.TextCompleter
	estimator *estimate.Estimator
	ranker    *rank.Ranker
	logger    logger.Logger
	// Remote narratives only; template reports are cheap to rebuild and a
	// recovered service should get asked again.
	cached *lru.Cache[string, *models.Report]
}

// NewSynthesizer wires the report path. completer may be nil; every report
// then uses the template narrative.
func NewSynthesizer(completer remote.TextCompleter, estimator *estimate.Estimator, ranker *rank.Ranker, log logger.Logger) *Synthesizer {
	cached, _ := lru.New[string, *models.Report](reportCacheSize)
	return &Synthesizer{
		completer: completer,
		estimator: estimator,
		ranker:    ranker,
		logger:    log.WithFields(map[string]interface{}{"component": "report"}),
		cached:    cached,
	}
}

// Synthesize builds the consolidated report. The calculated metrics, market
// intelligence, risk categories and roadmap are always computed locally; only
// the narrative sections follow the remote-or-template discipline. The method
// never fails on remote errors, only on invalid input.
func (s *Synthesizer) Synthesize(ctx context.Context, project *models.Project, providers []models.Provider, topN int) (*models.Report, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	key := fmt.Sprintf("%s|%d", cache.Fingerprint(project), topN)
	if cached, ok := s.cached.Get(key); ok {
		return cached, nil
	}

	estimateResult := s.estimator.Estimate(project)
	topProviders := s.ranker.TopAdvanced(project, providers, topN)

	report := &models.Report{
		CalculatedMetrics:  s.calculatedMetrics(project),
		MarketIntelligence: marketIntelligenceFor(project.Location),
		RiskCategories:     riskCategoriesFor(project),
		OverallRiskLevel:   overallRiskLevel(estimateResult.Risk),
		AdoptionRoadmap:    adoptionRoadmap(project),
		TopProviders:       topProviders,
		Estimate:           estimateResult,
	}

	if analysis, err := s.remoteAnalysis(ctx, project, topProviders, estimateResult); err == nil {
		report.ExecutiveSummary = analysis.ExecutiveSummary
		report.MarketAnalysis = analysis.MarketAnalysis
		report.TechRecommendations = analysis.TechRecommendations
		report.ProviderAnalysis = analysis.ProviderAnalysis
		report.Implementation = analysis.Implementation
		report.Financial = analysis.Financial
		report.Source = models.SourceRemote
		metrics.ReportsSynthesized.WithLabelValues(models.SourceRemote).Inc()
		s.cached.Add(key, report)
		return report, nil
	} else if s.completer != nil {
		s.logger.Warn("remote analysis failed, using template narrative", map[string]interface{}{
			"error": err.Error(),
		})
	}

	report.ExecutiveSummary = templateExecutiveSummary(project, estimateResult)
	report.MarketAnalysis = templateMarketAnalysis(project)
	report.TechRecommendations = templateTechRecommendations(project)
	report.ProviderAnalysis = templateProviderAnalysis(topProviders)
	report.Implementation = templateImplementation(project)
	report.Financial = templateFinancial(project, estimateResult)
	report.Source = models.SourceTemplate
	metrics.ReportsSynthesized.WithLabelValues(models.SourceTemplate).Inc()
	return report, nil
}

var errNoCompleter = fmt.Errorf("no completion service configured")

func (s *Synthesizer) remoteAnalysis(ctx context.Context, project *models.Project, topProviders []models.ScoredProvider, est models.EstimateResult) (*remoteAnalysis, error) {
	if s.completer == nil {
		return nil, errNoCompleter
	}

	text, err := s.completer.Complete(ctx, s.buildPrompt(project, topProviders, est))
	if err != nil {
		return nil, commonerrors.NewReportSynthesisFailedError(err)
	}
	raw, err := remote.ExtractObject(text)
	if err != nil {
		return nil, commonerrors.NewReportSynthesisFailedError(err)
	}
	var analysis remoteAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, commonerrors.NewReportSynthesisFailedError(err)
	}
	if analysis.ExecutiveSummary == "" {
		return nil, commonerrors.NewReportSynthesisFailedError(fmt.Errorf("analysis missing executive summary"))
	}
	return &analysis, nil
}

func (s *Synthesizer) buildPrompt(project *models.Project, topProviders []models.ScoredProvider, est models.EstimateResult) string {
	providerJSON, _ := json.MarshalIndent(topProviders, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "You are a senior construction consultant for the Saudi Arabian market. Produce a structured project analysis.\n\n")
	fmt.Fprintf(&b, "PROJECT: %s\n", project.Name)
	fmt.Fprintf(&b, "- Type: %s, Size: %.0f sqm, Location: %s, Complexity: %s\n", project.Type, project.SizeSqm, project.Location, project.Complexity)
	fmt.Fprintf(&b, "- Budget: %.0f SAR, Timeline: %.0f months\n", project.Budget, project.TimelineMonths)
	fmt.Fprintf(&b, "- Estimated cost: %.0f SAR, estimated duration: %.1f months, risk score: %.2f\n\n", est.EstCost, est.EstTimeMonths, est.Risk)
	fmt.Fprintf(&b, "TOP CANDIDATE PROVIDERS:\n%s\n\n", providerJSON)
	b.WriteString(`Return ONLY a JSON object with exactly these keys:
{
  "executiveSummary": "...",
  "marketAnalysis": {"regionalTrends": "...", "regulatoryEnvironment": "...", "supplyChainConsiderations": "...", "laborMarket": "...", "climateFactors": "..."},
  "technologyRecommendations": [{"technology": "...", "justification": "...", "saudiAdvantages": "...", "costImpact": "...", "timelineImpact": "...", "riskAssessment": "..."}],
  "providerAnalysis": [{"providerName": "...", "strengths": ["..."], "projectFit": "...", "saudiExperience": "...", "innovationScore": 8, "recommendationLevel": "..."}],
  "implementationStrategy": {"phases": ["..."], "keyMilestones": ["..."], "riskMitigation": "...", "successMetrics": ["..."]},
  "financialAnalysis": {"costBreakdown": "...", "valueEngineering": "...", "roiProjection": "...", "budgetAdherence": "..."}
}
`)
	return b.String()
}

// calculatedMetrics are always present on a report, whatever the narrative
// source. Budget adequacy is judged against a conservatively adjusted cost.
func (s *Synthesizer) calculatedMetrics(project *models.Project) models.CalculatedMetrics {
	complexityFactor, ok := adequacyComplexityFactors[project.Complexity]
	if !ok {
		complexityFactor = adequacyComplexityFactors[models.ComplexityMedium]
	}
	locationFactor, ok := adequacyLocationFactors[strings.ToLower(project.Location)]
	if !ok {
		locationFactor = 1.0
	}

	baseCost := s.estimator.Estimate(&models.Project{
		Name:       project.Name,
		Type:       project.Type,
		SizeSqm:    project.SizeSqm,
		Complexity: models.ComplexityMedium,
		Location:   "",
	}).EstCost
	adjustedCost := baseCost * complexityFactor * locationFactor

	adequacy := 0.0
	if adjustedCost > 0 {
		adequacy = math.Min(1, project.Budget/adjustedCost)
	}

	feasibility := 0.0
	if project.SizeSqm > 0 {
		feasibility = math.Min(1, (project.TimelineMonths*4)/(project.SizeSqm/100))
	}

	return models.CalculatedMetrics{
		BudgetAdequacyScore: adequacy,
		TimelineFeasibility: feasibility,
		ComplexityFactor:    complexityFactor,
	}
}

func overallRiskLevel(risk float64) string {
	switch {
	case risk < 0.2:
		return "Low"
	case risk < 0.5:
		return "Moderate"
	default:
		return "High"
	}
}

// internal/engine/report/synthesizer_test.go
package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construction-engine/internal/common/config"
	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/engine/estimate"
	"construction-engine/internal/engine/rank"
	"construction-engine/internal/models"
)

type stubCompleter struct {
	text  string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

const analysisJSON = `Sure, here is the analysis:
{
  "executiveSummary": "A well-scoped commercial development.",
  "marketAnalysis": {"regionalTrends": "Growing", "regulatoryEnvironment": "SBC applies", "supplyChainConsiderations": "Stable", "laborMarket": "Tight", "climateFactors": "Hot summers"},
  "technologyRecommendations": [{"technology": "BIM", "justification": "Coordination", "saudiAdvantages": "Heat avoidance", "costImpact": "Neutral", "timelineImpact": "Faster", "riskAssessment": "Low"}],
  "providerAnalysis": [{"providerName": "Alpha", "strengths": ["Local"], "projectFit": "Strong", "saudiExperience": "Extensive", "innovationScore": 8, "recommendationLevel": "Highly Recommended"}],
  "implementationStrategy": {"phases": ["Design"], "keyMilestones": ["Permit"], "riskMitigation": "Stage gates", "successMetrics": ["On budget"]},
  "financialAnalysis": {"costBreakdown": "Detailed", "valueEngineering": "Grids", "roiProjection": "Positive", "budgetAdherence": "Within budget"}
}`

func reportProject() *models.Project {
	return &models.Project{
		Name:           "Jeddah Business Park",
		Type:           models.TypeCommercial,
		SizeSqm:        4000,
		Location:       "Jeddah",
		Complexity:     models.ComplexityMedium,
		Budget:         30000000,
		TimelineMonths: 18,
		TechNeeds:      []string{"BIM"},
	}
}

func reportProviders() []models.Provider {
	return []models.Provider{
		{ID: "p1", Name: "Alpha", Location: "Jeddah, Saudi Arabia", Technologies: []string{"BIM", "Precast", "Steel Frame"}, PastProjects: 35, CostPerSqm: 5000},
		{ID: "p2", Name: "Beta", Location: "Riyadh, Saudi Arabia", Technologies: []string{"Precast"}, PastProjects: 12, CostPerSqm: 6500},
		{ID: "p3", Name: "Gamma", Location: "Dubai", Technologies: []string{"3D Printing"}, PastProjects: 5, CostPerSqm: 9000},
		{ID: "p4", Name: "Delta", Location: "Dammam, Saudi Arabia", Technologies: []string{"Modular LGS"}, PastProjects: 20, CostPerSqm: 5500},
	}
}

func newTestSynthesizer(completer *stubCompleter) *Synthesizer {
	estimator := estimate.NewEstimator(config.DefaultEngineConfig())
	return NewSynthesizer(completer, estimator, rank.NewDefault(), logger.NewNoOpLogger())
}

func TestSynthesize_RemoteNarrative(t *testing.T) {
	completer := &stubCompleter{text: analysisJSON}
	s := newTestSynthesizer(completer)

	report, err := s.Synthesize(context.Background(), reportProject(), reportProviders(), 3)
	require.NoError(t, err)

	assert.Equal(t, models.SourceRemote, report.Source)
	assert.Equal(t, "A well-scoped commercial development.", report.ExecutiveSummary)
	assert.Equal(t, "Growing", report.MarketAnalysis.RegionalTrends)
	require.Len(t, report.ProviderAnalysis, 1)
	assert.Equal(t, 8, report.ProviderAnalysis[0].InnovationScore)
	assert.Len(t, report.TopProviders, 3)
	assert.NotZero(t, report.Estimate.EstCost)
}

func TestSynthesize_TemplateFallback(t *testing.T) {
	completer := &stubCompleter{err: errors.New("service unavailable")}
	s := newTestSynthesizer(completer)

	report, err := s.Synthesize(context.Background(), reportProject(), reportProviders(), 3)
	require.NoError(t, err, "remote failure must never surface to the caller")

	assert.Equal(t, models.SourceTemplate, report.Source)
	assert.NotEmpty(t, report.ExecutiveSummary)
	assert.NotEmpty(t, report.MarketAnalysis.RegionalTrends)
	require.Len(t, report.ProviderAnalysis, 3)
	require.NotEmpty(t, report.TechRecommendations)
	assert.Equal(t, "BIM", report.TechRecommendations[0].Technology)
}

func TestSynthesize_MalformedRemoteFallsBack(t *testing.T) {
	completer := &stubCompleter{text: "I am unable to produce the analysis."}
	s := newTestSynthesizer(completer)

	report, err := s.Synthesize(context.Background(), reportProject(), reportProviders(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTemplate, report.Source)
	assert.Len(t, report.TopProviders, 2)
}

func TestSynthesize_CalculatedMetricsAlwaysPresent(t *testing.T) {
	for name, completer := range map[string]*stubCompleter{
		"remote":   {text: analysisJSON},
		"template": {err: errors.New("down")},
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestSynthesizer(completer)
			report, err := s.Synthesize(context.Background(), reportProject(), reportProviders(), 3)
			require.NoError(t, err)

			m := report.CalculatedMetrics
			assert.Greater(t, m.BudgetAdequacyScore, 0.0)
			assert.LessOrEqual(t, m.BudgetAdequacyScore, 1.0)
			// 18 months * 4 / (4000/100) = 1.8, capped at 1.
			assert.Equal(t, 1.0, m.TimelineFeasibility)
			assert.Equal(t, 1.2, m.ComplexityFactor)
			assert.NotEmpty(t, report.MarketIntelligence.GrowthRate)
			assert.NotEmpty(t, report.RiskCategories)
			assert.NotEmpty(t, report.AdoptionRoadmap)
			assert.NotEmpty(t, report.OverallRiskLevel)
		})
	}
}

func TestSynthesize_CachesRemoteReportsOnly(t *testing.T) {
	completer := &stubCompleter{text: analysisJSON}
	s := newTestSynthesizer(completer)
	ctx := context.Background()

	first, err := s.Synthesize(ctx, reportProject(), reportProviders(), 3)
	require.NoError(t, err)
	second, err := s.Synthesize(ctx, reportProject(), reportProviders(), 3)
	require.NoError(t, err)

	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, first, second)

	// Template results are not cached: a recovered service gets asked again.
	failing := &stubCompleter{err: errors.New("down")}
	s2 := newTestSynthesizer(failing)
	_, err = s2.Synthesize(ctx, reportProject(), reportProviders(), 3)
	require.NoError(t, err)
	_, err = s2.Synthesize(ctx, reportProject(), reportProviders(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, failing.calls)
}

func TestSynthesize_NoCompleterUsesTemplates(t *testing.T) {
	s := NewSynthesizer(nil, estimate.NewEstimator(config.DefaultEngineConfig()), rank.NewDefault(), logger.NewNoOpLogger())

	report, err := s.Synthesize(context.Background(), reportProject(), reportProviders(), 0)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTemplate, report.Source)
	assert.Len(t, report.TopProviders, DefaultTopN)
}

func TestRemoteAnalysis_WrapsFailures(t *testing.T) {
	cases := map[string]*stubCompleter{
		"transport error": {err: errors.New("service unavailable")},
		"no object":       {text: "I am unable to produce the analysis."},
		"broken json":     {text: `{"executiveSummary": }`},
		"missing summary": {text: `{"executiveSummary": ""}`},
	}
	for name, completer := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestSynthesizer(completer)
			project := reportProject()
			est := estimate.NewEstimator(config.DefaultEngineConfig()).Estimate(project)

			_, err := s.remoteAnalysis(context.Background(), project, nil, est)
			require.Error(t, err)

			var std *commonerrors.StandardError
			require.ErrorAs(t, err, &std)
			assert.Equal(t, commonerrors.ErrCodeReportSynthesisFailed, std.Code)
			assert.True(t, std.Recoverable)
		})
	}
}

func TestSynthesize_RejectsInvalidProject(t *testing.T) {
	s := newTestSynthesizer(&stubCompleter{text: analysisJSON})

	bad := reportProject()
	bad.Budget = 0
	_, err := s.Synthesize(context.Background(), bad, reportProviders(), 3)
	assert.Error(t, err)
}

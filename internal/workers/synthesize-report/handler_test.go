// internal/workers/synthesize-report/handler_test.go
package synthesizereport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construction-engine/internal/common/logger"
	"construction-engine/internal/models"
)

func createTestConfig() *Config {
	return &Config{
		DefaultTopN: 3,
		Timeout:     3 * time.Second,
	}
}

type stubSynthesizer struct {
	report  *models.Report
	err     error
	gotTopN int
}

func (s *stubSynthesizer) SynthesizeReport(_ context.Context, _ *models.Project, _ []models.Provider, topN int) (*models.Report, error) {
	s.gotTopN = topN
	return s.report, s.err
}

func createTestInput() *Input {
	return &Input{
		Project: models.Project{
			Name:           "Medina Mixed Development",
			Type:           models.TypeMixedUse,
			SizeSqm:        6000,
			Location:       "Medina",
			Complexity:     models.ComplexityHigh,
			Budget:         50000000,
			TimelineMonths: 28,
		},
		Providers: []models.Provider{
			{ID: "p1", Name: "Alpha"},
		},
		TopN: 2,
	}
}

func TestExecute_ReturnsReport(t *testing.T) {
	stub := &stubSynthesizer{report: &models.Report{
		ExecutiveSummary: "Summary",
		Source:           models.SourceTemplate,
		TopProviders:     []models.ScoredProvider{{Provider: models.Provider{ID: "p1"}}},
	}}
	h := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	require.NotNil(t, output.Report)

	assert.Equal(t, "Summary", output.Report.ExecutiveSummary)
	assert.Equal(t, 2, stub.gotTopN)
}

func TestExecute_DefaultTopN(t *testing.T) {
	stub := &stubSynthesizer{report: &models.Report{Source: models.SourceTemplate}}
	h := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	input := createTestInput()
	input.TopN = 0
	_, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 3, stub.gotTopN)
}

func TestExecute_NilInput(t *testing.T) {
	h := NewHandler(createTestConfig(), &stubSynthesizer{}, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestExecute_SynthesizerError(t *testing.T) {
	stub := &stubSynthesizer{err: errors.New("invalid project")}
	h := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), createTestInput())
	assert.Error(t, err)
}

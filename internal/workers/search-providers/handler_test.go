// internal/workers/search-providers/handler_test.go
package searchproviders

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
		DefaultSize: 20,
		Timeout:     3 * time.Second,
	}
}

type stubSearcher struct {
	providers []models.Provider
	err       error
	gotQuery  string
	gotSize   int
}

func (s *stubSearcher) SearchProviders(_ context.Context, query string, size int) ([]models.Provider, error) {
	s.gotQuery = query
	s.gotSize = size
	return s.providers, s.err
}

func TestExecute_ReturnsMatches(t *testing.T) {
	stub := &stubSearcher{providers: []models.Provider{
		{ID: "p1", Name: "Alpha Construction"},
		{ID: "p2", Name: "Beta Builders"},
	}}
	h := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Query: "modular riyadh", Size: 5})
	require.NoError(t, err)

	assert.Equal(t, "modular riyadh", stub.gotQuery)
	assert.Equal(t, 5, stub.gotSize)
	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Providers, 2)
	assert.Equal(t, "p1", output.Providers[0].ID)
}

func TestExecute_DefaultSize(t *testing.T) {
	stub := &stubSearcher{}
	h := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Query: "bim"})
	require.NoError(t, err)
	assert.Equal(t, 20, stub.gotSize)
}

func TestExecute_EmptyQuery(t *testing.T) {
	h := NewHandler(createTestConfig(), &stubSearcher{}, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestExecute_NilInput(t *testing.T) {
	h := NewHandler(createTestConfig(), &stubSearcher{}, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestExecute_SearchError(t *testing.T) {
	stub := &stubSearcher{err: errors.New("cluster unavailable")}
	h := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Query: "bim"})
	assert.Error(t, err)
}

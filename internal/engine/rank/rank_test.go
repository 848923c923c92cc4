// internal/engine/rank/rank_test.go
package rank

import (
	"testing"

	"construction-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() *models.Project {
	return &models.Project{
		Name:           "Riyadh Villas",
		Type:           models.TypeResidential,
		SizeSqm:        1500,
		Location:       "Riyadh",
		Complexity:     models.ComplexityMedium,
		Budget:         2000000,
		TimelineMonths: 12,
		TechNeeds:      []string{"Precast", "Steel Frame"},
	}
}

func strongProvider() models.Provider {
	return models.Provider{
		ID:                    "p-strong",
		Name:                  "Strong Build Co",
		Location:              "Riyadh, Saudi Arabia",
		Technologies:          []string{"Precast", "Steel Frame", "BIM"},
		PastProjects:          40,
		BaseCost:              100000,
		CostPerSqm:            900,
		TypicalProjectSize:    1600,
		TypicalTimelineMonths: 12,
	}
}

func weakProvider() models.Provider {
	return models.Provider{
		ID:                    "p-weak",
		Name:                  "Distant Modular",
		Location:              "Dubai",
		Technologies:          []string{"3D Printing"},
		PastProjects:          2,
		BaseCost:              5000000,
		CostPerSqm:            8000,
		TypicalProjectSize:    20000,
		TypicalTimelineMonths: 40,
	}
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	r := NewDefault()
	ranked := r.Rank(testProject(), []models.Provider{weakProvider(), strongProvider()})

	require.Len(t, ranked, 2)
	assert.Equal(t, "p-strong", ranked[0].ID)
	assert.Equal(t, "p-weak", ranked[1].ID)
	assert.Greater(t, ranked[0].FinalScore, ranked[1].FinalScore)
}

func TestRank_IsStable(t *testing.T) {
	r := NewDefault()
	// Two identical providers tie exactly; input order must survive.
	a := strongProvider()
	a.ID = "a"
	b := strongProvider()
	b.ID = "b"

	first := r.Rank(testProject(), []models.Provider{a, b})
	second := r.Rank(testProject(), []models.Provider{a, b})

	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].ID)
	assert.Equal(t, "b", first[1].ID)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].FinalScore, second[i].FinalScore)
	}
}

func TestRank_ScoresStayInUnitInterval(t *testing.T) {
	r := NewDefault()
	ranked := r.Rank(testProject(), []models.Provider{strongProvider(), weakProvider(), {}})
	for _, sp := range ranked {
		assert.GreaterOrEqual(t, sp.FinalScore, 0.0)
		assert.LessOrEqual(t, sp.FinalScore, 1.0)
	}
}

func TestRank_RationalePhrases(t *testing.T) {
	r := NewDefault()

	ranked := r.Rank(testProject(), []models.Provider{strongProvider()})
	require.Len(t, ranked, 1)
	assert.Contains(t, ranked[0].Rationale, "Excellent technology match")
	assert.Contains(t, ranked[0].Rationale, "Optimal location")

	// Nothing crosses a threshold: generic fallback phrase.
	mediocre := models.Provider{
		ID:                    "p-flat",
		Location:              "Abha",
		Technologies:          []string{"Timber"},
		BaseCost:              4000000,
		CostPerSqm:            3000,
		TypicalProjectSize:    9000,
		TypicalTimelineMonths: 48,
	}
	ranked = r.Rank(testProject(), []models.Provider{mediocre})
	require.Len(t, ranked, 1)
	assert.Equal(t, "Good overall match based on project requirements", ranked[0].Rationale)
}

func TestScoreComparison(t *testing.T) {
	r := NewDefault()
	project := testProject()

	p := strongProvider()
	p.ProjectTypes = []string{"Residential"}
	score := r.ScoreComparison(&p, project)
	assert.Greater(t, score, 0.8)
	assert.LessOrEqual(t, score, 1.0)

	w := weakProvider()
	low := r.ScoreComparison(&w, project)
	assert.Less(t, low, score)

	// Nil project returns the documented neutral value.
	assert.Equal(t, 0.5, r.ScoreComparison(&p, nil))
}

func TestScoreAdvanced(t *testing.T) {
	r := NewDefault()
	project := testProject()

	p := strongProvider()
	w := weakProvider()
	assert.Greater(t, r.ScoreAdvanced(&p, project), r.ScoreAdvanced(&w, project))

	top := r.TopAdvanced(project, []models.Provider{w, p}, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "p-strong", top[0].ID)
}

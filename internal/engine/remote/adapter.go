// internal/engine/remote/adapter.go
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/models"
)

// DefaultProviderCap bounds the catalog slice embedded in the prompt.
const DefaultProviderCap = 10

// Positional scores: the best-ranked provider gets 0.9 and each following
// position drops by 0.1, clamped at 0 past the ninth entry.
const (
	positionalTop  = 0.9
	positionalStep = 0.1
)

// rankedEntry is the element shape the ranking prompt asks for. Score is
// optional; models that return one get it normalized into MatchScore.
type rankedEntry struct {
	ID     string  `json:"id"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score,omitempty"`
}

// Adapter formats ranking requests for the text-completion service and maps
// the response back onto full provider records.
type Adapter struct {
	completer   TextCompleter
	providerCap int
	logger      logger.Logger
}

func NewAdapter(completer TextCompleter, providerCap int, log logger.Logger) *Adapter {
	if providerCap <= 0 {
		providerCap = DefaultProviderCap
	}
	return &Adapter{
		completer:   completer,
		providerCap: providerCap,
		logger:      log.WithFields(map[string]interface{}{"component": "remote-ranker"}),
	}
}

// RankRemote asks the completion service to order the providers. Any failure
// (transport, timeout, malformed payload, nothing matched) comes back as a
// recoverable StandardError; the orchestrator owns the fallback decision.
func (a *Adapter) RankRemote(ctx context.Context, project *models.Project, providers []models.Provider) ([]models.ScoredProvider, error) {
	prompt := a.buildPrompt(project, providers)

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, commonerrors.NewRemoteTimeoutError("ranking")
		}
		return nil, commonerrors.NewRemoteRankFailedError(err)
	}

	raw, err := ExtractArray(text)
	if err != nil {
		return nil, commonerrors.NewMalformedResponseError("no JSON array in completion")
	}

	var entries []rankedEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, commonerrors.NewMalformedResponseError(err.Error())
	}

	byID := make(map[string]*models.Provider, len(providers))
	for i := range providers {
		byID[providers[i].ID] = &providers[i]
	}

	ranked := make([]models.ScoredProvider, 0, len(entries))
	for i, entry := range entries {
		provider, ok := byID[entry.ID]
		if !ok {
			// Unknown ids are dropped but still consume their rank slot; the
			// positional score follows the returned array index.
			a.logger.Debug("dropping unmatched provider id", map[string]interface{}{
				"id": entry.ID,
			})
			continue
		}

		sp := models.ScoredProvider{
			Provider:   *provider,
			FinalScore: positionalScore(i),
			Rationale:  entry.Reason,
			MatchScore: normalizeMatchScore(entry.Score),
		}
		if entry.Reason != "" {
			sp.MatchReasons = []string{entry.Reason}
		}
		ranked = append(ranked, sp)
	}

	if len(ranked) == 0 {
		return nil, commonerrors.NewEmptyRemoteResultError()
	}

	a.logger.Info("remote ranking completed", map[string]interface{}{
		"returned": len(entries),
		"matched":  len(ranked),
	})

	return ranked, nil
}

func positionalScore(position int) float64 {
	score := positionalTop - positionalStep*float64(position)
	if score < 0 {
		return 0
	}
	return score
}

// normalizeMatchScore maps a 0-100 model score into [0,1].
func normalizeMatchScore(score float64) float64 {
	if score <= 0 {
		return 0
	}
	if score >= 100 {
		return 1
	}
	return score / 100
}

func (a *Adapter) buildPrompt(project *models.Project, providers []models.Provider) string {
	capped := providers
	if len(capped) > a.providerCap {
		capped = capped[:a.providerCap]
	}
	catalog, _ := json.MarshalIndent(capped, "", "  ")

	techNeeds := "Not specified"
	if len(project.TechNeeds) > 0 {
		techNeeds = strings.Join(project.TechNeeds, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a construction technology expert in Saudi Arabia. Analyze this project and rank the most suitable providers.\n\n")
	fmt.Fprintf(&b, "PROJECT DETAILS:\n")
	fmt.Fprintf(&b, "- Name: %s\n", project.Name)
	fmt.Fprintf(&b, "- Type: %s\n", project.Type)
	fmt.Fprintf(&b, "- Size: %.0f sqm\n", project.SizeSqm)
	fmt.Fprintf(&b, "- Location: %s\n", project.Location)
	fmt.Fprintf(&b, "- Complexity: %s\n", project.Complexity)
	fmt.Fprintf(&b, "- Budget: %.0f SAR\n", project.Budget)
	fmt.Fprintf(&b, "- Timeline: %.0f months\n", project.TimelineMonths)
	fmt.Fprintf(&b, "- Preferred Technologies: %s\n\n", techNeeds)
	fmt.Fprintf(&b, "AVAILABLE PROVIDERS (in JSON format):\n%s\n\n", catalog)
	b.WriteString(`CRITERIA FOR RANKING:
1. Technology match (30%) - How well provider's tech matches project needs
2. Budget compatibility (25%) - Provider's cost structure vs project budget
3. Location efficiency (15%) - Geographic proximity and local experience
4. Project size experience (15%) - Experience with similar scale projects
5. Timeline capability (15%) - Ability to meet project schedule

SAUDI-SPECIFIC CONSIDERATIONS:
- Local regulations and building codes compliance
- Climate adaptability (heat, sand, etc.)
- Local supply chain and manufacturing presence
- Cultural and business practices understanding

Return ONLY a JSON array of provider IDs sorted by suitability score (best first), with a "reason" field explaining why each provider is suitable.

Format: [{"id": "provider1", "reason": "Detailed explanation..."}, ...]
`)
	return b.String()
}

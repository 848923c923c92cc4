// internal/models/provider.go
package models

import (
	"errors"
	"fmt"
)

var ErrMissingProviderID = errors.New("provider id is required")

// Defaults applied when a provider record omits optional fields.
const (
	DefaultTypicalProjectSize    = 1000.0
	DefaultTypicalTimelineMonths = 12.0
	DefaultMinTimelineMonths     = 6.0
)

// Provider is a candidate contractor. Providers are read-only reference data
// supplied by the caller or loaded from the catalog store.
type Provider struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Location              string   `json:"location"`
	Technologies          []string `json:"technologies,omitempty"`
	ProjectTypes          []string `json:"projectTypes,omitempty"`
	Specialties           string   `json:"specialties,omitempty"`
	PastProjects          int      `json:"pastProjects"`
	BaseCost              float64  `json:"baseCost"`
	CostPerSqm            float64  `json:"costPerSqm"`
	TypicalProjectSize    float64  `json:"typicalProjectSize,omitempty"`
	TypicalTimelineMonths float64  `json:"typicalTimelineMonths,omitempty"`
	MinTimelineMonths     float64  `json:"minTimelineMonths,omitempty"`
	Rating                float64  `json:"rating,omitempty"`
}

// EstimatedCost is the provider's cost model applied to a project size.
func (p *Provider) EstimatedCost(sizeSqm float64) float64 {
	return p.BaseCost + p.CostPerSqm*sizeSqm
}

// TypicalSize returns the typical project size with the documented default.
func (p *Provider) TypicalSize() float64 {
	if p.TypicalProjectSize <= 0 {
		return DefaultTypicalProjectSize
	}
	return p.TypicalProjectSize
}

// TypicalTimeline returns the typical timeline with the documented default.
func (p *Provider) TypicalTimeline() float64 {
	if p.TypicalTimelineMonths <= 0 {
		return DefaultTypicalTimelineMonths
	}
	return p.TypicalTimelineMonths
}

// MinTimeline returns the minimum acceptable timeline with the default.
func (p *Provider) MinTimeline() float64 {
	if p.MinTimelineMonths <= 0 {
		return DefaultMinTimelineMonths
	}
	return p.MinTimelineMonths
}

// HandlesType reports whether the provider lists the given project type.
func (p *Provider) HandlesType(t ProjectType) bool {
	for _, pt := range p.ProjectTypes {
		if pt == string(t) {
			return true
		}
	}
	return false
}

func (p *Provider) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("provider %q: %w", p.Name, ErrMissingProviderID)
	}
	if p.BaseCost < 0 || p.CostPerSqm < 0 {
		return fmt.Errorf("provider %q: cost fields must be non-negative", p.Name)
	}
	if p.PastProjects < 0 {
		return fmt.Errorf("provider %q: pastProjects must be non-negative", p.Name)
	}
	return nil
}

// ScoredProvider decorates a Provider with a ranking outcome. MatchScore and
// MatchReasons are populated only on the remote ranking path.
type ScoredProvider struct {
	Provider
	FinalScore   float64  `json:"finalScore"`
	Rationale    string   `json:"rationale,omitempty"`
	MatchScore   float64  `json:"matchScore,omitempty"`
	MatchReasons []string `json:"matchReasons,omitempty"`
}

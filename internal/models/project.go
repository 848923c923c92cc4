// internal/models/project.go
package models

import (
	"errors"
	"fmt"
)

// ProjectType classifies a construction project.
type ProjectType string

const (
	TypeResidential ProjectType = "Residential"
	TypeCommercial  ProjectType = "Commercial"
	TypeIndustrial  ProjectType = "Industrial"
	TypeMixedUse    ProjectType = "Mixed-Use"
)

// Complexity levels. Unknown values resolve to medium multipliers.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

var (
	ErrInvalidSize     = errors.New("sizeSqm must be positive")
	ErrInvalidBudget   = errors.New("budget must be positive")
	ErrInvalidTimeline = errors.New("timelineMonths must be positive")
)

// Project describes a single construction intent. It is built once per
// request and never mutated by the engine.
type Project struct {
	Name           string      `json:"name"`
	Type           ProjectType `json:"type"`
	SizeSqm        float64     `json:"sizeSqm"`
	Location       string      `json:"location"`
	Complexity     Complexity  `json:"complexity"`
	Budget         float64     `json:"budget"`
	TimelineMonths float64     `json:"timelineMonths"`
	TechNeeds      []string    `json:"techNeeds,omitempty"`
}

// Validate rejects structurally invalid input. Unknown type, location or
// complexity values are not errors; they resolve to default multipliers.
func (p *Project) Validate() error {
	if p.SizeSqm <= 0 {
		return fmt.Errorf("project %q: %w", p.Name, ErrInvalidSize)
	}
	if p.Budget <= 0 {
		return fmt.Errorf("project %q: %w", p.Name, ErrInvalidBudget)
	}
	if p.TimelineMonths <= 0 {
		return fmt.Errorf("project %q: %w", p.Name, ErrInvalidTimeline)
	}
	return nil
}

// internal/engine/rank/rationale.go
package rank

import "strings"

type subScores struct {
	Tech     float64
	Budget   float64
	Location float64
	Size     float64
	Timeline float64
}

// rationaleRule triggers a phrase when its sub-score crosses the threshold.
// Kept as data rather than inline conditionals so the table is testable and
// the UI copy stays in one place.
type rationaleRule struct {
	Select    func(subScores) float64
	Threshold float64
	Phrase    string
}

var rationaleRules = []rationaleRule{
	{Select: func(s subScores) float64 { return s.Tech }, Threshold: 0.7, Phrase: "Excellent technology match"},
	{Select: func(s subScores) float64 { return s.Budget }, Threshold: 0.8, Phrase: "Good budget alignment"},
	{Select: func(s subScores) float64 { return s.Location }, Threshold: 0.8, Phrase: "Optimal location"},
	{Select: func(s subScores) float64 { return s.Size }, Threshold: 0.7, Phrase: "Relevant project scale experience"},
	{Select: func(s subScores) float64 { return s.Timeline }, Threshold: 0.8, Phrase: "Can meet timeline"},
}

const rationaleFallback = "Good overall match based on project requirements"

func buildRationale(sub subScores) string {
	var phrases []string
	for _, rule := range rationaleRules {
		if rule.Select(sub) > rule.Threshold {
			phrases = append(phrases, rule.Phrase)
		}
	}
	if len(phrases) == 0 {
		return rationaleFallback
	}
	return strings.Join(phrases, ". ")
}

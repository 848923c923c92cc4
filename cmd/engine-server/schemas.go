// cmd/engine-server/schemas.go
package main

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Request bodies are schema checked before unmarshalling so malformed input
// is rejected with a field-level message instead of a zero-valued struct.
const (
	projectSchema = `{
		"type": "object",
		"required": ["type", "sizeSqm", "location", "budget", "timelineMonths"],
		"properties": {
			"name": {"type": "string"},
			"type": {"type": "string", "enum": ["Residential", "Commercial", "Industrial", "Mixed-Use"]},
			"sizeSqm": {"type": "number", "exclusiveMinimum": 0},
			"location": {"type": "string", "minLength": 1},
			"complexity": {"type": "string", "enum": ["low", "medium", "high"]},
			"budget": {"type": "number", "exclusiveMinimum": 0},
			"timelineMonths": {"type": "number", "exclusiveMinimum": 0},
			"techNeeds": {"type": "array", "items": {"type": "string"}}
		}
	}`

	providerSchema = `{
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string", "minLength": 1},
			"location": {"type": "string"},
			"technologies": {"type": "array", "items": {"type": "string"}},
			"projectTypes": {"type": "array", "items": {"type": "string"}},
			"specialties": {"type": "string"},
			"pastProjects": {"type": "integer", "minimum": 0},
			"baseCost": {"type": "number", "minimum": 0},
			"costPerSqm": {"type": "number", "minimum": 0},
			"typicalProjectSize": {"type": "number"},
			"typicalTimelineMonths": {"type": "number"},
			"minTimelineMonths": {"type": "number"},
			"rating": {"type": "number", "minimum": 0, "maximum": 5}
		}
	}`
)

var requestSchemas = map[string]string{
	"estimate": fmt.Sprintf(`{
		"type": "object",
		"required": ["project"],
		"properties": {"project": %s}
	}`, projectSchema),

	"rank": fmt.Sprintf(`{
		"type": "object",
		"required": ["project"],
		"properties": {
			"project": %s,
			"providers": {"type": "array", "items": %s},
			"count": {"type": "integer", "minimum": 0}
		}
	}`, projectSchema, providerSchema),

	"report": fmt.Sprintf(`{
		"type": "object",
		"required": ["project"],
		"properties": {
			"project": %s,
			"providers": {"type": "array", "items": %s},
			"topN": {"type": "integer", "minimum": 0}
		}
	}`, projectSchema, providerSchema),

	"score": fmt.Sprintf(`{
		"type": "object",
		"required": ["project", "provider"],
		"properties": {
			"project": %s,
			"provider": %s
		}
	}`, projectSchema, providerSchema),
}

func compileSchemas() map[string]*gojsonschema.Schema {
	compiled := make(map[string]*gojsonschema.Schema, len(requestSchemas))
	for name, raw := range requestSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("schema %q: %v", name, err))
		}
		compiled[name] = schema
	}
	return compiled
}

// internal/engine/remote/completer.go

// Package remote is the text-completion-backed ranking and analysis path.
// Everything here can fail; failures are recoverable errors the orchestrator
// absorbs with its local fallback, never panics or caller-visible faults.
package remote

import (
	"context"
	"errors"

	genai "google.golang.org/genai"
)

// TextCompleter is a single prompt-in, text-out call to a generative model.
// The engine treats the service as opaque: the response may be free text
// wrapped around JSON, or garbage.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyCompletion = errors.New("completion contained no text")

// GeminiCompleter backs TextCompleter with the official genai client.
type GeminiCompleter struct {
	cli   *genai.Client
	model string
}

func NewGeminiCompleter(ctx context.Context, model string) (*GeminiCompleter, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiCompleter{cli: cli, model: model}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

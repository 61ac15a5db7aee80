// Package ai wraps the hosted model API behind the Responder interface the
// chat service consumes.
package ai

import (
	"context"
	"sort"
)

// Responder is the single-call, single-response contract for a hosted AI
// model. Generate blocks for the duration of the remote call; callers bound
// it with a context deadline.
type Responder interface {
	Generate(ctx context.Context, prompt, modelID string, temperature float64) (string, error)
	// IsAvailable is a best-effort liveness probe for health reporting. It
	// never gates Generate.
	IsAvailable(ctx context.Context) bool
	ListModels(ctx context.Context) ([]string, error)
}

// modelAliases maps the short model names exposed to clients onto
// provider-qualified identifiers.
var modelAliases = map[string]string{
	"claude-3-5-sonnet":     "anthropic/claude-3.5-sonnet",
	"claude-3-haiku":        "anthropic/claude-3-haiku",
	"cohere-command-r":      "cohere/command-r",
	"cohere-command-r-plus": "cohere/command-r-plus",
}

// ResolveAlias maps a short model name to its provider-qualified id.
// Unrecognized names pass through unchanged; the upstream API is the
// authority on whether they exist.
func ResolveAlias(modelID string) string {
	if mapped, ok := modelAliases[modelID]; ok {
		return mapped
	}
	return modelID
}

// KnownModels returns the short model names, sorted.
func KnownModels() []string {
	names := make([]string, 0, len(modelAliases))
	for name := range modelAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

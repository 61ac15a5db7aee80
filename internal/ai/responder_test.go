package ai

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveAlias(t *testing.T) {
	tests := []struct {
		name    string
		modelID string
		want    string
	}{
		{"known alias", "claude-3-5-sonnet", "anthropic/claude-3.5-sonnet"},
		{"another alias", "cohere-command-r", "cohere/command-r"},
		{"unknown passes through", "unknown-model", "unknown-model"},
		{"qualified id passes through", "anthropic/claude-3-haiku", "anthropic/claude-3-haiku"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAlias(tt.modelID))
		})
	}
}

func TestKnownModelsSorted(t *testing.T) {
	models := KnownModels()
	assert.NotEmpty(t, models)
	assert.True(t, sort.StringsAreSorted(models))
	assert.Contains(t, models, "claude-3-5-sonnet")
}

func TestModelsCacheExpiry(t *testing.T) {
	cache := newModelsCache(20 * time.Millisecond)

	assert.Nil(t, cache.Get())

	cache.Set([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, cache.Get())

	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, cache.Get())
}

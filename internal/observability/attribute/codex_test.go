package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodex(t *testing.T) {
	codex, err := NewCodex()
	assert.Nil(t, err)

	t.Run("Applies exact matches before prefix rewrites", func(t *testing.T) {
		assert.Equal(t, "type.trace", codex.ToInternal("ag.type.trace"))
		assert.Equal(t, "metrics.tokens.incremental.prompt", codex.ToInternal("gen_ai.usage.prompt_tokens"))
	})

	t.Run("Rewrites namespace prefixes", func(t *testing.T) {
		assert.Equal(t, "data.inputs.prompt", codex.ToInternal("ag.data.inputs.prompt"))
		assert.Equal(t, "refs.application.id", codex.ToInternal("ag.refs.application.id"))
	})

	t.Run("Leaves unknown keys untouched", func(t *testing.T) {
		assert.Equal(t, "http.status_code", codex.ToInternal("http.status_code"))
	})

	t.Run("Is idempotent in each direction", func(t *testing.T) {
		keys := []string{"ag.data.inputs.prompt", "ag.type.span", "gen_ai.system", "custom.key"}
		for _, key := range keys {
			internal := codex.ToInternal(key)
			assert.Equal(t, internal, codex.ToInternal(internal))
			wire := codex.ToWire(internal)
			assert.Equal(t, wire, codex.ToWire(wire))
		}
	})

	t.Run("Inverts exactly on table entries", func(t *testing.T) {
		keys := []string{"ag.data.inputs.prompt", "ag.metrics.duration.incremental", "ag.type.trace", "gen_ai.usage.total_tokens"}
		for _, key := range keys {
			assert.Equal(t, key, codex.ToWire(codex.ToInternal(key)))
		}
	})

	t.Run("Remaps whole attribute bags", func(t *testing.T) {
		flat := map[string]interface{}{
			"ag.data.inputs.prompt": "hello",
			"ag.tags.env":           "production",
			"unrelated":             "kept",
		}
		remapped := codex.RemapToInternal(flat)
		assert.Equal(t, map[string]interface{}{
			"data.inputs.prompt": "hello",
			"tags.env":           "production",
			"unrelated":          "kept",
		}, remapped)
	})
}

package attribute

import (
	"fmt"
	"strings"
)

// Codex is the static bidirectional table remapping well-known wire attribute
// keys onto internal namespace keys. Exact matches are applied before prefix
// rewrites. The table is loaded once at startup and never mutated afterwards.
type Codex struct {
	exactToInternal  map[string]string
	exactToWire      map[string]string
	prefixToInternal []prefixRule
	prefixToWire     []prefixRule
}

type prefixRule struct {
	from string
	to   string
}

var exactWireToInternal = map[string]string{
	"ag.type.trace":                  "type.trace",
	"ag.type.span":                   "type.span",
	"gen_ai.usage.prompt_tokens":     "metrics.tokens.incremental.prompt",
	"gen_ai.usage.completion_tokens": "metrics.tokens.incremental.completion",
	"gen_ai.usage.total_tokens":      "metrics.tokens.incremental.total",
	"gen_ai.request.model":           "meta.request.model",
	"gen_ai.response.model":          "meta.response.model",
	"gen_ai.system":                  "meta.system",
}

var prefixWireToInternal = []prefixRule{
	{from: "ag.data.", to: "data."},
	{from: "ag.metrics.", to: "metrics."},
	{from: "ag.meta.", to: "meta."},
	{from: "ag.tags.", to: "tags."},
	{from: "ag.refs.", to: "refs."},
}

// NewCodex builds the codex from the static tables, rejecting any
// configuration where two internal keys would share a wire key or two wire
// keys would share an internal key.
func NewCodex() (*Codex, error) {
	exactToInternal := make(map[string]string, len(exactWireToInternal))
	exactToWire := make(map[string]string, len(exactWireToInternal))
	for wire, internal := range exactWireToInternal {
		if existing, ok := exactToWire[internal]; ok {
			return nil, fmt.Errorf(
				"codex collision: internal key %q is mapped from both %q and %q",
				internal, existing, wire,
			)
		}
		exactToInternal[wire] = internal
		exactToWire[internal] = wire
	}

	seenInternalPrefixes := make(map[string]string, len(prefixWireToInternal))
	prefixToWire := make([]prefixRule, 0, len(prefixWireToInternal))
	for _, rule := range prefixWireToInternal {
		if existing, ok := seenInternalPrefixes[rule.to]; ok {
			return nil, fmt.Errorf(
				"codex collision: internal prefix %q is mapped from both %q and %q",
				rule.to, existing, rule.from,
			)
		}
		seenInternalPrefixes[rule.to] = rule.from
		prefixToWire = append(prefixToWire, prefixRule{from: rule.to, to: rule.from})
	}

	return &Codex{
		exactToInternal:  exactToInternal,
		exactToWire:      exactToWire,
		prefixToInternal: prefixWireToInternal,
		prefixToWire:     prefixToWire,
	}, nil
}

// ToInternal remaps a wire key onto its internal namespace key. Keys outside
// the table pass through unchanged, which also makes the mapping idempotent.
func (c *Codex) ToInternal(key string) string {
	if internal, ok := c.exactToInternal[key]; ok {
		return internal
	}
	for _, rule := range c.prefixToInternal {
		if strings.HasPrefix(key, rule.from) {
			return rule.to + key[len(rule.from):]
		}
	}
	return key
}

// ToWire remaps an internal namespace key back onto its wire key.
func (c *Codex) ToWire(key string) string {
	if wire, ok := c.exactToWire[key]; ok {
		return wire
	}
	for _, rule := range c.prefixToWire {
		if strings.HasPrefix(key, rule.from) {
			return rule.to + key[len(rule.from):]
		}
	}
	return key
}

// RemapToInternal applies ToInternal to every key of a flat attribute bag.
func (c *Codex) RemapToInternal(flat map[string]interface{}) map[string]interface{} {
	remapped := make(map[string]interface{}, len(flat))
	for key, value := range flat {
		remapped[c.ToInternal(key)] = value
	}
	return remapped
}

// RemapToWire applies ToWire to every key of a flat attribute bag.
func (c *Codex) RemapToWire(flat map[string]interface{}) map[string]interface{} {
	remapped := make(map[string]interface{}, len(flat))
	for key, value := range flat {
		remapped[c.ToWire(key)] = value
	}
	return remapped
}

package identifier

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseTraceID(t *testing.T) {
	t.Run("Round-trips a valid identifier", func(t *testing.T) {
		input := "0x0123456789abcdef0123456789abcdef"
		traceID, err := ParseTraceID(input)
		assert.Nil(t, err)
		assert.Equal(t, input, traceID.String())
	})

	t.Run("Rejects a missing prefix", func(t *testing.T) {
		_, err := ParseTraceID("0123456789abcdef0123456789abcdef")
		assert.NotNil(t, err)
	})

	t.Run("Rejects a short identifier", func(t *testing.T) {
		_, err := ParseTraceID("0x0123456789abcdef")
		assert.NotNil(t, err)
	})

	t.Run("Rejects non-hex digits", func(t *testing.T) {
		_, err := ParseTraceID("0x0123456789abcdef0123456789abcdeg")
		assert.NotNil(t, err)
	})
}

func TestParseSpanID(t *testing.T) {
	t.Run("Round-trips a valid identifier", func(t *testing.T) {
		input := "0xfedcba9876543210"
		spanID, err := ParseSpanID(input)
		assert.Nil(t, err)
		assert.Equal(t, input, spanID.String())
	})

	t.Run("Rejects a trace-sized identifier", func(t *testing.T) {
		_, err := ParseSpanID("0x0123456789abcdef0123456789abcdef")
		assert.NotNil(t, err)
	})
}

func TestNodeDerivation(t *testing.T) {
	t.Run("Node id concatenates trace low bits with span id", func(t *testing.T) {
		traceID, err := ParseTraceID("0x0123456789abcdef1122334455667788")
		assert.Nil(t, err)
		spanID, err := ParseSpanID("0xaabbccddeeff0011")
		assert.Nil(t, err)
		node := NodeOf(traceID, spanID)
		assert.Equal(t, "11223344-5566-7788-aabb-ccddeeff0011", node.String())
		assert.Equal(t, spanID, SpanIDOfNode(node))
	})

	t.Run("Tree and trace id are interchangeable", func(t *testing.T) {
		tree := uuid.New()
		assert.Equal(t, tree, TreeOfTrace(TraceIDFromTree(tree)))
	})

	t.Run("Derived span id carries the discriminator", func(t *testing.T) {
		spanID := DeriveSpanID(0x0102030405060708)
		assert.Equal(t, "0x0102030405060708", spanID.String())
	})
}

func TestTree(t *testing.T) {
	traceID, err := ParseTraceID("0x0123456789abcdef1122334455667788")
	assert.Nil(t, err)
	assert.Equal(t, uint64(0x0123456789abcdef), traceID.Tree())
}

package identifier

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TraceID is a 128-bit trace identifier. The high 64 bits form the tree
// component shared by every span of the trace; the low 64 bits are reserved
// for node identifier derivation.
type TraceID [16]byte

// SpanID is a 64-bit span identifier, the low half of the span's node id.
type SpanID [8]byte

const hexPrefix = "0x"

var (
	ZeroTraceID = TraceID{}
	ZeroSpanID  = SpanID{}
)

func (t TraceID) String() string {
	return hexPrefix + hex.EncodeToString(t[:])
}

func (s SpanID) String() string {
	return hexPrefix + hex.EncodeToString(s[:])
}

func (t TraceID) IsZero() bool {
	return t == ZeroTraceID
}

func (s SpanID) IsZero() bool {
	return s == ZeroSpanID
}

// Tree returns the high 64 bits of the trace identifier.
func (t TraceID) Tree() uint64 {
	return binary.BigEndian.Uint64(t[:8])
}

func ParseTraceID(value string) (TraceID, error) {
	raw, err := parseHex(value, 16)
	if err != nil {
		return ZeroTraceID, fmt.Errorf("invalid trace identifier %q: %w", value, err)
	}
	var t TraceID
	copy(t[:], raw)
	return t, nil
}

func ParseSpanID(value string) (SpanID, error) {
	raw, err := parseHex(value, 8)
	if err != nil {
		return ZeroSpanID, fmt.Errorf("invalid span identifier %q: %w", value, err)
	}
	var s SpanID
	copy(s[:], raw)
	return s, nil
}

// TraceIDFromBytes accepts the raw 16-byte form carried by OTLP exporters.
func TraceIDFromBytes(raw []byte) (TraceID, error) {
	if len(raw) != 16 {
		return ZeroTraceID, fmt.Errorf("trace identifier must be 16 bytes, got %d", len(raw))
	}
	var t TraceID
	copy(t[:], raw)
	return t, nil
}

// SpanIDFromBytes accepts the raw 8-byte form carried by OTLP exporters.
func SpanIDFromBytes(raw []byte) (SpanID, error) {
	if len(raw) != 8 {
		return ZeroSpanID, fmt.Errorf("span identifier must be 8 bytes, got %d", len(raw))
	}
	var s SpanID
	copy(s[:], raw)
	return s, nil
}

// TraceIDFromTree maps a tree UUID onto its wire-level trace identifier.
func TraceIDFromTree(tree uuid.UUID) TraceID {
	return TraceID(tree)
}

// TreeOfTrace is the inverse of TraceIDFromTree.
func TreeOfTrace(t TraceID) uuid.UUID {
	return uuid.UUID(t)
}

// NodeOf reconstructs the 128-bit node UUID of a span by concatenating the
// trace's low 64 bits with the span identifier.
func NodeOf(t TraceID, s SpanID) uuid.UUID {
	var node uuid.UUID
	copy(node[:8], t[8:])
	copy(node[8:], s[:])
	return node
}

// SpanIDOfNode extracts the wire-level span identifier from a node UUID,
// its low 64 bits.
func SpanIDOfNode(node uuid.UUID) SpanID {
	var s SpanID
	copy(s[:], node[8:])
	return s
}

// DeriveSpanID builds the span identifier for a locally-unique discriminator
// within the given trace. The resulting node id is trace.low64 ++ discriminator.
func DeriveSpanID(discriminator uint64) SpanID {
	var s SpanID
	binary.BigEndian.PutUint64(s[:], discriminator)
	return s
}

func parseHex(value string, size int) ([]byte, error) {
	if !strings.HasPrefix(value, hexPrefix) {
		return nil, fmt.Errorf("missing %q prefix", hexPrefix)
	}
	digits := value[len(hexPrefix):]
	if len(digits) != size*2 {
		return nil, fmt.Errorf("expected %d hex digits, got %d", size*2, len(digits))
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex digits: %w", err)
	}
	return raw, nil
}

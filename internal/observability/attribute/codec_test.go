package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshall(t *testing.T) {
	t.Run("Flattens nested maps into dotted keys", func(t *testing.T) {
		nested := map[string]interface{}{
			"data": map[string]interface{}{
				"inputs": map[string]interface{}{
					"prompt": "hello",
				},
			},
		}
		flat := Marshall(nested)
		assert.Equal(t, map[string]interface{}{"data.inputs.prompt": "hello"}, flat)
	})

	t.Run("Addresses list entries by decimal index", func(t *testing.T) {
		nested := map[string]interface{}{
			"data": map[string]interface{}{
				"outputs": []interface{}{
					map[string]interface{}{"name": "x"},
					map[string]interface{}{"name": "y"},
				},
			},
		}
		flat := Marshall(nested)
		assert.Equal(t, "x", flat["data.outputs.0.name"])
		assert.Equal(t, "y", flat["data.outputs.1.name"])
	})
}

func TestUnmarshall(t *testing.T) {
	t.Run("Rebuilds list entries from digit segments", func(t *testing.T) {
		flat := map[string]interface{}{
			"ag.data.outputs.0.name": "x",
		}
		nested := Unmarshall(flat)
		expected := map[string]interface{}{
			"ag": map[string]interface{}{
				"data": map[string]interface{}{
					"outputs": []interface{}{
						map[string]interface{}{"name": "x"},
					},
				},
			},
		}
		assert.Equal(t, expected, nested)
	})

	t.Run("Auto-extends lists with nil placeholders", func(t *testing.T) {
		flat := map[string]interface{}{
			"items.2": "third",
		}
		nested := Unmarshall(flat)
		expected := map[string]interface{}{
			"items": []interface{}{nil, nil, "third"},
		}
		assert.Equal(t, expected, nested)
	})

	t.Run("Round-trips arbitrary nested structures", func(t *testing.T) {
		original := map[string]interface{}{
			"data": map[string]interface{}{
				"inputs":  map[string]interface{}{"prompt": "hello", "temperature": 0.7},
				"outputs": []interface{}{"a", "b", map[string]interface{}{"deep": []interface{}{1.0, 2.0}}},
			},
			"tags": map[string]interface{}{
				"env": "production",
			},
			"flag": true,
		}
		assert.Equal(t, original, Unmarshall(Marshall(original)))
	})

	t.Run("Round-trips empty containers", func(t *testing.T) {
		original := map[string]interface{}{
			"data": map[string]interface{}{
				"inputs":  map[string]interface{}{},
				"outputs": []interface{}{},
			},
		}
		assert.Equal(t, original, Unmarshall(Marshall(original)))
	})
}

func TestEncodeValue(t *testing.T) {
	t.Run("Passes scalars through unchanged", func(t *testing.T) {
		assert.Equal(t, "text", EncodeValue("text"))
		assert.Equal(t, 42, EncodeValue(42))
		assert.Equal(t, true, EncodeValue(true))
	})

	t.Run("Tags containers with the json prefix", func(t *testing.T) {
		encoded := EncodeValue(map[string]interface{}{"a": "b"})
		assert.Equal(t, `@ag.type=json:{"a":"b"}`, encoded)
	})

	t.Run("Encodes nil as the none sentinel", func(t *testing.T) {
		assert.Equal(t, "@ag.type=none:", EncodeValue(nil))
	})
}

func TestDecodeValue(t *testing.T) {
	t.Run("Reverses the json tagging", func(t *testing.T) {
		decoded := DecodeValue(`@ag.type=json:{"a":"b"}`)
		assert.Equal(t, map[string]interface{}{"a": "b"}, decoded)
	})

	t.Run("Reverses the none sentinel", func(t *testing.T) {
		assert.Nil(t, DecodeValue("@ag.type=none:"))
	})

	t.Run("Passes unrecognized strings through verbatim", func(t *testing.T) {
		assert.Equal(t, "plain string", DecodeValue("plain string"))
	})

	t.Run("Round-trips containers", func(t *testing.T) {
		original := []interface{}{"a", map[string]interface{}{"k": "v"}}
		assert.Equal(t, original, DecodeValue(EncodeValue(original)))
	})
}

package attribute

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

const (
	jsonValuePrefix = "@ag.type=json:"
	noneValueToken  = "@ag.type=none:"
)

// Marshall flattens a nested map/list structure into dotted
// namespace.key[.index] pairs. List entries are addressed by their decimal
// index. Empty containers are kept as leaf values so that Unmarshall can
// restore them.
func Marshall(nested map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{})
	flatten("", nested, flat)
	return flat
}

func flatten(prefix string, value interface{}, flat map[string]interface{}) {
	switch typed := value.(type) {
	case map[string]interface{}:
		if len(typed) == 0 && prefix != "" {
			flat[prefix] = typed
			return
		}
		for key, child := range typed {
			flatten(joinKey(prefix, key), child, flat)
		}
	case []interface{}:
		if len(typed) == 0 && prefix != "" {
			flat[prefix] = typed
			return
		}
		for i, child := range typed {
			flatten(joinKey(prefix, strconv.Itoa(i)), child, flat)
		}
	default:
		flat[prefix] = value
	}
}

func joinKey(prefix string, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Unmarshall rebuilds the nested structure from dotted keys. A pure-digit
// path segment addresses a list index, auto-extending the target list with
// nil placeholders; any other segment addresses a map key.
func Unmarshall(flat map[string]interface{}) map[string]interface{} {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	nested := make(map[string]interface{})
	for _, key := range keys {
		segments := strings.Split(key, ".")
		assignMap(nested, segments, flat[key])
	}
	return nested
}

func assignMap(node map[string]interface{}, segments []string, value interface{}) {
	head := segments[0]
	if len(segments) == 1 {
		node[head] = value
		return
	}
	node[head] = assign(node[head], segments[1:], value)
}

func assign(container interface{}, segments []string, value interface{}) interface{} {
	head := segments[0]
	if index, ok := listIndex(head); ok {
		list, _ := container.([]interface{})
		for len(list) <= index {
			list = append(list, nil)
		}
		if len(segments) == 1 {
			list[index] = value
		} else {
			list[index] = assign(list[index], segments[1:], value)
		}
		return list
	}

	node, ok := container.(map[string]interface{})
	if !ok {
		node = make(map[string]interface{})
	}
	assignMap(node, segments, value)
	return node
}

func listIndex(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return index, true
}

// EncodeValue prepares an attribute value for the wire. Primitive scalars
// pass through unchanged; containers become a self-describing JSON string;
// nil becomes a distinguished sentinel token.
func EncodeValue(value interface{}) interface{} {
	if value == nil {
		return noneValueToken
	}
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		serialized, err := json.Marshal(value)
		if err != nil {
			return value
		}
		return jsonValuePrefix + string(serialized)
	default:
		return value
	}
}

// DecodeValue reverses EncodeValue. Strings without a recognized tag pass
// through verbatim.
func DecodeValue(value interface{}) interface{} {
	text, ok := value.(string)
	if !ok {
		return value
	}
	if text == noneValueToken {
		return nil
	}
	if strings.HasPrefix(text, jsonValuePrefix) {
		var decoded interface{}
		if err := json.Unmarshal([]byte(text[len(jsonValuePrefix):]), &decoded); err != nil {
			return value
		}
		return decoded
	}
	return value
}

package optimize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// field is one member of a JSON object, kept in document order.
type field struct {
	Key   string
	Value any
}

// object is a JSON object decoded with its member order intact.
type object []field

// decodeOrdered decodes raw JSON into strings, json.Number, bools, nil, []any and object.
func decodeOrdered(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, field{Key: key, Value: value})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// textKeys are the object members that hold the whole resume when a model wraps it.
var textKeys = []string{"text", "content", "resume"}

// ResumeText flattens a structured resume back into plain text.
//
// Objects carrying a text, content or resume member yield that member. Other objects
// become "KEY:" headers followed by their nested values, or "key: value" lines for
// scalars. List items become "• item" lines.
func ResumeText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case object:
		return objectText(val)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := make(object, len(keys))
		for i, k := range keys {
			obj[i] = field{Key: k, Value: val[k]}
		}
		return objectText(obj)
	case []any:
		lines := make([]string, 0, len(val))
		for _, item := range val {
			switch item.(type) {
			case object, map[string]any:
				lines = append(lines, ResumeText(item))
			default:
				lines = append(lines, "• "+scalarText(item))
			}
		}
		return strings.Join(lines, "\n")
	case []string:
		lines := make([]string, len(val))
		for i, item := range val {
			lines[i] = "• " + item
		}
		return strings.Join(lines, "\n")
	default:
		return scalarText(val)
	}
}

func objectText(obj object) string {
	for _, key := range textKeys {
		for _, f := range obj {
			if f.Key == key {
				return ResumeText(f.Value)
			}
		}
	}

	lines := make([]string, 0, len(obj))
	for _, f := range obj {
		switch f.Value.(type) {
		case object, map[string]any, []any, []string:
			lines = append(lines, strings.ToUpper(f.Key)+":", ResumeText(f.Value))
		default:
			lines = append(lines, f.Key+": "+scalarText(f.Value))
		}
	}
	return strings.Join(lines, "\n")
}

func scalarText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

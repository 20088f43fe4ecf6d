package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Submission is the untyped field-name-to-value mapping a validator consumes.
// Values are strings, string/any slices for multi-select fields, nested maps
// for sub-objects such as badge, or booleans once checkboxes are coerced.
type Submission map[string]any

// Clone returns a deep copy of the submission's maps and slices.
func (s Submission) Clone() Submission {
	if s == nil {
		return Submission{}
	}
	out := make(Submission, len(s))
	for key, value := range s {
		out[key] = cloneValue(value)
	}
	return out
}

// Text returns the trimmed textual value stored under field.
func (s Submission) Text(field string) string {
	text, _ := textValue(s[field])
	return strings.TrimSpace(text)
}

// Bool returns the boolean stored under field; non-bool values are false.
func (s Submission) Bool(field string) bool {
	value, ok := s[field].(bool)
	return ok && value
}

// Strings returns the string elements of a list field.
func (s Submission) Strings(field string) []string {
	switch v := s[field].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if text, ok := textValue(item); ok {
				out = append(out, text)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Object returns the nested map stored under field.
func (s Submission) Object(field string) (map[string]any, bool) {
	return objectValue(s[field])
}

var errNotObject = errors.New("validation: submission body must be a JSON object")

// DecodeJSON reads a JSON object into a Submission.
func DecodeJSON(r io.Reader) (Submission, error) {
	if r == nil {
		return nil, errNotObject
	}
	var raw any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("validation: decode json: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return Submission(obj), nil
}

// DecodeYAML parses a YAML mapping into a Submission. Nested mappings are
// normalised to map[string]any so they behave like JSON input.
func DecodeYAML(data []byte) (Submission, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("validation: decode yaml: %w", err)
	}
	if raw == nil {
		return nil, errors.New("validation: yaml document is empty")
	}
	out := make(Submission, len(raw))
	for key, value := range raw {
		out[key] = normalizeYAML(value)
	}
	return out, nil
}

// DecodeForm converts parsed form values into a Submission. Keys ending in
// "[]" and repeated keys become []string; "parent[child]" and "parent.child"
// become nested maps; everything else is a single string. Keys are applied in
// sorted order, flat keys first, so a nested key always replaces a flat value
// posted under its parent name.
func DecodeForm(values url.Values) Submission {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		_, ci := splitNestedKey(strings.TrimSuffix(strings.TrimSpace(keys[i]), "[]"))
		_, cj := splitNestedKey(strings.TrimSuffix(strings.TrimSpace(keys[j]), "[]"))
		if (ci == "") != (cj == "") {
			return ci == ""
		}
		return keys[i] < keys[j]
	})

	out := make(Submission, len(values))
	for _, rawKey := range keys {
		items := values[rawKey]
		key := strings.TrimSpace(rawKey)
		if key == "" || strings.HasPrefix(key, "_") {
			continue
		}

		forceList := strings.HasSuffix(key, "[]")
		key = strings.TrimSuffix(key, "[]")

		var value any
		switch {
		case forceList || len(items) > 1:
			value = append([]string(nil), items...)
		case len(items) == 1:
			value = items[0]
		default:
			value = ""
		}

		parent, child := splitNestedKey(key)
		if child == "" {
			out[parent] = value
			continue
		}
		nested, ok := out[parent].(map[string]any)
		if !ok {
			nested = make(map[string]any)
			out[parent] = nested
		}
		nested[child] = value
	}
	return out
}

func splitNestedKey(key string) (string, string) {
	if idx := strings.Index(key, "["); idx > 0 && strings.HasSuffix(key, "]") {
		return key[:idx], key[idx+1 : len(key)-1]
	}
	if idx := strings.Index(key, "."); idx > 0 && idx < len(key)-1 {
		return key[:idx], key[idx+1:]
	}
	return key, ""
}

func textValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []string, []any, map[string]any:
		return "", false
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case json.Number:
		return v.String(), true
	default:
		return "", true
	}
}

func objectValue(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Submission:
		return map[string]any(v), true
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func isScalar(value any) bool {
	switch value.(type) {
	case string, bool, float64, int, json.Number:
		return true
	default:
		return false
	}
}

func isList(value any) bool {
	switch value.(type) {
	case []string, []any:
		return true
	default:
		return false
	}
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}

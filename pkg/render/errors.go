package render

import (
	"strings"

	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// ErrorMapping splits validation issues into field-level and form-level
// messages keyed by the dotted field paths used by the form templates.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// Empty reports whether the mapping carries no messages.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapIssues assigns each issue to the schema field it names. Issues without a
// field, or naming a path the schema does not declare, become form-level
// messages so nothing is lost.
func MapIssues(schema unit.Schema, issues []validation.Issue) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(issues) == 0 {
		mapping.Fields = nil
		return mapping
	}

	paths := make(map[string]struct{})
	for _, path := range schema.FieldPaths() {
		paths[path] = struct{}{}
	}

	for _, issue := range issues {
		path := normalizePath(issue.Field)
		if _, ok := paths[path]; !ok || path == "" {
			mapping.Form = append(mapping.Form, issue.Message)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], issue.Message)
	}

	for path, messages := range mapping.Fields {
		mapping.Fields[path] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// normalizePath accepts "badge.image", "badge[image]" and "/badge/image".
func normalizePath(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "#")
	clean = strings.Trim(clean, "/.")
	replacer := strings.NewReplacer("[", ".", "]", "", "/", ".")
	clean = replacer.Replace(clean)
	return strings.Trim(clean, ".")
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

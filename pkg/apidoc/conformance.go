package apidoc

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-twennie/pkg/unit"
)

// SchemaIssue is a request body violation reported by the OpenAPI schema.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult is the outcome of CheckSubmission.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// CheckSubmission validates body against the request schema published for
// schema. It answers what an API client validating against the OpenAPI
// document would see, which may be looser than the rule engine (consent and
// pairing rules have no JSON Schema form).
func CheckSubmission(schema unit.Schema, body map[string]any) SchemaValidationResult {
	result := SchemaValidationResult{Valid: true}

	value, err := jsonValue(body)
	if err != nil {
		result.Valid = false
		result.Issues = []SchemaIssue{{Message: err.Error()}}
		return result
	}

	err = SchemaFor(schema).VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return result
	}

	result.Valid = false
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			result.Issues = append(result.Issues, issueFromError(item))
		}
		return result
	}
	result.Issues = []SchemaIssue{issueFromError(err)}
	return result
}

// jsonValue round-trips body through encoding/json so typed slices and maps
// become the []any and map[string]any shapes VisitJSON accepts.
func jsonValue(body map[string]any) (any, error) {
	if body == nil {
		body = map[string]any{}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func issueFromError(err error) SchemaIssue {
	if err == nil {
		return SchemaIssue{Message: "unknown error"}
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		issue := SchemaIssue{
			Field:   fieldPath(pointer),
			Message: strings.TrimSpace(schemaErr.Reason),
		}
		if len(pointer) > 0 {
			issue.Path = "/" + strings.Join(escapePointer(pointer), "/")
		}
		return issue
	}
	return SchemaIssue{Message: strings.TrimSpace(err.Error())}
}

// fieldPath joins pointer segments with dots and drops array indexes, so
// "/badge/name" becomes badge.name and "/characteristics/0" characteristics.
func fieldPath(pointer []string) string {
	out := make([]string, 0, len(pointer))
	for _, segment := range pointer {
		if segment == "" || isNumeric(segment) {
			continue
		}
		out = append(out, segment)
	}
	return strings.Join(out, ".")
}

func escapePointer(pointer []string) []string {
	out := make([]string, len(pointer))
	for i, segment := range pointer {
		segment = strings.ReplaceAll(segment, "~", "~0")
		out[i] = strings.ReplaceAll(segment, "/", "~1")
	}
	return out
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

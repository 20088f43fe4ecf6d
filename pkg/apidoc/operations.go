package apidoc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation summarises one operation of a serialised document.
type Operation struct {
	ID         string   `json:"id"`
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Summary    string   `json:"summary,omitempty"`
	Required   []string `json:"required,omitempty"`
	Properties []string `json:"properties,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
}

// Operations loads data with kin-openapi, validates it and returns its
// operations keyed by operationId.
func Operations(ctx context.Context, data []byte) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("apidoc: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("apidoc: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apidoc: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("apidoc: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			collect(operations, method, path, operation)
		}
	}
	return operations, nil
}

func collect(target map[string]Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op := Operation{
		ID:      id,
		Method:  strings.ToUpper(method),
		Path:    path,
		Summary: operation.Summary,
	}

	if body := requestSchema(operation.RequestBody); body != nil {
		op.Required = append([]string(nil), body.Required...)
		for name := range body.Properties {
			op.Properties = append(op.Properties, name)
		}
		sort.Strings(op.Properties)
	}
	if operation.Responses != nil {
		for status := range operation.Responses.Map() {
			op.Statuses = append(op.Statuses, status)
		}
		sort.Strings(op.Statuses)
	}
	target[id] = op
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	media := ref.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

// StatusText is a helper for rendering operation statuses in listings.
func StatusText(code string) string {
	var n int
	if _, err := fmt.Sscanf(code, "%d", &n); err != nil {
		return code
	}
	return code + " " + http.StatusText(n)
}

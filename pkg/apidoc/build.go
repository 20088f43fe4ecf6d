package apidoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-twennie/pkg/unit"
)

// Version of the generated API description.
const Version = "1.0.0"

// BasePath prefixes every unit submission path.
const BasePath = "/units"

// Build generates and validates the OpenAPI document for catalog.
func Build(ctx context.Context, catalog *unit.Catalog) (*openapi3.T, error) {
	if catalog == nil {
		return nil, errors.New("apidoc: catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Twennie units API",
			Description: "Submit learning units. Invalid submissions return every validation error at once.",
			Version:     Version,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, schema := range catalog.Schemas() {
		doc.AddOperation(BasePath+"/"+schema.Kind, http.MethodPost, operationFor(schema))
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: validate document: %w", err)
	}
	return doc, nil
}

// JSON builds the document and returns it indented.
func JSON(ctx context.Context, catalog *unit.Catalog) ([]byte, error) {
	doc, err := Build(ctx, catalog)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("apidoc: marshal document: %w", err)
	}
	return data, nil
}

// OperationID returns the operationId used for a schema, e.g. createPromptSet.
func OperationID(schema unit.Schema) string {
	words := strings.FieldsFunc(schema.Title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		words = []string{schema.Kind}
	}
	var b strings.Builder
	b.WriteString("create")
	for _, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func operationFor(schema unit.Schema) *openapi3.Operation {
	body := SchemaFor(schema)

	requestBody := openapi3.NewRequestBody().
		WithDescription(schema.Title + " submission").
		WithRequired(true).
		WithJSONSchema(body)
	requestBody.Content["application/x-www-form-urlencoded"] = openapi3.NewMediaType().WithSchema(body)

	created := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema().WithFormat("uuid")).
		WithProperty("redirect", openapi3.NewStringSchema())
	created.Required = []string{"id", "redirect"}

	return &openapi3.Operation{
		OperationID: OperationID(schema),
		Summary:     "Create " + strings.ToLower(schema.Title),
		Description: schema.Description,
		Tags:        []string{"units"},
		RequestBody: &openapi3.RequestBodyRef{Value: requestBody},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusCreated, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Unit accepted").
					WithJSONSchema(created),
			}),
			openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Malformed request body"),
			}),
			openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Validation failed").
					WithJSONSchema(validationErrorsSchema()),
			}),
		),
	}
}

func validationErrorsSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	fields := openapi3.NewObjectSchema()
	fields.AdditionalProperties = openapi3.AdditionalProperties{
		Schema: openapi3.NewSchemaRef("", messages),
	}
	out := openapi3.NewObjectSchema().
		WithProperty("errors", messages).
		WithProperty("fields", fields).
		WithProperty("form", messages)
	out.Required = []string{"errors"}
	return out
}

// SchemaFor converts a unit schema into the JSON Schema of its request body.
func SchemaFor(schema unit.Schema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Title = schema.Title
	out.Description = schema.Description

	for _, field := range schema.Fields {
		out.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			out.Required = append(out.Required, field.Name)
		}
	}
	return out
}

func fieldSchema(field unit.Field) *openapi3.Schema {
	var out *openapi3.Schema

	switch {
	case field.HasRule(unit.ValidationRuleCheckbox):
		out = openapi3.NewBoolSchema()
	case field.HasRule(unit.ValidationRuleArray) || field.Type == unit.FieldTypeArray:
		out = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	case len(field.Nested) > 0 || field.Type == unit.FieldTypeObject:
		out = openapi3.NewObjectSchema()
		for _, nested := range field.Nested {
			out.WithProperty(nested.Name, fieldSchema(nested))
		}
	default:
		out = openapi3.NewStringSchema()
		if field.Type == unit.FieldTypeURL {
			out.WithFormat("uri")
		}
	}

	out.Title = field.DisplayLabel()
	out.Description = field.Description

	for _, rule := range field.Validations {
		switch rule.Kind {
		case unit.ValidationRuleMinLength:
			out.WithMinLength(int64(rule.Value))
		case unit.ValidationRuleMaxLength:
			out.WithMaxLength(int64(rule.Value))
		case unit.ValidationRuleEnum:
			values := make([]any, 0, len(rule.Allowed))
			for _, allowed := range rule.Allowed {
				values = append(values, allowed)
			}
			out.WithEnum(values...)
		case unit.ValidationRuleRequired:
			if out.Type.Is(openapi3.TypeString) && out.MinLength == 0 {
				out.WithMinLength(1)
			}
		}
	}
	return out
}

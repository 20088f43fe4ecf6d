package site

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-twennie/pkg/render"
	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// formField is the template-facing description of one input. Values and
// errors are resolved up front because templates cannot index maps by a
// computed key.
type formField struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	Label       string      `json:"label"`
	Control     string      `json:"control"`
	Required    bool        `json:"required"`
	Description string      `json:"description,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	MinLength   int         `json:"min_length,omitempty"`
	MaxLength   int         `json:"max_length,omitempty"`
	Options     []string    `json:"options,omitempty"`
	Value       string      `json:"value"`
	Values      []string    `json:"values,omitempty"`
	Checked     bool        `json:"checked"`
	Errors      []string    `json:"errors,omitempty"`
	Children    []formField `json:"children,omitempty"`
}

// formFields describes schema for the form template, pre-filled with sub and
// annotated with errs.
func formFields(schema unit.Schema, sub validation.Submission, errs render.ErrorMapping) []formField {
	out := make([]formField, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		out = append(out, describeField(field, field.Name, field.Name, sub, errs))
	}
	return out
}

func describeField(field unit.Field, path, inputName string, sub validation.Submission, errs render.ErrorMapping) formField {
	ff := formField{
		Name:        inputName,
		Path:        path,
		Label:       field.DisplayLabel(),
		Required:    field.Required,
		Description: field.Description,
		Placeholder: field.Placeholder,
		Errors:      errs.Fields[path],
	}
	if rule, ok := field.Rule(unit.ValidationRuleMinLength); ok {
		ff.MinLength = rule.Value
	}
	if rule, ok := field.Rule(unit.ValidationRuleMaxLength); ok {
		ff.MaxLength = rule.Value
	}

	switch {
	case field.HasRule(unit.ValidationRuleCheckbox):
		ff.Control = "checkbox"
		ff.Checked = checked(sub[field.Name])
	case field.HasRule(unit.ValidationRuleEnum):
		ff.Control = "select"
		rule, _ := field.Rule(unit.ValidationRuleEnum)
		ff.Options = rule.Allowed
		ff.Value = sub.Text(field.Name)
	case field.Type == unit.FieldTypeArray:
		ff.Control = "list"
		ff.Values = sub.Strings(field.Name)
		ff.Name = inputName + "[]"
	case len(field.Nested) > 0:
		ff.Control = "group"
		nested, _ := sub.Object(field.Name)
		for _, child := range field.Nested {
			childPath := path + "." + child.Name
			childName := fmt.Sprintf("%s[%s]", inputName, child.Name)
			ff.Children = append(ff.Children, describeField(child, childPath, childName, validation.Submission(nested), errs))
		}
	case field.Type == unit.FieldTypeMarkdown || field.Type == unit.FieldTypeText:
		ff.Control = "textarea"
		ff.Value = sub.Text(field.Name)
	case field.Type == unit.FieldTypeURL:
		ff.Control = "url"
		ff.Value = sub.Text(field.Name)
	default:
		ff.Control = "text"
		ff.Value = sub.Text(field.Name)
	}
	return ff
}

func checked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, unit.CheckboxMarker) || strings.EqualFold(v, "true")
	}
	return false
}

// detailField is one row of the unit detail page.
type detailField struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Markdown bool   `json:"markdown"`
}

func detailFields(schema unit.Schema, fields validation.Submission) []detailField {
	var out []detailField
	for _, field := range schema.Fields {
		switch {
		case field.HasRule(unit.ValidationRuleCheckbox):
			answer := "No"
			if fields.Bool(field.Name) {
				answer = "Yes"
			}
			out = append(out, detailField{Label: field.DisplayLabel(), Value: answer})
		case field.Type == unit.FieldTypeArray:
			if values := fields.Strings(field.Name); len(values) > 0 {
				out = append(out, detailField{Label: field.DisplayLabel(), Value: strings.Join(values, ", ")})
			}
		case len(field.Nested) > 0:
			nested, _ := fields.Object(field.Name)
			for _, child := range field.Nested {
				if text := validation.Submission(nested).Text(child.Name); text != "" {
					out = append(out, detailField{Label: child.DisplayLabel(), Value: text})
				}
			}
		default:
			text := fields.Text(field.Name)
			if text == "" {
				continue
			}
			out = append(out, detailField{
				Label:    field.DisplayLabel(),
				Value:    text,
				Markdown: field.Type == unit.FieldTypeMarkdown,
			})
		}
	}
	return out
}

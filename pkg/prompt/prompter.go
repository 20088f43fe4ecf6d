// Package prompt collects a content unit submission in the terminal, asking
// one question per schema field and re-asking until the answer satisfies the
// field's own rules.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// Option configures a Prompter.
type Option func(*Prompter)

// WithDriver overrides the terminal driver.
func WithDriver(driver Driver) Option {
	return func(p *Prompter) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// WithSuggestions offers tags as a multi-select for list fields. Without
// suggestions list fields take a comma separated answer.
func WithSuggestions(tags []string) Option {
	return func(p *Prompter) {
		p.suggestions = append([]string(nil), tags...)
	}
}

// WithMaxAttempts bounds how often an invalid answer is re-asked.
func WithMaxAttempts(n int) Option {
	return func(p *Prompter) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// Prompter walks a schema and asks for every field.
type Prompter struct {
	driver      Driver
	suggestions []string
	maxAttempts int
}

// New builds a Prompter using the survey driver unless overridden.
func New(opts ...Option) (*Prompter, error) {
	p := &Prompter{
		driver:      SurveyDriver(),
		maxAttempts: 5,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.driver == nil {
		return nil, ErrNoDriver
	}
	return p, nil
}

// Collect asks for each field of schema and returns the answers as a
// submission. Checkboxes come back as booleans.
func (p *Prompter) Collect(ctx context.Context, schema unit.Schema) (validation.Submission, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if err := p.driver.Info(ctx, fmt.Sprintf("New %s: %s", strings.ToLower(schema.Title), schema.Description)); err != nil {
		return nil, err
	}

	sub := validation.Submission{}
	for _, field := range schema.Fields {
		value, skip, err := p.ask(ctx, field)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", field.Name, err)
		}
		if !skip {
			sub[field.Name] = value
		}
	}
	return sub, nil
}

func (p *Prompter) ask(ctx context.Context, field unit.Field) (any, bool, error) {
	label := field.DisplayLabel()

	if rule, ok := field.Rule(unit.ValidationRuleEnum); ok {
		idx, err := p.driver.Select(ctx, SelectConfig{
			Message: label,
			Options: rule.Allowed,
			Help:    field.Description,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(rule.Allowed) {
			return nil, false, fmt.Errorf("selection %d out of range", idx)
		}
		return rule.Allowed[idx], false, nil
	}

	switch field.Type {
	case unit.FieldTypeBoolean:
		help := field.Description
		if field.HasRule(unit.ValidationRuleConsent) {
			help = "Required before the unit can be published."
		}
		checked, err := p.driver.Confirm(ctx, ConfirmConfig{Message: label, Help: help})
		return checked, false, err

	case unit.FieldTypeArray:
		values, err := p.askList(ctx, field)
		if err != nil || len(values) == 0 {
			return nil, true, err
		}
		return values, false, nil

	case unit.FieldTypeObject:
		return p.askObject(ctx, field)

	default:
		text, err := p.askText(ctx, field)
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(text) == "" && !field.Required {
			return nil, true, nil
		}
		return text, false, nil
	}
}

// askText re-asks until the answer passes the field's rules.
func (p *Prompter) askText(ctx context.Context, field unit.Field) (string, error) {
	validate := func(answer string) error {
		if msg := FieldIssue(field, answer); msg != "" {
			return errors.New(msg)
		}
		return nil
	}

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		var (
			answer string
			err    error
		)
		if field.Type == unit.FieldTypeMarkdown || field.Type == unit.FieldTypeText {
			answer, err = p.driver.TextArea(ctx, TextAreaConfig{Message: field.DisplayLabel(), Help: lengthHelp(field)})
		} else {
			answer, err = p.driver.Input(ctx, InputConfig{
				Message:   field.DisplayLabel(),
				Help:      lengthHelp(field),
				Validator: validate,
			})
		}
		if err != nil {
			return "", err
		}
		if err := validate(answer); err != nil {
			if infoErr := p.driver.Info(ctx, err.Error()); infoErr != nil {
				return "", infoErr
			}
			continue
		}
		return answer, nil
	}
	return "", fmt.Errorf("no valid answer after %d attempts", p.maxAttempts)
}

func (p *Prompter) askList(ctx context.Context, field unit.Field) ([]string, error) {
	if len(p.suggestions) > 0 {
		picked, err := p.driver.MultiSelect(ctx, SelectConfig{
			Message:  field.DisplayLabel(),
			Options:  p.suggestions,
			PageSize: 12,
		})
		if err != nil {
			return nil, err
		}
		return defaultsFromIndices(p.suggestions, picked), nil
	}

	answer, err := p.driver.Input(ctx, InputConfig{
		Message: field.DisplayLabel(),
		Help:    "Comma separated.",
	})
	if err != nil {
		return nil, err
	}
	var out []string
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// askObject asks whether to fill the group at all, then asks every member as
// required so paired members are always provided together.
func (p *Prompter) askObject(ctx context.Context, field unit.Field) (any, bool, error) {
	add, err := p.driver.Confirm(ctx, ConfirmConfig{Message: "Add " + strings.ToLower(field.DisplayLabel()) + "?"})
	if err != nil || !add {
		return nil, true, err
	}

	obj := make(map[string]any, len(field.Nested))
	for _, member := range field.Nested {
		member.Required = true
		member.Validations = append([]unit.ValidationRule{{Kind: unit.ValidationRuleRequired}}, member.Validations...)
		text, err := p.askText(ctx, member)
		if err != nil {
			return nil, false, err
		}
		obj[member.Name] = text
	}
	return obj, false, nil
}

// FieldIssue returns the first validation message for answer against the
// rules of field alone, or "" when the answer is acceptable.
func FieldIssue(field unit.Field, answer string) string {
	single := unit.Schema{Fields: []unit.Field{field}}
	result := validation.Check(single, validation.Submission{field.Name: answer})
	if result.Valid || len(result.Issues) == 0 {
		return ""
	}
	return result.Issues[0].Message
}

func lengthHelp(field unit.Field) string {
	var parts []string
	if rule, ok := field.Rule(unit.ValidationRuleMinLength); ok {
		parts = append(parts, fmt.Sprintf("at least %d characters", rule.Value))
	}
	if rule, ok := field.Rule(unit.ValidationRuleMaxLength); ok {
		parts = append(parts, fmt.Sprintf("at most %d characters", rule.Value))
	}
	if len(parts) == 0 {
		return field.Description
	}
	return strings.ToUpper(parts[0][:1]) + strings.Join(parts, ", ")[1:] + "."
}

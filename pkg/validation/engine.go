package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-twennie/pkg/unit"
)

// Engine validates submissions against the schemas of a catalog.
type Engine struct {
	catalog *unit.Catalog
}

// NewEngine constructs an Engine. A nil catalog selects unit.DefaultCatalog.
func NewEngine(catalog *unit.Catalog) *Engine {
	if catalog == nil {
		catalog = unit.DefaultCatalog()
	}
	return &Engine{catalog: catalog}
}

// Catalog exposes the schemas the engine validates against.
func (e *Engine) Catalog() *unit.Catalog {
	return e.catalog
}

// Validate coerces and checks sub against the schema registered for kind. It
// returns the normalised submission alongside the result; sub itself is left
// untouched. Unknown kinds yield a single unknown_content_type issue.
func (e *Engine) Validate(kind string, sub Submission) (Submission, Result) {
	schema, err := e.catalog.Get(kind)
	if err != nil {
		return sub.Clone(), Result{Issues: []Issue{unknownContentType(kind)}}
	}
	normalized := Coerce(schema, sub)
	return normalized, Check(schema, normalized)
}

// Messages is a convenience wrapper returning only the ordered error strings.
func (e *Engine) Messages(kind string, sub Submission) []string {
	_, result := e.Validate(kind, sub)
	return result.Messages()
}

// Coerce returns a copy of sub with every checkbox field of schema converted
// to a boolean. The browser marker "on" becomes true; a value that is already
// a bool is kept; anything else, including absence, becomes false.
func Coerce(schema unit.Schema, sub Submission) Submission {
	out := sub.Clone()
	for _, field := range schema.Fields {
		if !field.HasRule(unit.ValidationRuleCheckbox) {
			continue
		}
		out[field.Name] = coerceCheckbox(out[field.Name])
	}
	return out
}

func coerceCheckbox(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == unit.CheckboxMarker
	default:
		return false
	}
}

// Check runs every rule of schema against an already coerced submission and
// collects all violations in field declaration order.
func Check(schema unit.Schema, sub Submission) Result {
	var c collector
	for _, field := range schema.Fields {
		checkField(&c, field, sub)
	}
	return c.result()
}

func checkField(c *collector, field unit.Field, sub Submission) {
	label := field.DisplayLabel()
	value, present := sub[field.Name]
	if expectsText(field) && present && value != nil && !isScalar(value) {
		c.add(typeMismatch(field.Name, label, "text"))
		return
	}

	text, _ := textValue(value)
	trimmed := strings.TrimSpace(text)
	blank := !present || trimmed == ""

	for _, rule := range field.Validations {
		switch rule.Kind {
		case unit.ValidationRuleRequired:
			if blank {
				c.add(missingField(field.Name, label))
			}
		case unit.ValidationRuleMinLength:
			if !blank && utf8.RuneCountInString(trimmed) < rule.Value {
				c.add(lengthBelowMinimum(field.Name, label, rule.Value))
			}
		case unit.ValidationRuleMaxLength:
			if !blank && utf8.RuneCountInString(trimmed) > rule.Value {
				c.add(lengthAboveMaximum(field.Name, label, rule.Value))
			}
		case unit.ValidationRuleEnum:
			if _, isText := value.(string); !isText || !contains(rule.Allowed, trimmed) {
				c.add(invalidEnumValue(field.Name, label, rule.Allowed))
			}
		case unit.ValidationRulePairing:
			checkPairing(c, field, rule, value, present)
		case unit.ValidationRuleArray:
			if present && value != nil && !isList(value) {
				c.add(typeMismatch(field.Name, label, "a list"))
			}
		case unit.ValidationRuleConsent:
			if granted, ok := value.(bool); !ok || !granted {
				c.add(consentNotGranted(field.Name))
			}
		}
	}
}

func checkPairing(c *collector, field unit.Field, rule unit.ValidationRule, value any, present bool) {
	if !present || value == nil {
		return
	}
	obj, ok := objectValue(value)
	if !ok {
		c.add(typeMismatch(field.Name, field.DisplayLabel(), "an object"))
		return
	}

	for _, member := range rule.Members {
		if item, ok := obj[member]; ok && item != nil && !isScalar(item) {
			c.add(typeMismatch(field.Name+"."+member, memberLabel(field, member), "text"))
			return
		}
	}

	filled := 0
	labels := make([]string, 0, len(rule.Members))
	for _, member := range rule.Members {
		text, _ := textValue(obj[member])
		if strings.TrimSpace(text) != "" {
			filled++
		}
		labels = append(labels, memberLabel(field, member))
	}
	if filled != 0 && filled != len(rule.Members) {
		c.add(pairingViolation(field.Name, labels))
	}
}

// expectsText reports whether field holds a single textual value, as opposed
// to a list, a sub-object or a checkbox.
func expectsText(field unit.Field) bool {
	switch field.Type {
	case unit.FieldTypeArray, unit.FieldTypeObject, unit.FieldTypeBoolean:
		return false
	}
	return !field.HasRule(unit.ValidationRuleArray) &&
		!field.HasRule(unit.ValidationRulePairing) &&
		!field.HasRule(unit.ValidationRuleCheckbox)
}

func memberLabel(field unit.Field, member string) string {
	for _, nested := range field.Nested {
		if nested.Name == member {
			return nested.DisplayLabel()
		}
	}
	return field.DisplayLabel() + " " + member
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

var defaultEngine = NewEngine(nil)

// Validate checks sub against the built-in catalog.
func Validate(kind string, sub Submission) (Submission, Result) {
	return defaultEngine.Validate(kind, sub)
}

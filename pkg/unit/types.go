package unit

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeText     FieldType = "text"
	FieldTypeURL      FieldType = "url"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeArray    FieldType = "array"
	FieldTypeObject   FieldType = "object"
	FieldTypeMarkdown FieldType = "markdown"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRuleEnum      = "enum"
	ValidationRulePairing   = "pairing"
	ValidationRuleArray     = "array"
	ValidationRuleCheckbox  = "checkbox"
	ValidationRuleConsent   = "consent"
)

// CheckboxMarker is the literal value browsers submit for a checked checkbox
// without an explicit value attribute.
const CheckboxMarker = "on"

// ValidationRule represents a single constraint applied to a field. Length
// rules encode their threshold in Value; enum rules list their allowed values
// in Allowed; pairing rules name the nested members that must agree.
type ValidationRule struct {
	Kind    string   `json:"kind"`
	Value   int      `json:"value,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
	Members []string `json:"members,omitempty"`
}

// Field models an individual input of a content type form.
type Field struct {
	Name        string           `json:"name"`
	Type        FieldType        `json:"type"`
	Label       string           `json:"label,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Description string           `json:"description,omitempty"`
	Required    bool             `json:"required"`
	Nested      []Field          `json:"nested,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// HasRule reports whether the field declares a rule of the given kind.
func (f Field) HasRule(kind string) bool {
	_, ok := f.Rule(kind)
	return ok
}

// DisplayLabel returns the explicit label or one derived from the name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return DefaultLabeler(f.Name)
}

// Schema is the full description of one content type.
type Schema struct {
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field looks up a top-level field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldPaths returns the dotted paths of every field and nested member, in
// declaration order.
func (s Schema) FieldPaths() []string {
	var paths []string
	for _, field := range s.Fields {
		paths = append(paths, field.Name)
		for _, nested := range field.Nested {
			paths = append(paths, field.Name+"."+nested.Name)
		}
	}
	return paths
}

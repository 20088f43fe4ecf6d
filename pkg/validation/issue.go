package validation

import (
	"fmt"
	"strings"
)

// IssueKind classifies a validation failure.
type IssueKind string

const (
	IssueMissingField       IssueKind = "missing_field"
	IssueLengthBelowMinimum IssueKind = "length_below_minimum"
	IssueLengthAboveMaximum IssueKind = "length_above_maximum"
	IssueInvalidEnumValue   IssueKind = "invalid_enum_value"
	IssuePairingViolation   IssueKind = "pairing_violation"
	IssueTypeMismatch       IssueKind = "type_mismatch"
	IssueConsentNotGranted  IssueKind = "consent_not_granted"
	IssueUnknownContentType IssueKind = "unknown_content_type"
)

// Issue represents a single violated constraint. Message is a complete
// sentence suitable for direct display.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Limit   int       `json:"limit,omitempty"`
	Allowed []string  `json:"allowed,omitempty"`
}

func (i Issue) Error() string {
	return i.Message
}

// Result captures the outcome of validating one submission.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Messages returns the ordered list of human-readable errors. An empty slice
// means the submission is acceptable.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.Message)
	}
	return out
}

// Has reports whether the result contains an issue of kind for field.
func (r Result) Has(kind IssueKind, field string) bool {
	for _, issue := range r.Issues {
		if issue.Kind == kind && issue.Field == field {
			return true
		}
	}
	return false
}

type collector struct {
	issues []Issue
}

func (c *collector) add(issue Issue) {
	c.issues = append(c.issues, issue)
}

func (c *collector) result() Result {
	return Result{
		Valid:  len(c.issues) == 0,
		Issues: c.issues,
	}
}

func missingField(field, label string) Issue {
	return Issue{
		Kind:    IssueMissingField,
		Field:   field,
		Message: fmt.Sprintf("%s is required.", label),
	}
}

func lengthBelowMinimum(field, label string, limit int) Issue {
	return Issue{
		Kind:    IssueLengthBelowMinimum,
		Field:   field,
		Limit:   limit,
		Message: fmt.Sprintf("%s must be at least %d characters.", label, limit),
	}
}

func lengthAboveMaximum(field, label string, limit int) Issue {
	return Issue{
		Kind:    IssueLengthAboveMaximum,
		Field:   field,
		Limit:   limit,
		Message: fmt.Sprintf("%s must not exceed %d characters.", label, limit),
	}
}

func invalidEnumValue(field, label string, allowed []string) Issue {
	return Issue{
		Kind:    IssueInvalidEnumValue,
		Field:   field,
		Allowed: append([]string(nil), allowed...),
		Message: fmt.Sprintf("%s must be one of: %s.", label, strings.Join(allowed, ", ")),
	}
}

func pairingViolation(field string, labels []string) Issue {
	return Issue{
		Kind:    IssuePairingViolation,
		Field:   field,
		Message: fmt.Sprintf("%s must both be provided or both be left empty.", joinLabels(labels)),
	}
}

func typeMismatch(field, label, want string) Issue {
	return Issue{
		Kind:    IssueTypeMismatch,
		Field:   field,
		Message: fmt.Sprintf("%s must be %s.", label, want),
	}
}

func consentNotGranted(field string) Issue {
	return Issue{
		Kind:    IssueConsentNotGranted,
		Field:   field,
		Message: "You must grant permission to publish this exercise.",
	}
}

func unknownContentType(kind string) Issue {
	return Issue{
		Kind:    IssueUnknownContentType,
		Message: fmt.Sprintf("Unknown content type %q.", kind),
	}
}

// joinLabels renders "Badge image and name" from {"Badge image", "Badge name"}
// by dropping the shared leading word from later labels.
func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return "Values"
	case 1:
		return labels[0]
	}
	first := labels[0]
	prefix := ""
	if idx := strings.Index(first, " "); idx > 0 {
		prefix = first[:idx+1]
	}
	rest := make([]string, 0, len(labels)-1)
	for _, label := range labels[1:] {
		if prefix != "" && strings.HasPrefix(label, prefix) {
			label = strings.ToLower(strings.TrimPrefix(label, prefix))
		}
		rest = append(rest, label)
	}
	return first + " and " + strings.Join(rest, " and ")
}

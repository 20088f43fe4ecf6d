package validation_test

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-twennie/pkg/testsupport"
	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

func validSubmission(kind string) validation.Submission {
	return testsupport.ValidSubmission(kind)
}

func TestValidate_FullyPopulatedSubmissionsAreValid(t *testing.T) {
	for _, kind := range unit.DefaultCatalog().List() {
		t.Run(kind, func(t *testing.T) {
			_, result := validation.Validate(kind, validSubmission(kind))
			if !result.Valid {
				t.Fatalf("expected valid submission, got %v", result.Messages())
			}
			if len(result.Messages()) != 0 {
				t.Fatalf("expected empty messages, got %v", result.Messages())
			}
		})
	}
}

func TestValidate_SingleMissingRequiredField(t *testing.T) {
	catalog := unit.DefaultCatalog()
	for _, schema := range catalog.Schemas() {
		for _, field := range schema.Fields {
			if !field.HasRule(unit.ValidationRuleRequired) {
				continue
			}
			for name, mutate := range map[string]func(validation.Submission){
				"omitted": func(s validation.Submission) { delete(s, field.Name) },
				"blank":   func(s validation.Submission) { s[field.Name] = " \t\n " },
			} {
				t.Run(schema.Kind+"/"+field.Name+"/"+name, func(t *testing.T) {
					sub := validSubmission(schema.Kind)
					mutate(sub)

					_, result := validation.Validate(schema.Kind, sub)
					if len(result.Issues) != 1 {
						t.Fatalf("expected exactly one issue, got %v", result.Messages())
					}
					issue := result.Issues[0]
					if issue.Kind != validation.IssueMissingField || issue.Field != field.Name {
						t.Fatalf("unexpected issue: %#v", issue)
					}
					if want := field.DisplayLabel() + " is required."; issue.Message != want {
						t.Fatalf("message mismatch: want %q, got %q", want, issue.Message)
					}
				})
			}
		}
	}
}

func TestValidate_ArticleContentBoundaries(t *testing.T) {
	cases := []struct {
		length int
		want   []validation.IssueKind
	}{
		{length: 4999, want: []validation.IssueKind{validation.IssueLengthBelowMinimum}},
		{length: 5000},
		{length: 8000},
		{length: 8001, want: []validation.IssueKind{validation.IssueLengthAboveMaximum}},
	}
	for _, tc := range cases {
		t.Run(strconv.Itoa(tc.length), func(t *testing.T) {
			sub := validSubmission(unit.KindArticle)
			sub["article_content"] = "  " + strings.Repeat("x", tc.length) + "\n"

			_, result := validation.Validate(unit.KindArticle, sub)
			if diff := cmp.Diff(tc.want, issueKinds(result)); diff != "" {
				t.Fatalf("issue kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}

	sub := validSubmission(unit.KindArticle)
	sub["article_content"] = strings.Repeat("x", 10)
	_, result := validation.Validate(unit.KindArticle, sub)
	if got := result.Messages(); len(got) != 1 || got[0] != "Article Content must be at least 5000 characters." {
		t.Fatalf("unexpected below-minimum message: %v", got)
	}

	sub["article_content"] = strings.Repeat("x", 9000)
	_, result = validation.Validate(unit.KindArticle, sub)
	if got := result.Messages(); len(got) != 1 || got[0] != "Article Content must not exceed 8000 characters." {
		t.Fatalf("unexpected above-maximum message: %v", got)
	}
}

func TestValidate_ArticleLengthCountsCharactersNotBytes(t *testing.T) {
	sub := validSubmission(unit.KindArticle)
	sub["article_content"] = strings.Repeat("é", 5000)

	_, result := validation.Validate(unit.KindArticle, sub)
	if !result.Valid {
		t.Fatalf("expected multi-byte content of 5000 characters to be valid, got %v", result.Messages())
	}
}

func TestValidate_MicroContentMinimum(t *testing.T) {
	cases := map[string]string{
		unit.KindMicroStudy:  "study_content",
		unit.KindMicroCourse: "course_content",
	}
	for kind, field := range cases {
		t.Run(kind, func(t *testing.T) {
			sub := validSubmission(kind)
			sub[field] = strings.Repeat("m", 299)
			_, result := validation.Validate(kind, sub)
			if diff := cmp.Diff([]validation.IssueKind{validation.IssueLengthBelowMinimum}, issueKinds(result)); diff != "" {
				t.Fatalf("299 characters (-want +got):\n%s", diff)
			}
			if result.Issues[0].Limit != 300 {
				t.Fatalf("expected limit 300, got %d", result.Issues[0].Limit)
			}

			sub[field] = strings.Repeat("m", 300)
			_, result = validation.Validate(kind, sub)
			if !result.Valid {
				t.Fatalf("300 characters should be valid, got %v", result.Messages())
			}
		})
	}
}

func TestValidate_SuggestedFrequency(t *testing.T) {
	sub := validSubmission(unit.KindPromptSet)
	sub["suggested_frequency"] = "yearly"

	_, result := validation.Validate(unit.KindPromptSet, sub)
	want := []string{"Suggested Frequency must be one of: daily, weekly, monthly, quarterly."}
	if diff := cmp.Diff(want, result.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	for _, frequency := range unit.SuggestedFrequencies {
		sub["suggested_frequency"] = frequency
		if _, result := validation.Validate(unit.KindPromptSet, sub); !result.Valid {
			t.Fatalf("%s: expected valid, got %v", frequency, result.Messages())
		}
	}

	delete(sub, "suggested_frequency")
	_, result = validation.Validate(unit.KindPromptSet, sub)
	if len(result.Issues) != 1 || result.Issues[0].Kind != validation.IssueInvalidEnumValue {
		t.Fatalf("expected absence to be a single enum error, got %#v", result.Issues)
	}
}

func TestValidate_EnumFieldsNameAllowedSet(t *testing.T) {
	sub := validSubmission(unit.KindTemplate)
	sub["file_format"] = "Keynote"

	_, result := validation.Validate(unit.KindTemplate, sub)
	if len(result.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", result.Messages())
	}
	if diff := cmp.Diff(unit.FileFormats, result.Issues[0].Allowed); diff != "" {
		t.Fatalf("allowed set mismatch (-want +got):\n%s", diff)
	}

	exercise := validSubmission(unit.KindExercise)
	exercise["target_audience"] = "everyone"
	_, result = validation.Validate(unit.KindExercise, exercise)
	want := []string{"Target Audience must be one of: individual, group, mixed."}
	if diff := cmp.Diff(want, result.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_BadgePairing(t *testing.T) {
	cases := []struct {
		name  string
		badge any
		want  int
	}{
		{name: "image only", badge: map[string]any{"image": "badge.png", "name": " "}, want: 1},
		{name: "name only", badge: map[string]string{"name": "Pioneer"}, want: 1},
		{name: "both", badge: map[string]any{"image": "badge.png", "name": "Pioneer"}, want: 0},
		{name: "neither", badge: map[string]any{"image": "", "name": ""}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission(unit.KindVideo)
			sub["badge"] = tc.badge
			_, result := validation.Validate(unit.KindVideo, sub)
			if len(result.Issues) != tc.want {
				t.Fatalf("expected %d issues, got %v", tc.want, result.Messages())
			}
			if tc.want == 1 {
				issue := result.Issues[0]
				if issue.Kind != validation.IssuePairingViolation {
					t.Fatalf("expected pairing violation, got %#v", issue)
				}
				if issue.Message != "Badge image and name must both be provided or both be left empty." {
					t.Fatalf("unexpected message %q", issue.Message)
				}
			}
		})
	}
}

func TestValidate_PromptSetMissingOnePrompt(t *testing.T) {
	sub := validSubmission(unit.KindPromptSet)
	delete(sub, "Prompt7")

	_, result := validation.Validate(unit.KindPromptSet, sub)
	want := []string{"Prompt 7 is required."}
	if diff := cmp.Diff(want, result.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_PromptSetReportsEveryPrompt(t *testing.T) {
	sub := validSubmission(unit.KindPromptSet)
	for idx := 1; idx <= unit.PromptCount; idx++ {
		key := "Prompt" + strconv.Itoa(idx)
		if idx%2 == 0 {
			sub[key] = strings.Repeat("p", unit.PromptMaxLength+1)
		} else {
			sub[key] = ""
		}
	}

	_, result := validation.Validate(unit.KindPromptSet, sub)
	if len(result.Issues) != unit.PromptCount {
		t.Fatalf("expected %d issues, got %d: %v", unit.PromptCount, len(result.Issues), result.Messages())
	}
	if result.Issues[0].Field != "Prompt1" || result.Issues[0].Kind != validation.IssueMissingField {
		t.Fatalf("unexpected first issue %#v", result.Issues[0])
	}
	if result.Issues[1].Field != "Prompt2" || result.Issues[1].Kind != validation.IssueLengthAboveMaximum {
		t.Fatalf("unexpected second issue %#v", result.Issues[1])
	}

	sub["Prompt2"] = strings.Repeat("p", unit.PromptMaxLength)
	_, result = validation.Validate(unit.KindPromptSet, sub)
	if result.Has(validation.IssueLengthAboveMaximum, "Prompt2") {
		t.Fatalf("1000 characters should be accepted")
	}
}

func TestValidate_ExercisePermission(t *testing.T) {
	sub := validSubmission(unit.KindExercise)
	delete(sub, "permission")

	normalized, result := validation.Validate(unit.KindExercise, sub)
	if diff := cmp.Diff([]validation.IssueKind{validation.IssueConsentNotGranted}, issueKinds(result)); diff != "" {
		t.Fatalf("issue kinds mismatch (-want +got):\n%s", diff)
	}
	if normalized["permission"] != false {
		t.Fatalf("expected permission coerced to false, got %#v", normalized["permission"])
	}

	sub["permission"] = "on"
	normalized, result = validation.Validate(unit.KindExercise, sub)
	if !result.Valid {
		t.Fatalf("expected valid exercise, got %v", result.Messages())
	}
	if normalized["permission"] != true {
		t.Fatalf("expected permission coerced to true, got %#v", normalized["permission"])
	}
}

func TestValidate_ExerciseConsentWithOtherFailures(t *testing.T) {
	sub := validSubmission(unit.KindExercise)
	sub["permission"] = "yes"
	sub["title"] = ""

	_, result := validation.Validate(unit.KindExercise, sub)
	want := []validation.IssueKind{validation.IssueMissingField, validation.IssueConsentNotGranted}
	if diff := cmp.Diff(want, issueKinds(result)); diff != "" {
		t.Fatalf("issue kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_CoercionDoesNotMutateInput(t *testing.T) {
	sub := validSubmission(unit.KindExercise)
	before := sub.Clone()

	normalized, _ := validation.Validate(unit.KindExercise, sub)
	if diff := cmp.Diff(before, sub); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}

	want := map[string]bool{
		"requires_facilitator":   false,
		"requires_materials":     true,
		"suitable_for_remote":    false,
		"suitable_for_in_person": false,
		"time_limited":           false,
		"permission":             true,
	}
	for name, value := range want {
		got, ok := normalized[name].(bool)
		if !ok {
			t.Fatalf("%s: expected coerced bool, got %#v", name, normalized[name])
		}
		if got != value {
			t.Fatalf("%s: want %v, got %v", name, value, got)
		}
	}
}

func TestCoerce_IsIdempotent(t *testing.T) {
	schema, err := unit.DefaultCatalog().Get(unit.KindExercise)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	once := validation.Coerce(schema, validSubmission(unit.KindExercise))
	twice := validation.Coerce(schema, once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("coerce not idempotent (-once +twice):\n%s", diff)
	}
}

func TestValidate_CharacteristicsShape(t *testing.T) {
	sub := validSubmission(unit.KindInterview)
	sub["characteristics"] = []string{"reflective", "practical"}
	if _, result := validation.Validate(unit.KindInterview, sub); !result.Valid {
		t.Fatalf("expected list to be valid, got %v", result.Messages())
	}

	sub["characteristics"] = []any{"reflective"}
	if _, result := validation.Validate(unit.KindInterview, sub); !result.Valid {
		t.Fatalf("expected []any to be valid, got %v", result.Messages())
	}

	sub["characteristics"] = "reflective"
	_, result := validation.Validate(unit.KindInterview, sub)
	want := []string{"Characteristics must be a list."}
	if diff := cmp.Diff(want, result.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_BatchReportsEveryViolationInOrder(t *testing.T) {
	sub := validation.Submission{
		"full_summary":        "present",
		"suggested_frequency": "hourly",
		"badge":               map[string]any{"image": "x.png"},
		"characteristics":     "single",
	}
	for idx := 1; idx <= unit.PromptCount; idx++ {
		sub["Prompt"+strconv.Itoa(idx)] = "ok"
	}

	_, result := validation.Validate(unit.KindPromptSet, sub)
	want := []string{
		"Title is required.",
		"Main Topic is required.",
		"Short Summary is required.",
		"Suggested Frequency must be one of: daily, weekly, monthly, quarterly.",
		"Target Audience must be one of: individual, group, mixed.",
		"Badge image and name must both be provided or both be left empty.",
		"Characteristics must be a list.",
	}
	if diff := cmp.Diff(want, result.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_UnknownContentType(t *testing.T) {
	_, result := validation.Validate("podcast", testsupport.BaseSubmission())
	if result.Valid {
		t.Fatalf("expected unknown content type to be invalid")
	}
	if diff := cmp.Diff([]string{`Unknown content type "podcast".`}, result.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func issueKinds(result validation.Result) []validation.IssueKind {
	var kinds []validation.IssueKind
	for _, issue := range result.Issues {
		kinds = append(kinds, issue.Kind)
	}
	return kinds
}

func TestValidate_ListValuesInTextFields(t *testing.T) {
	cases := []struct {
		name  string
		kind  string
		field string
		value any
	}{
		{name: "prompt", kind: unit.KindPromptSet, field: "Prompt3", value: []any{"short", strings.Repeat("p", 50000)}},
		{name: "enum", kind: unit.KindPromptSet, field: "suggested_frequency", value: []any{"daily", "yearly"}},
		{name: "article", kind: unit.KindArticle, field: "article_content", value: []string{strings.Repeat("x", 5000), strings.Repeat("y", 100000)}},
		{name: "title", kind: unit.KindVideo, field: "title", value: map[string]any{"text": "nested"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission(tc.kind)
			sub[tc.field] = tc.value

			_, result := validation.Validate(tc.kind, sub)
			if len(result.Issues) != 1 {
				t.Fatalf("expected one issue, got %v", result.Messages())
			}
			issue := result.Issues[0]
			if issue.Kind != validation.IssueTypeMismatch || issue.Field != tc.field {
				t.Fatalf("unexpected issue: %#v", issue)
			}
			if !strings.HasSuffix(issue.Message, " must be text.") {
				t.Fatalf("unexpected message %q", issue.Message)
			}
		})
	}
}

func TestValidate_EnumRequiresText(t *testing.T) {
	sub := validSubmission(unit.KindPromptSet)
	sub["target_audience"] = true

	_, result := validation.Validate(unit.KindPromptSet, sub)
	if len(result.Issues) != 1 || !result.Has(validation.IssueInvalidEnumValue, "target_audience") {
		t.Fatalf("expected a single enum issue, got %#v", result.Issues)
	}
}

func TestValidate_BadgeMemberMustBeText(t *testing.T) {
	sub := validSubmission(unit.KindVideo)
	sub["badge"] = map[string]any{"image": []any{"a.png", "b.png"}, "name": "Pioneer"}

	_, result := validation.Validate(unit.KindVideo, sub)
	if len(result.Issues) != 1 || !result.Has(validation.IssueTypeMismatch, "badge.image") {
		t.Fatalf("expected badge.image type mismatch, got %#v", result.Issues)
	}
}

func TestValidate_RepeatedFormKeyForScalarField(t *testing.T) {
	values := url.Values{}
	for key, value := range validSubmission(unit.KindPromptSet) {
		if text, ok := value.(string); ok {
			values.Set(key, text)
		}
	}
	values["suggested_frequency"] = []string{"daily", "yearly"}

	_, result := validation.Validate(unit.KindPromptSet, validation.DecodeForm(values))
	if len(result.Issues) != 1 || !result.Has(validation.IssueTypeMismatch, "suggested_frequency") {
		t.Fatalf("expected suggested_frequency type mismatch, got %#v", result.Issues)
	}
}

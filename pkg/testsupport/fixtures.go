package testsupport

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// BaseSubmission returns the fields every content type requires, populated.
func BaseSubmission() validation.Submission {
	return validation.Submission{
		"title":         "Working agreements",
		"main_topic":    "Team health",
		"short_summary": "How teams agree on ways of working.",
		"full_summary":  "A longer description of **working agreements**.",
	}
}

// ValidSubmission returns a fully populated, in-range submission for kind as
// it would arrive from a browser form (checkboxes carry the "on" marker).
func ValidSubmission(kind string) validation.Submission {
	sub := BaseSubmission()
	switch unit.NormalizeKind(kind) {
	case unit.KindArticle:
		sub["article_content"] = strings.Repeat("a", 6000)
	case unit.KindVideo:
		sub["video_url"] = "https://videos.example.com/42"
	case unit.KindInterview:
		sub["interviewee"] = "Ada"
		sub["interview_content"] = "Questions and answers."
	case unit.KindPromptSet:
		sub["suggested_frequency"] = "weekly"
		sub["target_audience"] = "group"
		for idx := 1; idx <= unit.PromptCount; idx++ {
			sub["Prompt"+strconv.Itoa(idx)] = "What went well this week?"
		}
	case unit.KindTemplate:
		sub["file_format"] = "PDF"
		sub["download_link"] = "https://files.example.com/template.pdf"
	case unit.KindExercise:
		sub["exercise_instructions"] = "Pair up and discuss."
		sub["target_audience"] = "mixed"
		sub["permission"] = unit.CheckboxMarker
		sub["requires_materials"] = unit.CheckboxMarker
	case unit.KindMicroStudy:
		sub["study_content"] = strings.Repeat("s", unit.MicroContentMinLimit)
	case unit.KindMicroCourse:
		sub["course_content"] = strings.Repeat("c", unit.MicroContentMinLimit+150)
	}
	return sub
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

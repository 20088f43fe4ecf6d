package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func schemaFor(t *testing.T, kind string) unit.Schema {
	t.Helper()
	schema, err := unit.DefaultCatalog().Get(kind)
	if err != nil {
		t.Fatalf("get schema: %v", err)
	}
	return schema
}

func TestCollect_Template(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Retro board", "Retrospectives", "https://files.example.com/retro.pdf"},
		textAreas: []string{"A board for retros.", "Use it **every** sprint."},
		selectIdx: []int{0},
		confirm:   []bool{false},
		multiIdx:  [][]int{{0, 2}},
	}
	p, err := New(WithDriver(driver), WithSuggestions([]string{"Reflective", "Playful", "Structured"}))
	if err != nil {
		t.Fatalf("new prompter: %v", err)
	}

	sub, err := p.Collect(context.Background(), schemaFor(t, unit.KindTemplate))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := validation.Submission{
		"title":           "Retro board",
		"main_topic":      "Retrospectives",
		"short_summary":   "A board for retros.",
		"full_summary":    "Use it **every** sprint.",
		"file_format":     "PDF",
		"download_link":   "https://files.example.com/retro.pdf",
		"characteristics": []string{"Reflective", "Structured"},
	}
	if diff := cmp.Diff(want, sub); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}

	if _, result := validation.Validate(unit.KindTemplate, sub); !result.Valid {
		t.Fatalf("collected submission should validate: %v", result.Messages())
	}
}

func TestCollect_ReasksShortContent(t *testing.T) {
	long := strings.Repeat("x", unit.MicroContentMinLimit)
	driver := &stubDriver{
		inputs:    []string{"Study", "Topic", ""},
		textAreas: []string{"Short.", "Full.", "too short", long},
		confirm:   []bool{false},
	}
	p, err := New(WithDriver(driver))
	if err != nil {
		t.Fatalf("new prompter: %v", err)
	}

	sub, err := p.Collect(context.Background(), schemaFor(t, unit.KindMicroStudy))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if sub.Text("study_content") != long {
		t.Fatalf("study_content: got %d chars", len(sub.Text("study_content")))
	}
	if _, ok := sub["characteristics"]; ok {
		t.Fatal("empty characteristics should be omitted")
	}
	// header plus one rejection
	if len(driver.infoMessages) != 2 {
		t.Fatalf("info messages: %v", driver.infoMessages)
	}
	if !strings.Contains(driver.infoMessages[1], "300") {
		t.Fatalf("expected length hint, got %q", driver.infoMessages[1])
	}
}

func TestCollect_ExerciseCheckboxesAndBadge(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Pairing", "Collaboration", "https://img.example.com/b.png", "Pair pro", "remote, async"},
		textAreas: []string{"Short.", "Full.", "Pair up."},
		selectIdx: []int{1},
		// six checkboxes, then the badge confirmation
		confirm: []bool{true, false, true, false, false, true, true},
	}
	p, err := New(WithDriver(driver))
	if err != nil {
		t.Fatalf("new prompter: %v", err)
	}

	sub, err := p.Collect(context.Background(), schemaFor(t, unit.KindExercise))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if !sub.Bool("permission") || !sub.Bool("requires_facilitator") || sub.Bool("requires_materials") {
		t.Fatalf("unexpected checkboxes: %v", sub)
	}
	badge, ok := sub.Object("badge")
	if !ok {
		t.Fatal("expected badge object")
	}
	if diff := cmp.Diff(map[string]any{"image": "https://img.example.com/b.png", "name": "Pair pro"}, badge); diff != "" {
		t.Fatalf("badge mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"remote", "async"}, sub.Strings("characteristics")); diff != "" {
		t.Fatalf("characteristics mismatch (-want +got):\n%s", diff)
	}
	if _, result := validation.Validate(unit.KindExercise, sub); !result.Valid {
		t.Fatalf("collected submission should validate: %v", result.Messages())
	}
}

func TestCollect_GivesUpAfterMaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "", ""}}
	p, err := New(WithDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new prompter: %v", err)
	}
	if _, err := p.Collect(context.Background(), schemaFor(t, unit.KindVideo)); err == nil {
		t.Fatal("expected error after repeated blank titles")
	}
	if driver.inputPos != 2 {
		t.Fatalf("expected two attempts, got %d", driver.inputPos)
	}
}

func TestFieldIssue(t *testing.T) {
	field := unit.NumberedFields("Prompt", 1, 10)[0]
	if msg := FieldIssue(field, "short"); msg != "" {
		t.Fatalf("unexpected issue: %q", msg)
	}
	if msg := FieldIssue(field, ""); msg == "" {
		t.Fatal("expected missing field issue")
	}
	if msg := FieldIssue(field, strings.Repeat("p", 11)); msg == "" {
		t.Fatal("expected max length issue")
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-twennie/internal/config"
	"github.com/goliatone/go-twennie/pkg/prompt"
	"github.com/goliatone/go-twennie/pkg/unit"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestValidate_ValidYAML(t *testing.T) {
	path := writeFile(t, "video.yaml", `
title: Standups that work
main_topic: Rituals
short_summary: Keep them short.
full_summary: A longer look at standups.
video_url: https://videos.example.com/standup
`)
	out, err := run(t, "validate", "video", path)
	if err != nil {
		t.Fatalf("validate: %v (%s)", err, out)
	}
	if strings.TrimSpace(out) != "valid" {
		t.Fatalf("output: %q", out)
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	path := writeFile(t, "prompts.json", `{"title": "Weekly prompts", "suggested_frequency": "yearly"}`)
	out, err := run(t, "validate", "--json", "promptset", path)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}

	var got struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			Kind  string `json:"kind"`
			Field string `json:"field"`
		} `json:"issues"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Valid {
		t.Fatal("expected invalid result")
	}
	var enumIssues []string
	for _, issue := range got.Issues {
		if issue.Kind == "invalid_enum_value" {
			enumIssues = append(enumIssues, issue.Field)
		}
	}
	if diff := cmp.Diff([]string{"suggested_frequency", "target_audience"}, enumIssues); diff != "" {
		t.Fatalf("enum issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ReadsStdin(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(`{"title": "Standups", "main_topic": "Rituals", "short_summary": "Short.", "full_summary": "Full.", "video_url": "https://videos.example.com/1"}`))
	cmd.SetArgs([]string{"validate", "video", "-"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate stdin: %v (%s)", err, out.String())
	}
	if strings.TrimSpace(out.String()) != "valid" {
		t.Fatalf("output: %q", out.String())
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	path := writeFile(t, "x.json", `{"title": "x"}`)
	out, err := run(t, "validate", "podcast", path)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if !strings.Contains(out, "podcast") {
		t.Fatalf("output: %q", out)
	}
}

func TestKinds(t *testing.T) {
	out, err := run(t, "kinds")
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	for _, want := range []string{"article", "createPromptSet", "microcourse"} {
		if !strings.Contains(out, want) {
			t.Errorf("kinds output missing %q:\n%s", want, out)
		}
	}
}

func TestOpenAPI(t *testing.T) {
	out, err := run(t, "openapi")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode openapi: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("version: %v", doc["openapi"])
	}
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twennie.yaml")
	if _, err := run(t, "--config", path, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := run(t, "--config", path, "init"); err == nil {
		t.Fatal("expected error when config exists")
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := config.DefaultConfig()
	if cfg.Addr() != want.Addr() || cfg.Store != want.Store || cfg.Server.ShutdownTimeout != want.Server.ShutdownTimeout {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

type scriptedDriver struct {
	inputs    []string
	textAreas []string
	confirms  []bool
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	if len(d.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	v := d.textAreas[0]
	d.textAreas = d.textAreas[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	return -1, errors.New("no select scripted")
}

func (d *scriptedDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	return nil, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestNew_PrintsNormalizedSubmission(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Ada on pairing", "Pairing", "Ada"},
		textAreas: []string{"Short.", "Full.", "Q and A."},
		confirms:  []bool{false},
	}
	cmd := newNewCmd(&app{catalog: unit.DefaultCatalog()}, driver)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"interview"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("new: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if got["interviewee"] != "Ada" || got["title"] != "Ada on pairing" {
		t.Fatalf("unexpected submission: %v", got)
	}
}

func TestValidate_OpenAPIConformance(t *testing.T) {
	path := writeFile(t, "template.json", `{
  "title": "Retro board",
  "main_topic": "Retrospectives",
  "short_summary": "A board.",
  "full_summary": "Use it every sprint.",
  "file_format": "PDF",
  "download_link": "https://files.example.com/retro.pdf",
  "characteristics": ["Reflective"]
}`)
	out, err := run(t, "validate", "--openapi", "template", path)
	if err != nil {
		t.Fatalf("validate: %v (%s)", err, out)
	}
	if !strings.Contains(out, "conforms to createTemplate") {
		t.Fatalf("output: %q", out)
	}
}

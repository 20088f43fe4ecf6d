package apidoc_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-twennie/pkg/apidoc"
	"github.com/goliatone/go-twennie/pkg/unit"
)

func TestBuild_OneOperationPerKind(t *testing.T) {
	catalog := unit.DefaultCatalog()
	doc, err := apidoc.Build(context.Background(), catalog)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got, want := doc.Paths.Len(), len(catalog.List()); got != want {
		t.Fatalf("expected %d paths, got %d", want, got)
	}

	item := doc.Paths.Value("/units/article")
	if item == nil || item.Post == nil {
		t.Fatalf("expected POST /units/article")
	}
	if item.Post.OperationID != "createArticle" {
		t.Fatalf("unexpected operation id %q", item.Post.OperationID)
	}

	content := item.Post.RequestBody.Value.Content.Get("application/json").Schema.Value.Properties["article_content"].Value
	if content.MinLength != unit.ArticleMinLength {
		t.Fatalf("expected minLength %d, got %d", unit.ArticleMinLength, content.MinLength)
	}
	if content.MaxLength == nil || *content.MaxLength != unit.ArticleMaxLength {
		t.Fatalf("expected maxLength %d, got %v", unit.ArticleMaxLength, content.MaxLength)
	}
}

func TestOperationID(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Prompt set", want: "createPromptSet"},
		{title: "Micro-study", want: "createMicroStudy"},
		{title: "", want: "createVideo"},
	}
	for _, tt := range tests {
		got := apidoc.OperationID(unit.Schema{Kind: "video", Title: tt.title})
		if got != tt.want {
			t.Fatalf("OperationID(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestOperations_RoundTrip(t *testing.T) {
	ctx := context.Background()
	data, err := apidoc.JSON(ctx, unit.DefaultCatalog())
	if err != nil {
		t.Fatalf("json: %v", err)
	}

	ops, err := apidoc.Operations(ctx, data)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	op, ok := ops["createTemplate"]
	if !ok {
		t.Fatalf("expected createTemplate operation, got %v", ops)
	}
	want := apidoc.Operation{
		ID:      "createTemplate",
		Method:  "POST",
		Path:    "/units/template",
		Summary: "Create template",
		Required: []string{
			"title", "main_topic", "short_summary", "full_summary",
			"file_format", "download_link",
		},
		Properties: []string{
			"badge", "characteristics", "download_link", "file_format",
			"full_summary", "main_topic", "short_summary", "title",
		},
		Statuses: []string{"201", "400", "422"},
	}
	if diff := cmp.Diff(want, op); diff != "" {
		t.Fatalf("operation mismatch (-want +got):\n%s", diff)
	}
}

func TestOperations_RejectsEmpty(t *testing.T) {
	if _, err := apidoc.Operations(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestStatusText(t *testing.T) {
	if got := apidoc.StatusText("422"); got != "422 Unprocessable Entity" {
		t.Fatalf("unexpected status text %q", got)
	}
}

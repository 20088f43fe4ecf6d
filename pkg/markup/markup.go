// Package markup turns contributor-supplied text into HTML that is safe to
// embed in Twennie pages. Markdown is rendered with goldmark (GFM) and the
// output is passed through a bluemonday UGC policy; plain text fields go
// through the strict policy, which strips every tag.
package markup

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown

	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy

	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// RenderMarkdown converts markdown source into sanitised HTML.
func RenderMarkdown(source string) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdownEngine().Convert([]byte(trimmed), &buf); err != nil {
		return "", fmt.Errorf("markup: render markdown: %w", err)
	}
	return SanitizeHTML(buf.String()), nil
}

// SanitizeHTML applies the user-generated-content policy to raw HTML.
func SanitizeHTML(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(ugcSanitizer().Sanitize(trimmed))
}

// StripTags removes all markup from a plain text value. The result is plain
// text again (entities decoded); templates escape it on output.
func StripTags(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(stdhtml.UnescapeString(strictSanitizer().Sanitize(trimmed)))
}

func markdownEngine() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		)
	})
	return markdown
}

func ugcSanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		ugcPolicy = policy
	})
	return ugcPolicy
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

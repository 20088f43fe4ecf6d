package site

import (
	"fmt"

	"github.com/goliatone/go-twennie/pkg/markup"
)

// markdownFilter renders Markdown to sanitised HTML. Templates still pipe
// the result through |safe to skip autoescaping.
func markdownFilter(input any, _ any) (any, error) {
	if input == nil {
		return "", nil
	}
	return markup.RenderMarkdown(fmt.Sprint(input))
}

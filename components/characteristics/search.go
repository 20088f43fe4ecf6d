package characteristics

import (
	"sort"
	"strings"
)

// Option is one entry of the JSON response.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Search filters tags by query, case-insensitively.
func Search(tags []string, query string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(tags) <= limit {
			return append([]string{}, tags...)
		}
		return append([]string{}, tags[:limit]...)
	}

	q := strings.ToLower(query)
	type match struct {
		tag      string
		isPrefix bool
	}
	var matches []match
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if !strings.Contains(lower, q) {
			continue
		}
		matches = append(matches, match{tag: tag, isPrefix: strings.HasPrefix(lower, q)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].tag < matches[j].tag
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.tag)
	}
	return out
}

// SearchOptions is Search shaped as select options. Values are the tag
// itself so submissions store readable characteristics.
func SearchOptions(tags []string, query string, limit int, opts Options) []Option {
	results := Search(tags, query, limit, opts)
	if len(results) == 0 {
		return nil
	}
	out := make([]Option, 0, len(results))
	for _, tag := range results {
		out = append(out, Option{Value: tag, Label: tag})
	}
	return out
}

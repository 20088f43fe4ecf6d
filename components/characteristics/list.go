package characteristics

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/characteristics.txt
var dataFS embed.FS

const defaultListPath = "data/characteristics.txt"

var (
	defaultOnce sync.Once
	defaultTags []string
	defaultErr  error
)

// DefaultTags returns a copy of the embedded suggestion list.
func DefaultTags() ([]string, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()
		defaultTags, defaultErr = LoadTags(f)
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]string{}, defaultTags...), nil
}

// LoadTags reads one tag per line, skipping blanks, comments and case
// insensitive duplicates, and returns them sorted.
func LoadTags(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("characteristics: missing reader")
	}

	scanner := bufio.NewScanner(r)
	tags := make([]string, 0, 64)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Strings(tags)
	return tags, nil
}

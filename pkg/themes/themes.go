// Package themes resolves go-theme manifests into the token, CSS variable and
// asset configuration the page templates consume.
package themes

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Defaults for the built-in manifest.
const (
	DefaultTheme   = "twennie"
	DefaultVariant = "light"
	DarkVariant    = "dark"
	AssetPrefix    = "/static"
)

// Asset keys referenced by the layout template.
const (
	AssetStylesheet = "site.stylesheet"
	AssetScript     = "site.script"
)

// ErrUnknownTheme is returned when a selection names an unregistered theme.
var ErrUnknownTheme = errors.New("themes: unknown theme")

// DefaultManifest returns the Twennie manifest: light tokens with a dark
// variant override.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":      "#ffffff",
			"color-surface": "#f5f6f8",
			"color-text":    "#1c1e21",
			"color-muted":   "#5f6673",
			"color-accent":  "#2f6fed",
			"color-error":   "#c62828",
			"font-body":     "system-ui, sans-serif",
			"radius":        "6px",
		},
		Templates: map[string]string{
			"layout": "layout.tmpl",
		},
		Assets: theme.Assets{
			Prefix: AssetPrefix,
			Files: map[string]string{
				AssetStylesheet: "site.css",
				AssetScript:     "site.js",
			},
		},
		Variants: map[string]theme.Variant{
			DarkVariant: {
				Tokens: map[string]string{
					"color-bg":      "#121417",
					"color-surface": "#1d2026",
					"color-text":    "#e8eaed",
					"color-muted":   "#a0a6b1",
					"color-accent":  "#7aa2ff",
					"color-error":   "#ef9a9a",
				},
			},
		},
	}
}

// Selector resolves theme and variant names against registered manifests.
// It satisfies theme.ThemeSelector.
type Selector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	registry       theme.ThemeProvider
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests with a go-theme registry and returns a
// selector. With no manifests the DefaultManifest is used.
func NewSelector(manifests ...*theme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}

	registry := theme.NewRegistry()
	s := &Selector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultVariant: DefaultVariant,
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("themes: register %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
		if s.defaultTheme == "" {
			s.defaultTheme = manifest.Name
		}
	}
	if len(s.manifests) == 0 {
		return nil, errors.New("themes: at least one manifest is required")
	}
	s.registry = registry
	return s, nil
}

// Provider exposes the underlying go-theme registry.
func (s *Selector) Provider() theme.ThemeProvider {
	return s.registry
}

// Select resolves name and variant, falling back to the defaults when blank.
// Variants the manifest does not declare, other than the default, are
// rejected.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != s.defaultVariant {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("themes: theme %q has no variant %q", name, variant)
		}
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// RendererConfig merges the selected manifest with its variant into a
// go-theme renderer configuration.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	partials := mergeStrings(manifest.Templates, variant.Templates)

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars(tokens),
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func cssVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out["--"+strings.TrimPrefix(key, "--")] = value
	}
	return out
}

// CSSVarsStyle renders vars as a sorted :root block.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// Context is the template-facing view of a renderer config. Unlike
// theme.RendererConfig it holds no functions, so it survives the template
// engine's JSON conversion.
type Context struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"css_vars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
	Stylesheet   string            `json:"stylesheet,omitempty"`
	Script       string            `json:"script,omitempty"`
	JSON         string            `json:"json,omitempty"`
}

// BuildContext flattens cfg into a Context.
func BuildContext(cfg *theme.RendererConfig) Context {
	if cfg == nil {
		return Context{}
	}
	ctx := Context{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
	}
	ctx.CSSVarsStyle = CSSVarsStyle(ctx.CSSVars)
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL(AssetStylesheet)
		ctx.Script = cfg.AssetURL(AssetScript)
	}
	ctx.JSON = contextJSON(ctx)
	return ctx
}

func contextJSON(ctx Context) string {
	payload := struct {
		Name    string            `json:"name,omitempty"`
		Variant string            `json:"variant,omitempty"`
		Tokens  map[string]string `json:"tokens,omitempty"`
	}{
		Name:    ctx.Name,
		Variant: ctx.Variant,
		Tokens:  ctx.Tokens,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

// Resolve selects name/variant and returns the template context in one step.
func (s *Selector) Resolve(name, variant string) (Context, error) {
	selection, err := s.Select(name, variant)
	if err != nil {
		return Context{}, err
	}
	return BuildContext(RendererConfig(selection)), nil
}

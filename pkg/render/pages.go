package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	rendertemplate "github.com/goliatone/go-twennie/pkg/render/template"
	"github.com/goliatone/go-twennie/pkg/render/template/gotemplate"
)

// Option configures a Pages renderer.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	templatesDir string
	filters      map[string]gotemplate.FilterFunc
	globals      map[string]any
}

// WithTemplatesFS supplies the page template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Files found
// there shadow the ones in the fs.FS bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithFilters registers template filters on the default engine.
func WithFilters(filters map[string]gotemplate.FilterFunc) Option {
	return func(cfg *config) {
		cfg.filters = filters
	}
}

// WithGlobals seeds values visible to every page (site name, asset paths).
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		cfg.globals = globals
	}
}

// View is the per-request data handed to a page template under "view".
type View struct {
	Title       string         `json:"title"`
	Path        string         `json:"path"`
	Theme       any            `json:"theme,omitempty"`
	Preferences any            `json:"preferences,omitempty"`
	Hidden      []HiddenField  `json:"hidden,omitempty"`
	Errors      ErrorMapping   `json:"errors"`
	Data        map[string]any `json:"data,omitempty"`
}

// Pages renders named page templates to HTML.
type Pages struct {
	templates rendertemplate.TemplateRenderer
}

// NewPages constructs a page renderer applying any provided options.
func NewPages(options ...Option) (*Pages, error) {
	var cfg config
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil && cfg.templatesDir == "" {
		return nil, errors.New("render: templates fs or directory is required")
	}
	engineOpts := []gotemplate.Option{
		gotemplate.WithExtension(".tmpl"),
		gotemplate.WithFilters(cfg.filters),
		gotemplate.WithGlobalData(cfg.globals),
	}
	if cfg.templatesDir != "" {
		if _, err := os.Stat(cfg.templatesDir); err != nil {
			return nil, fmt.Errorf("render: templates dir: %w", err)
		}
		engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templatesDir))
	}
	if cfg.templateFS != nil {
		engineOpts = append(engineOpts, gotemplate.WithFS(cfg.templateFS))
	}
	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("render: configure template renderer: %w", err)
	}

	return &Pages{templates: engine}, nil
}

// ContentType reports the MIME type of rendered pages.
func (p *Pages) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the page template called name with view.
func (p *Pages) Render(ctx context.Context, name string, view View) ([]byte, error) {
	if p == nil || p.templates == nil {
		return nil, errors.New("render: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.templates.RenderTemplate(name, map[string]any{
		"view": view,
	})
	if err != nil {
		return nil, fmt.Errorf("render: page %q: %w", name, err)
	}
	return []byte(result), nil
}

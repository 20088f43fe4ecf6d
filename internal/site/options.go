package site

import (
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-twennie/pkg/unit"
)

// Options configures a Server.
type Options struct {
	SiteName      string
	CORSOrigins   []string
	SecureCookies bool
	CSRFEnabled   bool
	CSRFKey       []byte
	TemplatesDir  string
	TemplatesFS   fs.FS
	RecentLimit   int
	MaxBodyBytes  int64
	Catalog       *unit.Catalog
	Logger        zerolog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		SiteName:     "Twennie",
		RecentLimit:  10,
		MaxBodyBytes: 1 << 20,
		Logger:       zerolog.Nop(),
	}
}

// NewOptions applies fns over DefaultOptions and clamps invalid values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.SiteName == "" {
		opts.SiteName = "Twennie"
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 10
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Catalog == nil {
		opts.Catalog = unit.DefaultCatalog()
	}
	if opts.TemplatesFS == nil {
		opts.TemplatesFS = TemplatesFS()
	}
	return opts
}

func WithSiteName(name string) OptionFn {
	return func(o *Options) { o.SiteName = name }
}

// WithCORSOrigins allows cross-origin API calls from origins.
func WithCORSOrigins(origins []string) OptionFn {
	return func(o *Options) { o.CORSOrigins = append([]string(nil), origins...) }
}

func WithSecureCookies(secure bool) OptionFn {
	return func(o *Options) { o.SecureCookies = secure }
}

// WithCSRF enables gorilla/csrf protection using a 32 byte key.
func WithCSRF(key []byte) OptionFn {
	return func(o *Options) {
		o.CSRFEnabled = len(key) > 0
		o.CSRFKey = append([]byte(nil), key...)
	}
}

// WithTemplatesDir overlays templates from disk on top of the embedded set.
func WithTemplatesDir(dir string) OptionFn {
	return func(o *Options) { o.TemplatesDir = dir }
}

func WithTemplatesFS(files fs.FS) OptionFn {
	return func(o *Options) { o.TemplatesFS = files }
}

func WithCatalog(catalog *unit.Catalog) OptionFn {
	return func(o *Options) { o.Catalog = catalog }
}

func WithLogger(logger zerolog.Logger) OptionFn {
	return func(o *Options) { o.Logger = logger }
}

func WithRecentLimit(limit int) OptionFn {
	return func(o *Options) { o.RecentLimit = limit }
}

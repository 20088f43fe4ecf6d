package site

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-twennie/components/characteristics"
	"github.com/goliatone/go-twennie/internal/store"
	"github.com/goliatone/go-twennie/pkg/preferences"
	"github.com/goliatone/go-twennie/pkg/render"
	"github.com/goliatone/go-twennie/pkg/render/template/gotemplate"
	"github.com/goliatone/go-twennie/pkg/themes"
	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// CSRFFieldName is the hidden form field carrying the CSRF token.
const CSRFFieldName = "_csrf"

// Server holds the site dependencies and its router.
type Server struct {
	opts   Options
	store  store.Store
	engine *validation.Engine
	pages  *render.Pages
	themes *themes.Selector
	prefs  *preferences.Writer
	log    zerolog.Logger
	router chi.Router

	mu         sync.Mutex
	httpServer *http.Server
}

// New builds a Server backed by st.
func New(st store.Store, fns ...OptionFn) (*Server, error) {
	if st == nil {
		return nil, errors.New("site: store is required")
	}
	opts := NewOptions(fns...)
	if opts.CSRFEnabled && len(opts.CSRFKey) != 32 {
		return nil, fmt.Errorf("site: csrf key must be 32 bytes, got %d", len(opts.CSRFKey))
	}

	selector, err := themes.NewSelector()
	if err != nil {
		return nil, err
	}

	pageOpts := []render.Option{
		render.WithTemplatesFS(opts.TemplatesFS),
		render.WithFilters(map[string]gotemplate.FilterFunc{
			"markdown": markdownFilter,
		}),
		render.WithGlobals(map[string]any{
			"site_name":  opts.SiteName,
			"kinds":      kindLinks(opts.Catalog),
			"csrf_field": CSRFFieldName,
		}),
	}
	if opts.TemplatesDir != "" {
		pageOpts = append(pageOpts, render.WithTemplatesDir(opts.TemplatesDir))
	}
	pages, err := render.NewPages(pageOpts...)
	if err != nil {
		return nil, fmt.Errorf("site: configure pages: %w", err)
	}

	s := &Server{
		opts:   opts,
		store:  st,
		engine: validation.NewEngine(opts.Catalog),
		pages:  pages,
		themes: selector,
		prefs:  preferences.NewWriter(opts.SecureCookies),
		log:    opts.Logger,
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(s.opts.CORSOrigins) > 0 {
		corsOpts.AllowedOrigins = s.opts.CORSOrigins
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(StaticFS()))))
	r.Get("/api/openapi.json", s.handleOpenAPI)
	if _, err := characteristics.RegisterRoutes(r, "/"); err != nil {
		s.log.Error().Err(err).Msg("register characteristics route")
	}

	r.Group(func(r chi.Router) {
		if s.opts.CSRFEnabled {
			r.Use(s.csrfMiddleware())
		}
		r.Get("/", s.handleHome)
		r.Route("/units/{kind}", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Get("/new", s.handleNew)
			r.Get("/{id}", s.handleShow)
		})
		r.Get("/preferences", s.handlePreferences)
		r.Post("/preferences/consent", s.handleConsent)
		r.Post("/preferences/theme", s.handleTheme)
		r.Post("/preferences/sidebar", s.handleSidebar)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, StatusError{Code: http.StatusNotFound})
	})
	return r
}

func (s *Server) csrfMiddleware() func(http.Handler) http.Handler {
	protect := csrf.Protect(s.opts.CSRFKey,
		csrf.Secure(s.opts.SecureCookies),
		csrf.FieldName(CSRFFieldName),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.renderError(w, r, StatusError{Code: http.StatusForbidden, Err: csrf.FailureReason(r)})
		})),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.opts.SecureCookies {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) newHTTPServer() *http.Server {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()
	return srv
}

func (s *Server) serve(srv *http.Server, ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("twennie listening")
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Run serves on addr until ctx is done, then shuts down gracefully within
// timeout.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("site: listen %s: %w", addr, err)
	}

	srv := s.newHTTPServer()
	errCh := make(chan error, 1)
	go func() { errCh <- s.serve(srv, ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Dur("timeout", timeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("site: shutdown: %w", err)
	}
	return <-errCh
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

type kindLink struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func kindLinks(catalog *unit.Catalog) []kindLink {
	schemas := catalog.Schemas()
	out := make([]kindLink, 0, len(schemas))
	for _, schema := range schemas {
		out = append(out, kindLink{Kind: schema.Kind, Title: schema.Title, Description: schema.Description})
	}
	return out
}

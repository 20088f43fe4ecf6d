package site

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/goliatone/go-twennie/pkg/preferences"
	"github.com/goliatone/go-twennie/pkg/render"
	"github.com/goliatone/go-twennie/pkg/themes"
)

type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with the HTTP status it maps to.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

func statusOf(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

// wantsJSON reports whether the client asked for, or sent, JSON.
func wantsJSON(r *http.Request) bool {
	if isJSONBody(r) {
		return true
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

func isJSONBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// backTarget returns the same-origin path of the Referer, or "/".
func backTarget(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}

// view assembles the per-request template data common to every page.
func (s *Server) view(r *http.Request, title string) render.View {
	prefs := preferences.Read(r)
	themeCtx, err := s.themes.Resolve(themes.DefaultTheme, prefs.Theme)
	if err != nil {
		s.log.Warn().Err(err).Str("theme", prefs.Theme).Msg("resolve theme")
		themeCtx, _ = s.themes.Resolve("", "")
	}

	var hidden []render.HiddenField
	if token := csrf.Token(r); token != "" {
		hidden = append(hidden, render.CSRFToken(CSRFFieldName, token))
	}

	return render.View{
		Title:       title,
		Path:        r.URL.Path,
		Theme:       themeCtx,
		Preferences: prefs,
		Hidden:      render.HiddenFields(hidden...),
		Data:        map[string]any{},
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, view render.View) {
	body, err := s.pages.Render(r.Context(), name, view)
	if err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.pages.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// renderError answers err as JSON or as the error page. 5xx details are
// logged and replaced by the generic status text.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	message := http.StatusText(status)
	if status >= 500 {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else if err != nil && err.Error() != "" {
		message = err.Error()
	}

	if wantsJSON(r) {
		writeJSON(w, status, map[string]any{"error": message, "status": status})
		return
	}

	view := s.view(r, http.StatusText(status))
	view.Data["status"] = status
	view.Data["message"] = message
	s.renderPage(w, r, status, "error", view)
}

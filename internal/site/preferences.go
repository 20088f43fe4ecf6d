package site

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-twennie/pkg/preferences"
)

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	view := s.view(r, "Preferences")
	view.Data["themes"] = []string{preferences.ThemeLight, preferences.ThemeDark}
	view.Data["sidebars"] = []string{preferences.SidebarExpanded, preferences.SidebarCollapsed}
	s.renderPage(w, r, http.StatusOK, "preferences", view)
}

// preferenceValue reads "value" from a form or JSON body, falling back to
// the named field so plain HTML forms can post e.g. theme=dark.
func (s *Server) preferenceValue(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	sub, err := s.decodeSubmission(w, r)
	if err != nil {
		return "", err
	}
	if value := sub.Text("value"); value != "" {
		return value, nil
	}
	return sub.Text(field), nil
}

func (s *Server) handleConsent(w http.ResponseWriter, r *http.Request) {
	s.updatePreference(w, r, "consent", func(value string) (string, error) {
		return s.prefs.RecordConsent(w, value)
	})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	prefs := preferences.Read(r)
	s.updatePreference(w, r, "theme", func(value string) (string, error) {
		return s.prefs.SetTheme(w, prefs, value)
	})
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	prefs := preferences.Read(r)
	s.updatePreference(w, r, "sidebar", func(value string) (string, error) {
		return s.prefs.SetSidebar(w, prefs, value)
	})
}

// updatePreference decodes the posted value, applies it and answers with
// JSON or a redirect back to the referring page.
func (s *Server) updatePreference(w http.ResponseWriter, r *http.Request, field string, apply func(string) (string, error)) {
	value, err := s.preferenceValue(w, r, field)
	if err != nil {
		s.renderError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}

	stored, err := apply(value)
	switch {
	case errors.Is(err, preferences.ErrInvalidValue):
		s.renderError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	case errors.Is(err, preferences.ErrConsentRequired):
		s.renderError(w, r, StatusError{Code: http.StatusConflict, Err: errors.New("Accept cookies to save this preference.")})
		return
	case err != nil:
		s.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{field: stored})
		return
	}
	http.Redirect(w, r, backTarget(r), http.StatusSeeOther)
}

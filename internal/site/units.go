package site

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-twennie/internal/store"
	"github.com/goliatone/go-twennie/pkg/apidoc"
	"github.com/goliatone/go-twennie/pkg/render"
	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// createdResponse is the JSON body of a successful submission.
type createdResponse struct {
	ID       string `json:"id"`
	Redirect string `json:"redirect"`
}

// invalidResponse is the JSON body of a rejected submission.
type invalidResponse struct {
	Errors []string            `json:"errors"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

func unitPath(kind, id string) string {
	return "/units/" + kind + "/" + id
}

// schemaFor resolves the {kind} URL parameter.
func (s *Server) schemaFor(r *http.Request) (unit.Schema, error) {
	kind := chi.URLParam(r, "kind")
	schema, err := s.engine.Catalog().Get(kind)
	if err != nil {
		return unit.Schema{}, StatusError{Code: http.StatusNotFound, Err: fmt.Errorf("Unknown content type %q.", kind)}
	}
	return schema, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	recent, err := s.store.Recent(r.Context(), s.opts.RecentLimit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	view := s.view(r, s.opts.SiteName)
	view.Data["recent"] = summaries(recent)
	s.renderPage(w, r, http.StatusOK, "home", view)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schemaFor(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	units, err := s.store.List(r.Context(), schema.Kind, 0)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		if units == nil {
			units = []store.Unit{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": units})
		return
	}
	view := s.view(r, schema.Title)
	view.Data["schema"] = kindLink{Kind: schema.Kind, Title: schema.Title, Description: schema.Description}
	view.Data["units"] = summaries(units)
	s.renderPage(w, r, http.StatusOK, "unit_list", view)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schemaFor(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderForm(w, r, http.StatusOK, schema, validation.Submission{}, render.ErrorMapping{})
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, schema unit.Schema, sub validation.Submission, errs render.ErrorMapping) {
	view := s.view(r, "New "+strings.ToLower(schema.Title))
	view.Errors = errs
	view.Data["schema"] = kindLink{Kind: schema.Kind, Title: schema.Title, Description: schema.Description}
	view.Data["action"] = "/units/" + schema.Kind
	view.Data["fields"] = formFields(schema, sub, errs)
	s.renderPage(w, r, status, "unit_form", view)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schemaFor(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	sub, err := s.decodeSubmission(w, r)
	if err != nil {
		s.renderError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}

	// Validate what will be stored: plain text loses its markup first.
	normalized, result := s.engine.Validate(schema.Kind, store.Sanitize(schema, sub))
	if !result.Valid {
		mapped := render.MapIssues(schema, result.Issues)
		s.log.Debug().
			Str("kind", schema.Kind).
			Int("issues", len(result.Issues)).
			Msg("submission rejected")
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, invalidResponse{
				Errors: result.Messages(),
				Fields: mapped.Fields,
				Form:   mapped.Form,
			})
			return
		}
		s.renderForm(w, r, http.StatusUnprocessableEntity, schema, normalized, mapped)
		return
	}

	u := store.NewUnit(schema, normalized)
	if err := s.store.Save(r.Context(), u); err != nil {
		s.renderError(w, r, err)
		return
	}
	s.log.Info().Str("kind", u.Kind).Str("id", u.ID).Msg("unit created")

	location := unitPath(u.Kind, u.ID)
	if wantsJSON(r) {
		w.Header().Set("Location", location)
		writeJSON(w, http.StatusCreated, createdResponse{ID: u.ID, Redirect: location})
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (s *Server) decodeSubmission(w http.ResponseWriter, r *http.Request) (validation.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if isJSONBody(r) {
		return validation.DecodeJSON(r.Body)
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.opts.MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return validation.DecodeForm(r.PostForm), nil
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schemaFor(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	u, err := s.store.Get(r.Context(), schema.Kind, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		s.renderError(w, r, StatusError{Code: http.StatusNotFound, Err: errors.New("Unit not found.")})
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, u)
		return
	}

	view := s.view(r, u.Title)
	view.Data["schema"] = kindLink{Kind: schema.Kind, Title: schema.Title, Description: schema.Description}
	view.Data["unit"] = summary(*u)
	view.Data["fields"] = detailFields(schema, validation.Submission(u.Fields))
	s.renderPage(w, r, http.StatusOK, "unit_show", view)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := apidoc.Build(r.Context(), s.engine.Catalog())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type unitSummary struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	MainTopic    string `json:"main_topic"`
	ShortSummary string `json:"short_summary"`
	URL          string `json:"url"`
	Created      string `json:"created"`
}

func summary(u store.Unit) unitSummary {
	return unitSummary{
		ID:           u.ID,
		Kind:         u.Kind,
		Slug:         u.Slug,
		Title:        u.Title,
		MainTopic:    u.MainTopic,
		ShortSummary: u.ShortSummary,
		URL:          unitPath(u.Kind, u.ID),
		Created:      u.CreatedAt.Format("2 Jan 2006"),
	}
}

func summaries(units []store.Unit) []unitSummary {
	out := make([]unitSummary, 0, len(units))
	for _, u := range units {
		out = append(out, summary(u))
	}
	return out
}

package preferences

import (
	"net/http"
	"time"
)

// Writer sets preference cookies on responses.
type Writer struct {
	Secure bool
	Path   string
	now    func() time.Time
}

// NewWriter returns a Writer scoped to the site root.
func NewWriter(secure bool) *Writer {
	return &Writer{Secure: secure, Path: "/", now: time.Now}
}

// RecordConsent stores the consent decision. Rejecting also expires any
// theme and sidebar cookies already set.
func (w *Writer) RecordConsent(rw http.ResponseWriter, value string) (string, error) {
	consent, err := NormalizeConsent(value)
	if err != nil {
		return "", err
	}
	http.SetCookie(rw, w.cookie(ConsentCookie, consent, true))
	if consent == ConsentRejected {
		http.SetCookie(rw, w.expired(ThemeCookie))
		http.SetCookie(rw, w.expired(SidebarCookie))
	}
	return consent, nil
}

// SetTheme stores the theme choice. It fails with ErrConsentRequired unless
// prefs records accepted consent.
func (w *Writer) SetTheme(rw http.ResponseWriter, prefs Preferences, value string) (string, error) {
	theme, err := NormalizeTheme(value)
	if err != nil {
		return "", err
	}
	if !prefs.Accepted() {
		return "", ErrConsentRequired
	}
	http.SetCookie(rw, w.cookie(ThemeCookie, theme, false))
	return theme, nil
}

// SetSidebar stores the sidebar state under the same consent rule as SetTheme.
func (w *Writer) SetSidebar(rw http.ResponseWriter, prefs Preferences, value string) (string, error) {
	state, err := NormalizeSidebar(value)
	if err != nil {
		return "", err
	}
	if !prefs.Accepted() {
		return "", ErrConsentRequired
	}
	http.SetCookie(rw, w.cookie(SidebarCookie, state, false))
	return state, nil
}

func (w *Writer) cookie(name, value string, httpOnly bool) *http.Cookie {
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     w.path(),
		MaxAge:   int(MaxAge / time.Second),
		Expires:  now().Add(MaxAge).UTC(),
		HttpOnly: httpOnly,
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (w *Writer) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     w.path(),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (w *Writer) path() string {
	if w.Path == "" {
		return "/"
	}
	return w.Path
}

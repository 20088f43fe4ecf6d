// Package preferences reads and writes the visitor's consent, theme and
// sidebar choices as cookies. Theme and sidebar cookies are non-essential and
// are only persisted once consent has been accepted.
package preferences

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Cookie names.
const (
	ConsentCookie = "twennie_consent"
	ThemeCookie   = "twennie_theme"
	SidebarCookie = "twennie_sidebar"
)

// MaxAge is the lifetime of every preference cookie.
const MaxAge = 365 * 24 * time.Hour

// Consent states.
const (
	ConsentUnset    = ""
	ConsentAccepted = "accepted"
	ConsentRejected = "rejected"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Sidebar states.
const (
	SidebarExpanded  = "expanded"
	SidebarCollapsed = "collapsed"
)

// ErrConsentRequired is returned when a non-essential preference is written
// before the visitor accepted cookies.
var ErrConsentRequired = errors.New("preferences: consent required")

// ErrInvalidValue reports a preference value outside the allowed set.
var ErrInvalidValue = errors.New("preferences: invalid value")

// Preferences is the decoded cookie state of one visitor.
type Preferences struct {
	Consent string `json:"consent"`
	Theme   string `json:"theme"`
	Sidebar string `json:"sidebar"`
}

// Default returns the preferences used when no cookies are present.
func Default() Preferences {
	return Preferences{
		Consent: ConsentUnset,
		Theme:   ThemeLight,
		Sidebar: SidebarExpanded,
	}
}

// Accepted reports whether the visitor accepted non-essential cookies.
func (p Preferences) Accepted() bool {
	return p.Consent == ConsentAccepted
}

// Pending reports whether the consent banner should still be shown.
func (p Preferences) Pending() bool {
	return p.Consent == ConsentUnset
}

// SidebarCollapsed reports whether the sidebar starts collapsed.
func (p Preferences) SidebarCollapsed() bool {
	return p.Sidebar == SidebarCollapsed
}

// Read decodes the preference cookies on r. Unknown or malformed values fall
// back to defaults. Theme and sidebar cookies are ignored without consent.
func Read(r *http.Request) Preferences {
	prefs := Default()
	if r == nil {
		return prefs
	}
	if value, ok := cookieValue(r, ConsentCookie); ok {
		if normalized, err := NormalizeConsent(value); err == nil {
			prefs.Consent = normalized
		}
	}
	if !prefs.Accepted() {
		return prefs
	}
	if value, ok := cookieValue(r, ThemeCookie); ok {
		if normalized, err := NormalizeTheme(value); err == nil {
			prefs.Theme = normalized
		}
	}
	if value, ok := cookieValue(r, SidebarCookie); ok {
		if normalized, err := NormalizeSidebar(value); err == nil {
			prefs.Sidebar = normalized
		}
	}
	return prefs
}

func cookieValue(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// NormalizeConsent maps accept/reject style input onto a consent state.
func NormalizeConsent(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "accept", ConsentAccepted, "yes", "true":
		return ConsentAccepted, nil
	case "reject", ConsentRejected, "no", "false":
		return ConsentRejected, nil
	}
	return "", fmt.Errorf("%w: consent %q", ErrInvalidValue, value)
}

// NormalizeTheme validates a theme name.
func NormalizeTheme(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case ThemeLight, ThemeDark:
		return v, nil
	}
	return "", fmt.Errorf("%w: theme %q", ErrInvalidValue, value)
}

// NormalizeSidebar validates a sidebar state.
func NormalizeSidebar(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case SidebarExpanded, SidebarCollapsed:
		return v, nil
	}
	return "", fmt.Errorf("%w: sidebar %q", ErrInvalidValue, value)
}

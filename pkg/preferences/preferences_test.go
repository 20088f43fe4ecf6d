package preferences

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func requestWithCookies(cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestRead_Defaults(t *testing.T) {
	got := Read(requestWithCookies())
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("preferences mismatch (-want +got):\n%s", diff)
	}
	if !got.Pending() {
		t.Fatalf("expected consent to be pending")
	}
}

func TestRead_IgnoresNonEssentialWithoutConsent(t *testing.T) {
	got := Read(requestWithCookies(
		&http.Cookie{Name: ConsentCookie, Value: ConsentRejected},
		&http.Cookie{Name: ThemeCookie, Value: ThemeDark},
		&http.Cookie{Name: SidebarCookie, Value: SidebarCollapsed},
	))
	want := Preferences{Consent: ConsentRejected, Theme: ThemeLight, Sidebar: SidebarExpanded}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_AcceptedAndInvalidValues(t *testing.T) {
	got := Read(requestWithCookies(
		&http.Cookie{Name: ConsentCookie, Value: ConsentAccepted},
		&http.Cookie{Name: ThemeCookie, Value: ThemeDark},
		&http.Cookie{Name: SidebarCookie, Value: "sideways"},
	))
	want := Preferences{Consent: ConsentAccepted, Theme: ThemeDark, Sidebar: SidebarExpanded}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("preferences mismatch (-want +got):\n%s", diff)
	}

	got = Read(requestWithCookies(&http.Cookie{Name: ConsentCookie, Value: "maybe"}))
	if got.Consent != ConsentUnset {
		t.Fatalf("expected unset consent for invalid cookie, got %q", got.Consent)
	}
}

func fixedWriter(secure bool) *Writer {
	w := NewWriter(secure)
	w.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return w
}

func TestWriter_RecordConsentAccept(t *testing.T) {
	rec := httptest.NewRecorder()
	consent, err := fixedWriter(true).RecordConsent(rec, "accept")
	if err != nil {
		t.Fatalf("record consent: %v", err)
	}
	if consent != ConsentAccepted {
		t.Fatalf("expected accepted, got %q", consent)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != ConsentCookie || c.Value != ConsentAccepted {
		t.Fatalf("unexpected cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie flags: httpOnly=%v secure=%v samesite=%v", c.HttpOnly, c.Secure, c.SameSite)
	}
	if c.MaxAge != 365*24*60*60 {
		t.Fatalf("unexpected max age %d", c.MaxAge)
	}
}

func TestWriter_RecordConsentRejectExpiresPreferences(t *testing.T) {
	rec := httptest.NewRecorder()
	if _, err := fixedWriter(false).RecordConsent(rec, "reject"); err != nil {
		t.Fatalf("record consent: %v", err)
	}

	got := map[string]int{}
	for _, c := range rec.Result().Cookies() {
		got[c.Name] = c.MaxAge
	}
	want := map[string]int{
		ConsentCookie: 365 * 24 * 60 * 60,
		ThemeCookie:   -1,
		SidebarCookie: -1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cookie max ages mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_ConsentGating(t *testing.T) {
	w := fixedWriter(false)

	rec := httptest.NewRecorder()
	if _, err := w.SetTheme(rec, Default(), ThemeDark); !errors.Is(err, ErrConsentRequired) {
		t.Fatalf("expected ErrConsentRequired, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookies without consent")
	}

	accepted := Preferences{Consent: ConsentAccepted}
	rec = httptest.NewRecorder()
	if _, err := w.SetSidebar(rec, accepted, SidebarCollapsed); err != nil {
		t.Fatalf("set sidebar: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != SidebarCollapsed || cookies[0].HttpOnly {
		t.Fatalf("unexpected sidebar cookie: %+v", cookies)
	}

	if _, err := w.SetTheme(httptest.NewRecorder(), accepted, "neon"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	w := fixedWriter(false)
	rec := httptest.NewRecorder()
	if _, err := w.RecordConsent(rec, "accept"); err != nil {
		t.Fatalf("record consent: %v", err)
	}
	prefs := Read(requestWithCookies(rec.Result().Cookies()...))
	if _, err := w.SetTheme(rec, prefs, ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}

	got := Read(requestWithCookies(rec.Result().Cookies()...))
	want := Preferences{Consent: ConsentAccepted, Theme: ThemeDark, Sidebar: SidebarExpanded}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

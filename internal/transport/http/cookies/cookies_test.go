package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
)

func TestSetPairIssuesBothCookies(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	binder := NewBinder(Options{Secure: true})
	binder.now = func() time.Time { return now }

	rr := httptest.NewRecorder()
	binder.SetPair(rr, authsvc.TokenPair{
		Access:  authsvc.IssuedToken{Value: "a", ExpiresAt: now.Add(15 * time.Minute)},
		Refresh: authsvc.IssuedToken{Value: "r", ExpiresAt: now.Add(7 * 24 * time.Hour)},
	})

	got := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		got[c.Name] = c
	}

	access, ok := got[AccessCookieName]
	if !ok {
		t.Fatalf("access cookie missing")
	}
	if access.Value != "a" || access.MaxAge != 15*60 || !access.HttpOnly || !access.Secure || access.SameSite != http.SameSiteStrictMode || access.Path != "/" {
		t.Fatalf("unexpected access cookie: %+v", access)
	}

	refresh, ok := got[RefreshCookieName]
	if !ok {
		t.Fatalf("refresh cookie missing")
	}
	if refresh.Value != "r" || refresh.MaxAge != 7*24*60*60 || !refresh.HttpOnly {
		t.Fatalf("unexpected refresh cookie: %+v", refresh)
	}
}

func TestClearExpiresBothCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	NewBinder(Options{}).Clear(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected two cleared cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.Value != "" || c.MaxAge >= 0 {
			t.Fatalf("cookie %s not cleared: %+v", c.Name, c)
		}
	}
}

func TestReadTokensFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if AccessToken(req) != "" || RefreshToken(req) != "" {
		t.Fatalf("missing cookies must read as empty")
	}

	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "a"})
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "r"})
	if AccessToken(req) != "a" || RefreshToken(req) != "r" {
		t.Fatalf("unexpected cookie values")
	}
}

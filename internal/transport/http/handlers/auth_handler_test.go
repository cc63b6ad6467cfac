package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/krjofficial/mern-ecomm/internal/domain/enums"
	redrepo "github.com/krjofficial/mern-ecomm/internal/repo/redis"
	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
	"github.com/krjofficial/mern-ecomm/internal/services/auth/authtest"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/cookies"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/dto"
	httperrors "github.com/krjofficial/mern-ecomm/internal/transport/http/errors"
)

type authHandlerEnv struct {
	handler *AuthHandler
	service *authsvc.Service
	users   *authtest.UserStore
	mini    *miniredis.Miniredis
}

func newAuthHandlerEnv(t *testing.T) authHandlerEnv {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	users := authtest.NewUserStore()
	codec := authsvc.NewTokenCodec(authsvc.CodecConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	})
	service := authsvc.NewService(codec, users, redrepo.NewRefreshRepo(client))

	return authHandlerEnv{
		handler: NewAuthHandler(service, cookies.NewBinder(cookies.Options{}), nil),
		service: service,
		users:   users,
		mini:    mr,
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func responseCookies(rr *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rr.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func decodeAPIError(t *testing.T, rr *httptest.ResponseRecorder) httperrors.APIError {
	t.Helper()
	var payload httperrors.APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload
}

func TestSignupSetsCookiesAndReturnsUser(t *testing.T) {
	env := newAuthHandlerEnv(t)

	rr := httptest.NewRecorder()
	env.handler.Signup(rr, jsonRequest(t, http.MethodPost, "/api/auth/signup", dto.SignupRequest{
		Email:    "ann@example.com",
		Password: "secret1",
		Name:     "Ann",
	}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d body=%s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var payload dto.AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Message != "User created successfully" {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
	if payload.User.Email != "ann@example.com" || payload.User.Role != string(enums.RoleCustomer) || payload.User.ID == "" {
		t.Fatalf("unexpected user payload: %+v", payload.User)
	}

	var raw struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw response: %v", err)
	}
	if _, exists := raw.User["password"]; exists {
		t.Fatalf("password must not be serialized")
	}

	set := responseCookies(rr)
	access, refresh := set[cookies.AccessCookieName], set[cookies.RefreshCookieName]
	if access == nil || refresh == nil {
		t.Fatalf("expected both cookies, got %v", set)
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatalf("cookies must be httpOnly")
	}
	if access.MaxAge != int(authsvc.DefaultAccessTTL.Seconds()) {
		t.Fatalf("unexpected access max-age: %d", access.MaxAge)
	}
	if refresh.MaxAge != int(authsvc.DefaultRefreshTTL.Seconds()) {
		t.Fatalf("unexpected refresh max-age: %d", refresh.MaxAge)
	}
	if refresh.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected samesite: %v", refresh.SameSite)
	}

	stored, err := env.mini.Get("refresh_token:" + payload.User.ID)
	if err != nil || stored != refresh.Value {
		t.Fatalf("refresh cookie must match stored token: %v", err)
	}
}

func TestSignupRejectsDuplicateAndInvalidInput(t *testing.T) {
	env := newAuthHandlerEnv(t)
	env.users.Add(t, "ann@example.com", "secret1", enums.RoleCustomer)

	rr := httptest.NewRecorder()
	env.handler.Signup(rr, jsonRequest(t, http.MethodPost, "/api/auth/signup", dto.SignupRequest{
		Email: "ann@example.com", Password: "secret1", Name: "Ann",
	}))
	if rr.Code != http.StatusBadRequest || decodeAPIError(t, rr).Code != "ALREADY_EXISTS" {
		t.Fatalf("expected ALREADY_EXISTS, got %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	env.handler.Signup(rr, jsonRequest(t, http.MethodPost, "/api/auth/signup", dto.SignupRequest{
		Email: "bob@example.com", Password: "123", Name: "Bob",
	}))
	if rr.Code != http.StatusBadRequest || decodeAPIError(t, rr).Code != "INVALID_REQUEST" {
		t.Fatalf("expected INVALID_REQUEST, got %d %s", rr.Code, rr.Body.String())
	}
	if len(responseCookies(rr)) != 0 {
		t.Fatalf("failed signup must not set cookies")
	}
}

func TestSignupRejectsPasswordBcryptCannotHash(t *testing.T) {
	env := newAuthHandlerEnv(t)

	rr := httptest.NewRecorder()
	env.handler.Signup(rr, jsonRequest(t, http.MethodPost, "/api/auth/signup", dto.SignupRequest{
		Email: "long@example.com", Password: strings.Repeat("x", 80), Name: "Long",
	}))
	if rr.Code != http.StatusBadRequest || decodeAPIError(t, rr).Code != "INVALID_REQUEST" {
		t.Fatalf("expected INVALID_REQUEST, got %d %s", rr.Code, rr.Body.String())
	}
	if _, err := env.users.FindByEmail(context.Background(), "long@example.com"); err == nil {
		t.Fatalf("rejected signup must not create a user")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newAuthHandlerEnv(t)
	env.users.Add(t, "ann@example.com", "secret1", enums.RoleCustomer)

	rr := httptest.NewRecorder()
	env.handler.Login(rr, jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email: "ann@example.com", Password: "wrong",
	}))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
	if got := decodeAPIError(t, rr); got.Code != "INVALID_CREDENTIALS" || got.Message != "Invalid email or password" {
		t.Fatalf("unexpected error payload: %+v", got)
	}
	if len(responseCookies(rr)) != 0 {
		t.Fatalf("failed login must not set cookies")
	}
}

func TestRefreshTokenSetsOnlyAccessCookie(t *testing.T) {
	env := newAuthHandlerEnv(t)
	env.users.Add(t, "ann@example.com", "secret1", enums.RoleCustomer)

	loginRR := httptest.NewRecorder()
	env.handler.Login(loginRR, jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email: "ann@example.com", Password: "secret1",
	}))
	if loginRR.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginRR.Code, loginRR.Body.String())
	}
	refresh := responseCookies(loginRR)[cookies.RefreshCookieName]

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: cookies.RefreshCookieName, Value: refresh.Value})
	rr := httptest.NewRecorder()
	env.handler.RefreshToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
	set := responseCookies(rr)
	access := set[cookies.AccessCookieName]
	if access == nil || access.Value == "" {
		t.Fatalf("refresh must set the access cookie")
	}
	if _, ok := set[cookies.RefreshCookieName]; ok {
		t.Fatalf("refresh must not rotate the refresh cookie")
	}
	if _, err := env.service.Authenticate(context.Background(), access.Value); err != nil {
		t.Fatalf("new access token must authenticate: %v", err)
	}
}

func TestRefreshTokenErrorCodes(t *testing.T) {
	env := newAuthHandlerEnv(t)
	user := env.users.Add(t, "ann@example.com", "secret1", enums.RoleCustomer)

	first, err := env.service.Login(context.Background(), user.Email, "secret1")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, err := env.service.Login(context.Background(), user.Email, "secret1"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	cases := []struct {
		name   string
		cookie string
		code   string
	}{
		{name: "missing", cookie: "", code: "MISSING_TOKEN"},
		{name: "garbage", cookie: "not-a-token", code: "INVALID_TOKEN"},
		{name: "access token", cookie: first.Tokens.Access.Value, code: "INVALID_TOKEN"},
		{name: "superseded", cookie: first.Tokens.Refresh.Value, code: "STALE_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookies.RefreshCookieName, Value: tc.cookie})
			}
			rr := httptest.NewRecorder()
			env.handler.RefreshToken(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
			}
			if got := decodeAPIError(t, rr).Code; got != tc.code {
				t.Fatalf("unexpected code: got %q want %q", got, tc.code)
			}
		})
	}
}

func TestLogoutClearsCookiesAndRevokes(t *testing.T) {
	env := newAuthHandlerEnv(t)
	user := env.users.Add(t, "ann@example.com", "secret1", enums.RoleCustomer)

	login, err := env.service.Login(context.Background(), user.Email, "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookies.RefreshCookieName, Value: login.Tokens.Refresh.Value})
	rr := httptest.NewRecorder()
	env.handler.Logout(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	set := responseCookies(rr)
	for _, name := range []string{cookies.AccessCookieName, cookies.RefreshCookieName} {
		c := set[name]
		if c == nil || c.Value != "" || c.MaxAge >= 0 {
			t.Fatalf("cookie %s must be cleared, got %+v", name, c)
		}
	}
	if env.mini.Exists("refresh_token:" + user.ID) {
		t.Fatalf("refresh record must be deleted on logout")
	}

	if _, err := env.service.Rotate(context.Background(), login.Tokens.Refresh.Value); err == nil {
		t.Fatalf("revoked refresh token must not rotate")
	}
}

func TestLogoutWithoutCookieStillSucceeds(t *testing.T) {
	env := newAuthHandlerEnv(t)

	rr := httptest.NewRecorder()
	env.handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	var payload dto.MessageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Message != "Logged out successfully" {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
}

func TestLogoutClearsCookiesWhenStoreIsDown(t *testing.T) {
	env := newAuthHandlerEnv(t)
	user := env.users.Add(t, "ann@example.com", "secret1", enums.RoleCustomer)

	login, err := env.service.Login(context.Background(), user.Email, "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	env.mini.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookies.RefreshCookieName, Value: login.Tokens.Refresh.Value})
	rr := httptest.NewRecorder()
	env.handler.Logout(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusInternalServerError)
	}
	if got := decodeAPIError(t, rr).Code; got != "STORE_UNAVAILABLE" {
		t.Fatalf("unexpected code: %q", got)
	}
	if c := responseCookies(rr)[cookies.RefreshCookieName]; c == nil || c.MaxAge >= 0 {
		t.Fatalf("refresh cookie must be cleared even on failure")
	}
}

func TestProfileReturnsPrincipalFromContext(t *testing.T) {
	env := newAuthHandlerEnv(t)
	user := env.users.Add(t, "ann@example.com", "secret1", enums.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req = req.WithContext(authsvc.WithPrincipal(req.Context(), user))
	rr := httptest.NewRecorder()
	env.handler.Profile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	var payload dto.ProfileResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != user.ID || payload.Role != string(enums.RoleAdmin) {
		t.Fatalf("unexpected profile: %+v", payload)
	}

	rr = httptest.NewRecorder()
	env.handler.Profile(rr, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("profile without principal must be 401, got %d", rr.Code)
	}
}

func TestUpdateProfileRenamesPrincipal(t *testing.T) {
	env := newAuthHandlerEnv(t)
	user := env.users.Add(t, "ann@example.com", "secret1", enums.RoleCustomer)

	req := jsonRequest(t, http.MethodPatch, "/api/auth/profile", dto.UpdateProfileRequest{Name: "Annie"})
	req = req.WithContext(authsvc.WithPrincipal(req.Context(), user))
	rr := httptest.NewRecorder()
	env.handler.UpdateProfile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
	reloaded, err := env.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Name != "Annie" {
		t.Fatalf("name was not saved: %q", reloaded.Name)
	}
}

func TestClassifyAuthErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{authsvc.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{authsvc.ErrPrincipalNotFound, http.StatusNotFound, "PRINCIPAL_NOT_FOUND"},
		{authsvc.ErrExpiredToken, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{authsvc.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{authsvc.ErrStoreUnavailable, http.StatusInternalServerError, "STORE_UNAVAILABLE"},
		{context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, apiErr := classifyAuthError(tc.err)
		if status != tc.status || apiErr.Code != tc.code {
			t.Fatalf("%v: got %d %s want %d %s", tc.err, status, apiErr.Code, tc.status, tc.code)
		}
	}
}

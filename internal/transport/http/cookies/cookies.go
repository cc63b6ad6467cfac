package cookies

import (
	"net/http"
	"time"

	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// Options defines how token cookies are issued.
type Options struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func (o Options) normalize() Options {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteStrictMode
	}
	return o
}

type Binder struct {
	opts Options
	now  func() time.Time
}

func NewBinder(opts Options) *Binder {
	return &Binder{opts: opts.normalize(), now: time.Now}
}

func (b *Binder) SetPair(w http.ResponseWriter, pair authsvc.TokenPair) {
	b.SetAccess(w, pair.Access)
	b.SetRefresh(w, pair.Refresh)
}

func (b *Binder) SetAccess(w http.ResponseWriter, token authsvc.IssuedToken) {
	b.set(w, AccessCookieName, token)
}

func (b *Binder) SetRefresh(w http.ResponseWriter, token authsvc.IssuedToken) {
	b.set(w, RefreshCookieName, token)
}

// Clear expires both token cookies on the client.
func (b *Binder) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     b.opts.Path,
			Domain:   b.opts.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   b.opts.Secure,
			SameSite: b.opts.SameSite,
		})
	}
}

func (b *Binder) set(w http.ResponseWriter, name string, token authsvc.IssuedToken) {
	maxAge := int(token.ExpiresAt.Sub(b.now()).Round(time.Second).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token.Value,
		Path:     b.opts.Path,
		Domain:   b.opts.Domain,
		Expires:  token.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.opts.Secure,
		SameSite: b.opts.SameSite,
	})
}

func AccessToken(r *http.Request) string {
	return value(r, AccessCookieName)
}

func RefreshToken(r *http.Request) string {
	return value(r, RefreshCookieName)
}

func value(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// Transport selects where a request's session token is read from.
type Transport int

const (
	// HeaderOnly reads "Authorization: Bearer <token>".
	HeaderOnly Transport = iota
	// CookieOnly reads the "token" cookie.
	CookieOnly
	// HeaderThenCookie reads the header and falls back to the cookie only
	// when the header is absent.
	HeaderThenCookie
)

// ParseTransport maps a configuration value to a Transport.
func ParseTransport(s string) (Transport, error) {
	switch s {
	case "header":
		return HeaderOnly, nil
	case "cookie":
		return CookieOnly, nil
	case "both", "":
		return HeaderThenCookie, nil
	}
	return 0, fmt.Errorf("auth: unknown token transport %q", s)
}

// UsesCookie reports whether tokens may arrive in the cookie.
func (tr Transport) UsesCookie() bool {
	return tr == CookieOnly || tr == HeaderThenCookie
}

// Extract returns the raw token carried by r. A present but malformed
// Authorization header is rejected even when a cookie is also sent.
func (tr Transport) Extract(r *http.Request) (string, error) {
	if tr != CookieOnly {
		if h := r.Header.Get("Authorization"); h != "" {
			token, ok := strings.CutPrefix(h, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				return "", fmt.Errorf("%w: %w: bad authorization header", models.ErrUnauthenticated, ErrTokenMalformed)
			}
			return token, nil
		}
		if tr == HeaderOnly {
			return "", fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrTokenMissing)
		}
	}

	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrTokenMissing)
	}
	return c.Value, nil
}

// SetCookie writes the session cookie when the transport accepts cookies.
func (tr Transport) SetCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	if !tr.UsesCookie() {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Package session carries the JWT session between the cookie and the request context.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
)

const CookieName = "token"

// Cookies issues and clears the session cookie.
type Cookies struct {
	Tokens *auth.Tokens
	Secure bool
}

// Set issues a token for the user and stores it in the session cookie.
func (c *Cookies) Set(w http.ResponseWriter, creds auth.Credentials) error {
	token, expiresAt, err := c.Tokens.Issue(creds.UserID, creds.Email)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(c.Tokens.TTL() / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	return nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Require rejects requests without a valid session with 401 and stores the
// credentials in the context otherwise.
func Require(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds, err := tokens.Parse(tokenFromRequest(r))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithCredentials(r.Context(), creds)))
		})
	}
}

// Credentials returns the credentials stored by Require.
func Credentials(r *http.Request) auth.Credentials {
	creds, _ := auth.FromContext(r.Context())
	return creds
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

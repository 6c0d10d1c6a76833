package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
)

func TestRequire(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	userID := uuid.New()

	valid, _, err := tokens.Issue(userID, "budi@example.com")
	require.NoError(t, err)

	expired, _, err := auth.NewTokens("secret", -time.Minute).Issue(userID, "")
	require.NoError(t, err)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "Cookie",
			prepare:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: session.CookieName, Value: valid}) },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "Bearer",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "Missing",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Expired",
			prepare:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: session.CookieName, Value: expired}) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "WrongScheme",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Basic "+valid) },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true

				creds := session.Credentials(r)
				assert.Equal(t, userID, creds.UserID)

				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			tt.prepare(req)

			rec := httptest.NewRecorder()
			session.Require(tokens)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusNoContent, called)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestCookies_SetAndClear(t *testing.T) {
	cookies := &session.Cookies{Tokens: auth.NewTokens("secret", 2*time.Hour), Secure: true}

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Set(rec, auth.Credentials{UserID: uuid.New()}))

	set := rec.Result().Cookies()
	require.Len(t, set, 1)
	assert.True(t, set[0].Secure)
	assert.True(t, set[0].HttpOnly)
	assert.Equal(t, 7200, set[0].MaxAge)

	rec = httptest.NewRecorder()
	cookies.Clear(rec)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
}

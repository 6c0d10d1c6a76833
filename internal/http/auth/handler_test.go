package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	httpauth "github.com/MrJamesThe3rd/bivo/internal/http/auth"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	"github.com/MrJamesThe3rd/bivo/internal/user"
)

type fixture struct {
	repo   *user.MockRepository
	seeder *user.MockCategorySeeder
	tokens *auth.Tokens
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:   user.NewMockRepository(ctrl),
		seeder: user.NewMockCategorySeeder(ctrl),
		tokens: auth.NewTokens("secret", time.Hour),
		router: chi.NewRouter(),
	}

	h := httpauth.NewHandler(user.NewService(f.repo, f.seeder), &session.Cookies{Tokens: f.tokens})
	f.router.Route("/api/auth", h.Routes)
	f.router.Route("/api/guest", h.GuestRoutes)

	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}

	return nil
}

func TestHandler_Login(t *testing.T) {
	hash, err := auth.HashPassword("rahasia123")
	require.NoError(t, err)

	email := "budi@example.com"
	registered := &user.User{ID: uuid.New(), Name: "Budi", Email: &email, PasswordHash: &hash}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), email).Return(registered, nil)

		rec := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"Budi@Example.com","password":"rahasia123"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "rahasia123")
		assert.NotContains(t, rec.Body.String(), hash)

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

		creds, err := f.tokens.Parse(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, creds.UserID)
		assert.Equal(t, email, creds.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), email).Return(registered, nil)

		rec := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"budi@example.com","password":"salah"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, sessionCookie(rec))
	})

	t.Run("MissingPassword", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"budi@example.com"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Register_EmailTaken(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().GetUserByEmail(gomock.Any(), "budi@example.com").Return(&user.User{ID: uuid.New()}, nil)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Budi","email":"budi@example.com","password":"rahasia123"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Guest(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
	f.seeder.EXPECT().Seed(gomock.Any(), gomock.Any(), category.GuestSeeds).Return(nil)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/guest", strings.NewReader(`{"name":"Sari"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isGuest":true`)
	assert.NotNil(t, sessionCookie(rec))
}

func TestHandler_Me(t *testing.T) {
	t.Run("NoSession", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("BearerToken", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.EXPECT().GetUser(gomock.Any(), id).Return(&user.User{ID: id, Name: "Budi"}, nil)

		token, _, err := f.tokens.Issue(id, "")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := f.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Budi"`)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.EXPECT().GetUser(gomock.Any(), id).Return(nil, user.ErrNotFound)

		token, _, err := f.tokens.Issue(id, "")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

		assert.Equal(t, http.StatusNotFound, f.do(req).Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

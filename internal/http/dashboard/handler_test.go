package dashboard_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard/memory"
	httpdashboard "github.com/MrJamesThe3rd/bivo/internal/http/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

type snapshotBody struct {
	Summary struct {
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		TotalSavings decimal.Decimal `json:"totalSavings"`
		Balance      decimal.Decimal `json:"balance"`
		Month        int             `json:"month"`
		Year         int             `json:"year"`
	} `json:"summary"`
	ExpensesByCategory []struct {
		Category string          `json:"category"`
		Color    string          `json:"color"`
		Amount   decimal.Decimal `json:"amount"`
		Count    int             `json:"count"`
	} `json:"expensesByCategory"`
	RecentTransactions []json.RawMessage `json:"recentTransactions"`
	MonthlyTrend       []struct {
		Month string `json:"month"`
	} `json:"monthlyTrend"`
}

func newServer(t *testing.T, repo dashboard.Repository) (http.Handler, *auth.Tokens) {
	t.Helper()

	tokens := auth.NewTokens("secret", time.Hour)
	h := httpdashboard.NewHandler(dashboard.NewService(repo, time.UTC))

	r := chi.NewRouter()
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(session.Require(tokens))
		h.Routes(r)
	})

	return r, tokens
}

func authorized(t *testing.T, tokens *auth.Tokens, userID uuid.UUID, target string) *http.Request {
	t.Helper()

	token, _, err := tokens.Issue(userID, "budi@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

	return req
}

func TestHandler_Snapshot(t *testing.T) {
	userID := uuid.New()
	makanan := &category.Category{ID: uuid.New(), UserID: userID, Name: "Makanan", Color: "#EF4444"}

	ledger := memory.New()
	ledger.AddCategory(makanan)
	ledger.Add(
		&transaction.Transaction{
			ID: uuid.New(), UserID: userID, Type: transaction.TypeIncome,
			Amount: decimal.NewFromInt(5000000), Date: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		&transaction.Transaction{
			ID: uuid.New(), UserID: userID, Type: transaction.TypeExpense, CategoryID: &makanan.ID,
			Amount: decimal.NewFromInt(2000000), Date: time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC),
		},
		&transaction.Transaction{
			ID: uuid.New(), UserID: userID, Type: transaction.TypeSavings,
			Amount: decimal.NewFromInt(500000), Date: time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC),
		},
	)

	srv, tokens := newServer(t, ledger)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authorized(t, tokens, userID, "/api/dashboard?month=3&year=2025"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body snapshotBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.True(t, decimal.NewFromInt(5000000).Equal(body.Summary.TotalIncome))
	assert.True(t, decimal.NewFromInt(2500000).Equal(body.Summary.Balance))
	assert.Equal(t, 3, body.Summary.Month)
	assert.Equal(t, 2025, body.Summary.Year)

	require.Len(t, body.ExpensesByCategory, 1)
	assert.Equal(t, "Makanan", body.ExpensesByCategory[0].Category)
	assert.Equal(t, 1, body.ExpensesByCategory[0].Count)

	assert.Len(t, body.RecentTransactions, 3)
	require.Len(t, body.MonthlyTrend, 6)
	assert.Equal(t, "Okt 2024", body.MonthlyTrend[0].Month)
	assert.Equal(t, "Mar 2025", body.MonthlyTrend[5].Month)
}

func TestHandler_Snapshot_EmptyArrays(t *testing.T) {
	srv, tokens := newServer(t, memory.New())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authorized(t, tokens, uuid.New(), "/api/dashboard?month=13&year=2024"))

	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.JSONEq(t, "[]", string(raw["expensesByCategory"]))
	assert.JSONEq(t, "[]", string(raw["recentTransactions"]))

	var body snapshotBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Summary.Month)
	assert.Equal(t, 2025, body.Summary.Year)
}

func TestHandler_Snapshot_DefaultsToCurrentMonth(t *testing.T) {
	srv, tokens := newServer(t, memory.New())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authorized(t, tokens, uuid.New(), "/api/dashboard"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body snapshotBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, time.Now().UTC().Year(), body.Summary.Year)
}

func TestHandler_Snapshot_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		authorize  bool
		setupMock  func(m *dashboard.MockRepository)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "NoSession",
			target:     "/api/dashboard?month=3&year=2025",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Unauthorized"}`,
		},
		{
			name:       "BadMonth",
			target:     "/api/dashboard?month=maret&year=2025",
			authorize:  true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadYear",
			target:     "/api/dashboard?month=3&year=2025.5",
			authorize:  true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:      "RepositoryFailure",
			target:    "/api/dashboard?month=3&year=2025",
			authorize: true,
			setupMock: func(m *dashboard.MockRepository) {
				m.EXPECT().
					SumAmount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(decimal.Zero, errors.New("connection refused")).
					AnyTimes()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := dashboard.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			srv, tokens := newServer(t, repo)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.authorize {
				req = authorized(t, tokens, uuid.New(), tt.target)
			}

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

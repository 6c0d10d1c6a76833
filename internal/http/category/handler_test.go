package category_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	httpcategory "github.com/MrJamesThe3rd/bivo/internal/http/category"
)

func serve(repo category.Repository, userID uuid.UUID, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/api/categories", httpcategory.NewHandler(category.NewService(repo)).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(auth.WithCredentials(context.Background(), auth.Credentials{UserID: userID})))

	return rec
}

func TestHandler_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *category.MockRepository)
		wantStatus int
	}{
		{
			name: "Created",
			body: `{"name":"Kopi","color":"#6F4E37"}`,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().FindByName(gomock.Any(), userID, "Kopi").Return(nil, category.ErrNotFound)
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Duplicate",
			body: `{"name":"Makanan"}`,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().FindByName(gomock.Any(), userID, "Makanan").Return(&category.Category{Name: "Makanan"}, nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingName",
			body:       `{"color":"#6F4E37"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedBody",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(tt.body))
			rec := serve(repo, userID, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Delete_InUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	id := uuid.New()

	repo := category.NewMockRepository(ctrl)
	repo.EXPECT().GetCategory(gomock.Any(), userID, id).Return(&category.Category{ID: id}, nil)
	repo.EXPECT().IsReferenced(gomock.Any(), userID, id).Return(true, nil)

	rec := serve(repo, userID, httptest.NewRequest(http.MethodDelete, "/api/categories/"+id.String(), nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "referenced")
}

func TestHandler_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	id := uuid.New()

	repo := category.NewMockRepository(ctrl)
	repo.EXPECT().GetCategory(gomock.Any(), userID, id).Return(nil, category.ErrNotFound)

	req := httptest.NewRequest(http.MethodPatch, "/api/categories/"+id.String(), strings.NewReader(`{"name":"Jajan"}`))
	rec := serve(repo, userID, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"category not found"}`, rec.Body.String())
}

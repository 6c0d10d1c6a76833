package matching_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo, matching.NewMockCategoryLookup(ctrl))

	userID := uuid.New()
	categoryID := uuid.New()

	repo.EXPECT().FindMatch(gomock.Any(), userID, "GRAB*FOOD 1234").Return(&categoryID, nil)

	got, err := svc.Suggest(context.Background(), userID, "GRAB*FOOD 1234")
	require.NoError(t, err)
	assert.Equal(t, categoryID, *got)

	got, err = svc.Suggest(context.Background(), userID, "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Learn(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	tests := []struct {
		name      string
		pattern   string
		setupMock func(repo *matching.MockRepository, cats *matching.MockCategoryLookup)
		wantErr   error
	}{
		{
			name:    "Success",
			pattern: " grab ",
			setupMock: func(repo *matching.MockRepository, cats *matching.MockCategoryLookup) {
				cats.EXPECT().Get(gomock.Any(), userID, categoryID).Return(&category.Category{ID: categoryID}, nil)
				repo.EXPECT().
					CreateRule(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *matching.Rule) error {
						assert.Equal(t, "grab", r.Pattern)
						r.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "EmptyPattern",
			pattern: "  ",
			wantErr: matching.ErrInvalidPattern,
		},
		{
			name:    "CategoryNotOwned",
			pattern: "grab",
			setupMock: func(_ *matching.MockRepository, cats *matching.MockCategoryLookup) {
				cats.EXPECT().Get(gomock.Any(), userID, categoryID).Return(nil, category.ErrNotFound)
			},
			wantErr: matching.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)
			cats := matching.NewMockCategoryLookup(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, cats)
			}

			rule, err := matching.NewService(repo, cats).Learn(context.Background(), userID, tt.pattern, categoryID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, rule.UserID)
			assert.Equal(t, categoryID, rule.CategoryID)
			assert.NotEqual(t, uuid.Nil, rule.ID)
		})
	}
}

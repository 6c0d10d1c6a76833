package store_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bivo/internal/matching/store"
)

func TestStore_FindMatch_Literal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := uuid.New()
	categoryID := uuid.New()

	// Descriptions carrying LIKE metacharacters are passed through untouched
	// and compared with strpos, never as a LIKE pattern.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND strpos(lower($2), lower(pattern)) > 0")).
		WithArgs(userID, "DISKON 50% KOPI_SUSU").
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow(categoryID.String()))

	got, err := store.New(db).FindMatch(context.Background(), userID, "DISKON 50% KOPI_SUSU")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, categoryID, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindMatch_NoRule(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("ORDER BY LENGTH\\(pattern\\) DESC").
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}))

	got, err := store.New(db).FindMatch(context.Background(), uuid.New(), "ALFAMART")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindMatch_NoLikeOperator(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherFunc(
		func(_, actual string) error {
			assert.NotRegexp(t, `(?i)like`, actual)
			return nil
		},
	)))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("").WillReturnRows(sqlmock.NewRows([]string{"category_id"}))

	_, err = store.New(db).FindMatch(context.Background(), uuid.New(), "100%")
	require.NoError(t, err)
}

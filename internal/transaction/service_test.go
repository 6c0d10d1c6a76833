package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/events"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

type mocks struct {
	repo       *transaction.MockRepository
	categories *transaction.MockCategoryLookup
	publisher  *events.MockPublisher
}

func newService(t *testing.T) (*transaction.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:       transaction.NewMockRepository(ctrl),
		categories: transaction.NewMockCategoryLookup(ctrl),
		publisher:  events.NewMockPublisher(ctrl),
	}

	return transaction.NewService(m.repo, m.categories, m.publisher), m
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	makanan := &category.Category{ID: categoryID, UserID: userID, Name: "Makanan", Color: "#EF4444"}
	date := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(2000000),
				Type:        transaction.TypeExpense,
				CategoryID:  &categoryID,
				Description: "Belanja bulanan",
				Date:        date,
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().Get(gomock.Any(), userID, categoryID).Return(makanan, nil)
				m.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
				m.publisher.EXPECT().
					Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e events.Event) error {
						assert.Equal(t, events.KindTransactionCreated, e.Kind)
						assert.Equal(t, userID, e.UserID)
						return nil
					})
			},
		},
		{
			name: "SavingsWithoutCategory",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(500000),
				Type:        transaction.TypeSavings,
				Description: "Tabungan",
				Date:        date,
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "PublishFailureIgnored",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(500000),
				Type:        transaction.TypeSavings,
				Description: "Tabungan",
				Date:        date,
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
		},
		{
			name: "ZeroAmount",
			params: transaction.CreateParams{
				Amount:      decimal.Zero,
				Type:        transaction.TypeSavings,
				Description: "Tabungan",
			},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name: "NegativeAmount",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(-10),
				Type:        transaction.TypeSavings,
				Description: "Tabungan",
			},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name: "MissingDescription",
			params: transaction.CreateParams{
				Amount: decimal.NewFromInt(10),
				Type:   transaction.TypeSavings,
			},
			wantErr: transaction.ErrInvalid,
		},
		{
			name: "BadType",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(10),
				Type:        "TRANSFER",
				Description: "x",
			},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name: "ExpenseWithoutCategory",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(10),
				Type:        transaction.TypeExpense,
				Description: "Kopi",
			},
			wantErr: transaction.ErrCategoryRequired,
		},
		{
			name: "CategoryNotOwned",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(10),
				Type:        transaction.TypeIncome,
				CategoryID:  &categoryID,
				Description: "Gaji",
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().Get(gomock.Any(), userID, categoryID).Return(nil, category.ErrNotFound)
			},
			wantErr: transaction.ErrCategoryNotFound,
		},
		{
			name: "RepoError",
			params: transaction.CreateParams{
				Amount:      decimal.NewFromInt(10),
				Type:        transaction.TypeSavings,
				Description: "Tabungan",
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Create(context.Background(), userID, tt.params)

			if tt.wantErr != nil {
				assert.ErrorContains(t, err, tt.wantErr.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, date, got.Date)

			if tt.params.CategoryID != nil {
				require.NotNil(t, got.Category)
				assert.Equal(t, "Makanan", got.Category.Name)
			}
		})
	}
}

func TestService_Create_DefaultsDateToNow(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Create(context.Background(), uuid.New(), transaction.CreateParams{
		Amount:      decimal.NewFromInt(1),
		Type:        transaction.TypeSavings,
		Description: "Celengan",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got.Date, 5*time.Second)
}

func TestService_List(t *testing.T) {
	userID := uuid.New()
	expense := transaction.TypeExpense
	filter := transaction.ListFilter{Type: &expense}

	tests := []struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), userID, filter).
					Return([]*transaction.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), userID, filter).Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m.repo)

			got, err := svc.List(context.Background(), userID, filter)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	existing := func() *transaction.Transaction {
		return &transaction.Transaction{
			ID:          id,
			UserID:      userID,
			Amount:      decimal.NewFromInt(100),
			Type:        transaction.TypeSavings,
			Description: "Tabungan",
			Date:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("Partial", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(existing(), nil)
		m.repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Update(context.Background(), userID, id, transaction.UpdateParams{
			Amount: new(decimal.NewFromInt(250)),
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(250).Equal(got.Amount))
		assert.Equal(t, "Tabungan", got.Description)
	})

	t.Run("SwitchToExpenseNeedsCategory", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(existing(), nil)

		_, err := svc.Update(context.Background(), userID, id, transaction.UpdateParams{
			Type: new(transaction.TypeExpense),
		})
		assert.ErrorIs(t, err, transaction.ErrCategoryRequired)
	})

	t.Run("NotOwned", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(nil, transaction.ErrNotFound)

		_, err := svc.Update(context.Background(), userID, id, transaction.UpdateParams{})
		assert.ErrorIs(t, err, transaction.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().DeleteTransaction(gomock.Any(), userID, id).Return(nil)
		m.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e events.Event) error {
				assert.Equal(t, events.KindTransactionDeleted, e.Kind)
				assert.Equal(t, id, e.TransactionID)
				return nil
			})

		assert.NoError(t, svc.Delete(context.Background(), userID, id))
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().DeleteTransaction(gomock.Any(), userID, id).Return(transaction.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), userID, id), transaction.ErrNotFound)
	})
}

func importParams(date time.Time) []transaction.CreateParams {
	return []transaction.CreateParams{
		{
			Amount:         decimal.NewFromInt(25000),
			Type:           transaction.TypeSavings,
			Description:    "Coffee",
			RawDescription: "COFFEE SHOP",
			Date:           date,
		},
		{
			Amount:         decimal.NewFromInt(50000),
			Type:           transaction.TypeSavings,
			Description:    "Lunch",
			RawDescription: "LUNCH PLACE",
			Date:           date,
		},
	}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	svc, m := newService(t)

	ctrl := gomock.NewController(t)
	itx := transaction.NewMockImportTx(ctrl)

	userID := uuid.New()
	params := importParams(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), userID, gomock.Len(2)).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	svc, m := newService(t)

	ctrl := gomock.NewController(t)
	itx := transaction.NewMockImportTx(ctrl)

	userID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := importParams(date)

	existing := &transaction.Transaction{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         decimal.RequireFromString("25000.00"),
		Type:           transaction.TypeSavings,
		RawDescription: "COFFEE SHOP",
		Date:           date.Add(9 * time.Hour),
	}

	m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), userID, gomock.Any()).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.New, 1)
	assert.Equal(t, "Lunch", result.New[0].Description)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	svc, _ := newService(t)

	params := importParams(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	params[1].Amount = decimal.Zero

	_, err := svc.ImportBatch(context.Background(), uuid.New(), params)
	assert.ErrorIs(t, err, transaction.ErrInvalidAmount)
	assert.ErrorContains(t, err, "row 2")
}

func TestService_ImportBatch_Empty(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.ImportBatch(context.Background(), uuid.New(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	svc, m := newService(t)

	ctrl := gomock.NewController(t)
	itx := transaction.NewMockImportTx(ctrl)

	userID := uuid.New()
	params := importParams(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))[:1]

	m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	txs, err := svc.CreateBatch(context.Background(), userID, params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, userID, txs[0].UserID)
	assert.True(t, decimal.NewFromInt(25000).Equal(txs[0].Amount))
	assert.Equal(t, transaction.TypeSavings, txs[0].Type)
}

func pendingCategoryParams(date time.Time) []transaction.CreateParams {
	return []transaction.CreateParams{
		{
			Amount:       decimal.NewFromInt(75000),
			Type:         transaction.TypeExpense,
			CategoryName: " Hobi ",
			Description:  "Senar gitar",
			Date:         date,
		},
		{
			Amount:       decimal.NewFromInt(15000),
			Type:         transaction.TypeExpense,
			CategoryName: "Hobi",
			Description:  "Pick gitar",
			Date:         date,
		},
	}
}

func TestService_ImportBatch_PendingCategory(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	hobi := &transaction.Category{ID: uuid.New(), Name: "Hobi", Color: "#3B82F6"}

	t.Run("CreatedOnceAfterDuplicateCheck", func(t *testing.T) {
		svc, m := newService(t)
		itx := transaction.NewMockImportTx(gomock.NewController(t))

		m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
		gomock.InOrder(
			itx.EXPECT().FindDuplicates(gomock.Any(), userID, gomock.Len(2)).Return(nil, nil),
			itx.EXPECT().EnsureCategory(gomock.Any(), userID, "Hobi").Return(hobi, nil).Times(1),
			itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil),
			itx.EXPECT().Commit().Return(nil),
		)
		itx.EXPECT().Rollback().Return(nil)
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		result, err := svc.ImportBatch(context.Background(), userID, pendingCategoryParams(date))
		require.NoError(t, err)
		require.Len(t, result.Imported, 2)

		for _, tx := range result.Imported {
			require.NotNil(t, tx.CategoryID)
			assert.Equal(t, hobi.ID, *tx.CategoryID)
			assert.Equal(t, hobi, tx.Category)
		}
	})

	t.Run("NotCreatedOnConflict", func(t *testing.T) {
		svc, m := newService(t)
		itx := transaction.NewMockImportTx(gomock.NewController(t))

		existing := &transaction.Transaction{
			ID:     uuid.New(),
			UserID: userID,
			Amount: decimal.NewFromInt(15000),
			Type:   transaction.TypeExpense,
			Date:   date,
		}

		m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), userID, gomock.Any()).Return([]*transaction.Transaction{existing}, nil)
		itx.EXPECT().Rollback().Return(nil)

		result, err := svc.ImportBatch(context.Background(), userID, pendingCategoryParams(date))
		require.NoError(t, err)
		require.Len(t, result.Conflicts, 1)
		assert.Equal(t, "Hobi", result.Conflicts[0].Incoming.CategoryName)
		require.Len(t, result.New, 1)
		assert.Equal(t, " Hobi ", result.New[0].CategoryName)
	})

	t.Run("EnsureFailureAborts", func(t *testing.T) {
		svc, m := newService(t)
		itx := transaction.NewMockImportTx(gomock.NewController(t))

		dbErr := errors.New("db down")

		m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), userID, gomock.Any()).Return(nil, nil)
		itx.EXPECT().EnsureCategory(gomock.Any(), userID, "Hobi").Return(nil, dbErr)
		itx.EXPECT().Rollback().Return(nil)

		_, err := svc.ImportBatch(context.Background(), userID, pendingCategoryParams(date))
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_CreateBatch_PendingCategory(t *testing.T) {
	svc, m := newService(t)
	itx := transaction.NewMockImportTx(gomock.NewController(t))

	userID := uuid.New()
	hobi := &transaction.Category{ID: uuid.New(), Name: "Hobi", Color: "#3B82F6"}
	params := pendingCategoryParams(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	gomock.InOrder(
		itx.EXPECT().EnsureCategory(gomock.Any(), userID, "Hobi").Return(hobi, nil),
		itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil),
		itx.EXPECT().Commit().Return(nil),
	)
	itx.EXPECT().Rollback().Return(nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	txs, err := svc.CreateBatch(context.Background(), userID, params)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, hobi.ID, *txs[1].CategoryID)
}

func TestService_ImportBatch_MissingCategoryStillRejected(t *testing.T) {
	svc, _ := newService(t)

	params := pendingCategoryParams(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	params[1].CategoryName = "  "

	_, err := svc.ImportBatch(context.Background(), uuid.New(), params)
	assert.ErrorIs(t, err, transaction.ErrCategoryRequired)
	assert.ErrorContains(t, err, "row 2")
}

func TestParseType(t *testing.T) {
	got, err := transaction.ParseType(" expense ")
	require.NoError(t, err)
	assert.Equal(t, transaction.TypeExpense, got)

	_, err = transaction.ParseType("transfer")
	assert.ErrorIs(t, err, transaction.ErrInvalidType)
}

package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/importer"
	"github.com/MrJamesThe3rd/bivo/internal/importer/parser"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

const ledgerCSV = `Tanggal;Tipe;Kategori;Deskripsi;Jumlah
2025-03-01;INCOME;Gaji;Gaji Maret;5000000
2025-03-02;EXPENSE;Makanan;Sarapan;25000
2025-03-03;EXPENSE;makanan;Makan siang;40000
2025-03-04;SAVINGS;;Tabungan;500000
`

func TestService_Import_LedgerCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	finder := importer.NewMockCategoryFinder(ctrl)
	suggester := importer.NewMockSuggester(ctrl)
	svc := importer.NewService(time.UTC, finder, suggester)

	userID := uuid.New()
	gaji := &category.Category{ID: uuid.New(), Name: "Gaji"}
	makanan := &category.Category{ID: uuid.New(), Name: "Makanan"}

	finder.EXPECT().FindByName(gomock.Any(), userID, "Gaji").Return(gaji, nil)
	finder.EXPECT().FindByName(gomock.Any(), userID, "Makanan").Return(makanan, nil)
	finder.EXPECT().FindByName(gomock.Any(), userID, "makanan").Return(nil, category.ErrNotFound)
	suggester.EXPECT().Suggest(gomock.Any(), userID, "Tabungan").Return(nil, nil)

	batch, err := svc.Import(context.Background(), userID, strings.NewReader(ledgerCSV), importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, parser.ProfileBivo, batch.Profile)
	require.Len(t, batch.Params, 4)

	assert.Equal(t, gaji.ID, *batch.Params[0].CategoryID)
	assert.Equal(t, makanan.ID, *batch.Params[1].CategoryID)
	assert.Nil(t, batch.Params[2].CategoryID)
	assert.Equal(t, "makanan", batch.Params[2].CategoryName)
	assert.Empty(t, batch.Params[1].CategoryName)
	assert.Nil(t, batch.Params[3].CategoryID)
	assert.Equal(t, transaction.TypeSavings, batch.Params[3].Type)
	assert.Equal(t, "Sarapan", batch.Params[1].RawDescription)
}

func TestService_Import_UnknownCategoryStaysPending(t *testing.T) {
	csv := `Tanggal;Tipe;Kategori;Deskripsi;Jumlah
2025-03-01;EXPENSE;Hobi;Senar gitar;75000
2025-03-02;EXPENSE; Hobi ;Pick gitar;15000
`

	ctrl := gomock.NewController(t)
	finder := importer.NewMockCategoryFinder(ctrl)
	svc := importer.NewService(time.UTC, finder, importer.NewMockSuggester(ctrl))

	userID := uuid.New()

	// Looked up once; the repeated name is served from the batch cache.
	finder.EXPECT().FindByName(gomock.Any(), userID, "Hobi").Return(nil, category.ErrNotFound).Times(1)

	batch, err := svc.Import(context.Background(), userID, strings.NewReader(csv), importer.Options{})
	require.NoError(t, err)
	require.Len(t, batch.Params, 2)

	for _, p := range batch.Params {
		assert.Nil(t, p.CategoryID)
		assert.Equal(t, "Hobi", p.CategoryName)
	}
}

func TestService_Import_RulesAndFallback(t *testing.T) {
	csv := `Date;Description;Debit;Credit
03/03/2025;GRAB*FOOD;50.000;
04/03/2025;ALFAMART;20.000;
`

	ctrl := gomock.NewController(t)
	finder := importer.NewMockCategoryFinder(ctrl)
	suggester := importer.NewMockSuggester(ctrl)
	svc := importer.NewService(time.UTC, finder, suggester)

	userID := uuid.New()
	ruleCategory := uuid.New()
	fallback := uuid.New()

	suggester.EXPECT().Suggest(gomock.Any(), userID, "GRAB*FOOD").Return(&ruleCategory, nil)
	suggester.EXPECT().Suggest(gomock.Any(), userID, "ALFAMART").Return(nil, nil)

	batch, err := svc.Import(context.Background(), userID, strings.NewReader(csv), importer.Options{
		Profile:            parser.ProfileBank,
		FallbackCategoryID: &fallback,
	})
	require.NoError(t, err)
	require.Len(t, batch.Params, 2)
	assert.Equal(t, ruleCategory, *batch.Params[0].CategoryID)
	assert.Equal(t, fallback, *batch.Params[1].CategoryID)
}

func TestService_Import_MissingCategory(t *testing.T) {
	csv := `Date;Description;Debit;Credit
03/03/2025;UNKNOWN SHOP;50.000;
`

	ctrl := gomock.NewController(t)
	suggester := importer.NewMockSuggester(ctrl)
	svc := importer.NewService(time.UTC, importer.NewMockCategoryFinder(ctrl), suggester)

	suggester.EXPECT().Suggest(gomock.Any(), gomock.Any(), "UNKNOWN SHOP").Return(nil, nil)

	_, err := svc.Import(context.Background(), uuid.New(), strings.NewReader(csv), importer.Options{})
	assert.ErrorIs(t, err, importer.ErrMissingCategory)
	assert.ErrorContains(t, err, "row 2")
}

func TestService_Import_LookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	finder := importer.NewMockCategoryFinder(ctrl)
	svc := importer.NewService(time.UTC, finder, importer.NewMockSuggester(ctrl))

	dbErr := errors.New("db down")
	finder.EXPECT().FindByName(gomock.Any(), gomock.Any(), "Gaji").Return(nil, dbErr)

	_, err := svc.Import(context.Background(), uuid.New(), strings.NewReader(ledgerCSV), importer.Options{})
	assert.ErrorIs(t, err, dbErr)
}

func TestService_Import_ParseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := importer.NewService(time.UTC, importer.NewMockCategoryFinder(ctrl), importer.NewMockSuggester(ctrl))

	_, err := svc.Import(context.Background(), uuid.New(), strings.NewReader("nothing;useful\n"), importer.Options{})
	assert.ErrorIs(t, err, parser.ErrNoHeader)
}

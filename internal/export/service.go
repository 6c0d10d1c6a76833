package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/currency"
	"github.com/MrJamesThe3rd/bivo/internal/importer/parser"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

const (
	TransactionsFile = "transactions.csv"
	SummaryFile      = "summary.txt"

	uncategorized = "Tanpa Kategori"
)

//go:generate mockgen -source=service.go -destination=lister_mock.go -package=export
type TransactionLister interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Report is an export of a user's ledger over an optional date range.
type Report struct {
	Transactions []*transaction.Transaction
	Summary      string
}

type Service struct {
	transactions TransactionLister
	loc          *time.Location
}

func NewService(transactions TransactionLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{transactions: transactions, loc: loc}
}

// Export lists the user's transactions in the range, oldest first, with a
// plain text summary.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*Report, error) {
	txs, err := s.transactions.List(ctx, userID, transaction.ListFilter{StartDate: start, EndDate: end})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	ordered := make([]*transaction.Transaction, len(txs))
	for i, tx := range txs {
		ordered[len(txs)-1-i] = tx
	}

	return &Report{Transactions: ordered, Summary: s.Summary(ordered)}, nil
}

// Summary renders one line per transaction followed by the totals per type.
func (s *Service) Summary(txs []*transaction.Transaction) string {
	var sb strings.Builder

	totals := map[transaction.Type]decimal.Decimal{}

	for _, tx := range txs {
		totals[tx.Type] = totals[tx.Type].Add(tx.Amount)

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			tx.Date.In(s.loc).Format(time.DateOnly),
			categoryName(tx),
			currency.FormatSigned(tx.Amount, tx.Type != transaction.TypeIncome),
			tx.Description,
		)
	}

	income := totals[transaction.TypeIncome]
	expense := totals[transaction.TypeExpense]
	savings := totals[transaction.TypeSavings]

	if len(txs) > 0 {
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Pemasukan:   %s\n", currency.Format(income))
	fmt.Fprintf(&sb, "Pengeluaran: %s\n", currency.Format(expense))
	fmt.Fprintf(&sb, "Tabungan:    %s\n", currency.Format(savings))
	fmt.Fprintf(&sb, "Saldo:       %s\n", currency.Format(income.Sub(expense).Sub(savings)))

	return sb.String()
}

// WriteCSV writes txs in the bivo import layout.
func (s *Service) WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	p := parser.Bivo
	if err := cw.Write([]string{p.DateCol, p.TypeCol, p.CategoryCol, p.DescCol, p.AmountCol}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		category := ""
		if tx.Category != nil {
			category = tx.Category.Name
		}

		record := []string{
			tx.Date.In(s.loc).Format(time.DateOnly),
			string(tx.Type),
			category,
			tx.Description,
			strings.Replace(tx.Amount.StringFixed(2), ".", ",", 1),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteArchive writes a zip holding the CSV ledger and the summary.
func (s *Service) WriteArchive(w io.Writer, report *Report) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create(TransactionsFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", TransactionsFile, err)
	}

	if err := s.WriteCSV(f, report.Transactions); err != nil {
		return err
	}

	f, err = zw.Create(SummaryFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", SummaryFile, err)
	}

	if _, err := io.WriteString(f, report.Summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return zw.Close()
}

// WriteDir stores the CSV ledger and the summary in dir, creating it if needed.
func (s *Service) WriteDir(dir string, report *Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, TransactionsFile))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := s.WriteCSV(f, report.Transactions); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, SummaryFile), []byte(report.Summary), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}

func categoryName(tx *transaction.Transaction) string {
	if tx.Category == nil {
		return uncategorized
	}

	return tx.Category.Name
}

package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/bivo/internal/encoding"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

var (
	ErrUnknownProfile = errors.New("unknown import profile")
	ErrNoHeader       = errors.New("no matching CSV header found")
	ErrMalformed      = errors.New("malformed CSV file")
	ErrNoDescription  = errors.New("missing description")
)

// typeAliases accepts the Indonesian labels next to the canonical names.
var typeAliases = map[string]transaction.Type{
	"PEMASUKAN":   transaction.TypeIncome,
	"PENGELUARAN": transaction.TypeExpense,
	"TABUNGAN":    transaction.TypeSavings,
}

// Row is one parsed line. Category is the raw category name, if the format has one.
type Row struct {
	Line        int
	Date        time.Time
	Type        transaction.Type
	Category    string
	Description string
	Amount      decimal.Decimal
}

type Result struct {
	Profile string
	Charset enc.Charset
	Rows    []Row
}

// Parser reads semicolon separated CSV files. The header row may be preceded
// by any number of metadata lines; the first row matching a profile wins.
type Parser struct {
	loc *time.Location
}

func New(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}

	return &Parser{loc: loc}
}

// Parse decodes r and extracts its rows. An empty profileName auto-detects the format.
func (p *Parser) Parse(r io.Reader, profileName string) (*Result, error) {
	candidates := profiles

	if profileName != "" {
		profile, ok := lookupProfile(profileName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profileName)
		}

		candidates = []Profile{*profile}
	}

	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: detect encoding: %v", ErrMalformed, err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	profile, cols, headerIdx := detectProfile(candidates, records)
	if profile == nil {
		return nil, fmt.Errorf("%w: expected one of %s", ErrNoHeader, strings.Join(ProfileNames(), ", "))
	}

	rows, err := p.parseRows(profile, cols, records[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	return &Result{Profile: profile.Name, Charset: charset, Rows: rows}, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) int {
	if name == "" {
		return -1
	}

	idx, ok := c[strings.ToLower(name)]
	if !ok {
		return -1
	}

	return idx
}

func detectProfile(candidates []Profile, records [][]string) (*Profile, colIndex, int) {
	for rowIdx, record := range records {
		cols := make(colIndex)

		for i, cell := range record {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range candidates {
			if matchesProfile(&candidates[i], cols) {
				return &candidates[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if cols.get(name) < 0 {
			return false
		}
	}

	return true
}

// parseRows skips rows without a parseable date (footers, page markers) or
// without a usable amount. A dated row without description is an error.
func (p *Parser) parseRows(profile *Profile, cols colIndex, records [][]string, headerRowNum int) ([]Row, error) {
	dateIdx := cols.get(profile.DateCol)
	descIdx := cols.get(profile.DescCol)
	categoryIdx := cols.get(profile.CategoryCol)

	rows := []Row{}

	for i, record := range records {
		line := headerRowNum + i + 1

		date, ok := p.parseDate(profile, cellValue(record, dateIdx))
		if !ok {
			continue
		}

		desc := cellValue(record, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: %w", line, ErrNoDescription)
		}

		amount, txType, ok, err := parseAmountAndType(profile, cols, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		if !ok {
			continue
		}

		rows = append(rows, Row{
			Line:        line,
			Date:        date,
			Type:        txType,
			Category:    cellValue(record, categoryIdx),
			Description: desc,
			Amount:      amount,
		})
	}

	return rows, nil
}

func (p *Parser) parseDate(profile *Profile, s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range profile.DateLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseAmountAndType(p *Profile, cols colIndex, record []string) (decimal.Decimal, transaction.Type, bool, error) {
	switch p.AmountMode {
	case amountTyped:
		return parseTypedAmount(record, cols.get(p.TypeCol), cols.get(p.AmountCol))
	case amountSingle:
		amount, typ, ok := parseSignedAmount(cellValue(record, cols.get(p.AmountCol)))
		return amount, typ, ok, nil
	case amountSplit:
		amount, typ, ok := parseSplitAmount(record, cols.get(p.DebitCol), cols.get(p.CreditCol))
		return amount, typ, ok, nil
	}

	return decimal.Zero, "", false, nil
}

func parseTypedAmount(record []string, typeIdx, amountIdx int) (decimal.Decimal, transaction.Type, bool, error) {
	raw := cellValue(record, typeIdx)

	typ, ok := typeAliases[strings.ToUpper(raw)]
	if !ok {
		parsed, err := transaction.ParseType(raw)
		if err != nil {
			return decimal.Zero, "", false, err
		}

		typ = parsed
	}

	amount, err := ParseAmount(cellValue(record, amountIdx))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, "", false, nil
	}

	return amount, typ, true, nil
}

func parseSignedAmount(s string) (decimal.Decimal, transaction.Type, bool) {
	if s == "" {
		return decimal.Zero, "", false
	}

	amount, err := ParseAmount(s)
	if err != nil || amount.IsZero() {
		return decimal.Zero, "", false
	}

	if amount.IsNegative() {
		return amount.Neg(), transaction.TypeExpense, true
	}

	return amount, transaction.TypeIncome, true
}

func parseSplitAmount(record []string, debitIdx, creditIdx int) (decimal.Decimal, transaction.Type, bool) {
	if s := cellValue(record, debitIdx); s != "" {
		amount, err := ParseAmount(s)
		if err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeExpense, true
		}
	}

	if s := cellValue(record, creditIdx); s != "" {
		amount, err := ParseAmount(s)
		if err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

func cellValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

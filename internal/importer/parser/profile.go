package parser

import "strings"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountTyped is an unsigned amount next to an explicit type column.
	amountTyped amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
	// amountSingle is one signed column, negative for expenses.
	amountSingle
)

// Profile describes the column layout of a CSV format.
type Profile struct {
	Name        string
	DateCol     string
	DateLayouts []string
	DescCol     string
	CategoryCol string // optional
	TypeCol     string // amountTyped
	AmountMode  amountMode
	AmountCol   string // amountTyped and amountSingle
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
}

const (
	ProfileBivo   = "bivo"
	ProfileBank   = "bank"
	ProfileMutasi = "mutasi"
)

// Bivo is the layout written by the ledger export, so exports re-import cleanly.
var Bivo = Profile{
	Name:        ProfileBivo,
	DateCol:     "Tanggal",
	DateLayouts: []string{"2006-01-02", "02/01/2006"},
	DescCol:     "Deskripsi",
	CategoryCol: "Kategori",
	TypeCol:     "Tipe",
	AmountMode:  amountTyped,
	AmountCol:   "Jumlah",
}

// profiles is the detection order. More specific profiles come first.
var profiles = []Profile{
	Bivo,
	{
		Name:        ProfileBank,
		DateCol:     "Date",
		DateLayouts: []string{"02/01/2006", "2006-01-02", "02-01-2006", "02 Jan 2006"},
		DescCol:     "Description",
		AmountMode:  amountSplit,
		DebitCol:    "Debit",
		CreditCol:   "Credit",
	},
	{
		Name:        ProfileMutasi,
		DateCol:     "Tanggal",
		DateLayouts: []string{"02/01/2006", "2006-01-02", "02-01-2006"},
		DescCol:     "Keterangan",
		AmountMode:  amountSingle,
		AmountCol:   "Mutasi",
	},
}

// ProfileNames lists the supported profile names in detection order.
func ProfileNames() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}

	return names
}

func lookupProfile(name string) (*Profile, bool) {
	for i := range profiles {
		if strings.EqualFold(profiles[i].Name, name) {
			return &profiles[i], true
		}
	}

	return nil, false
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountTyped:
		cols = append(cols, p.TypeCol, p.AmountCol)
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/importer/parser"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

// txFormValues backs the transaction form. It is shared by pointer so huh
// can write into it while the owning model is passed around by value.
type txFormValues struct {
	id          uuid.UUID // zero when creating
	raw         string
	typ         string
	categoryID  string
	amount      string
	description string
	date        string
	remember    bool
}

func newTxFormValues(tx *transaction.Transaction, loc *time.Location) *txFormValues {
	if tx == nil {
		return &txFormValues{
			typ:  string(transaction.TypeExpense),
			date: FormatDate(time.Now().In(loc)),
		}
	}

	v := &txFormValues{
		id:          tx.ID,
		raw:         tx.RawDescription,
		typ:         string(tx.Type),
		amount:      tx.Amount.String(),
		description: tx.Description,
		date:        FormatDate(tx.Date.In(loc)),
	}

	if tx.CategoryID != nil {
		v.categoryID = tx.CategoryID.String()
	}

	return v
}

func newTxForm(v *txFormValues, categories []*category.Category) *huh.Form {
	typeOptions := make([]huh.Option[string], len(transaction.Types))
	for i, t := range transaction.Types {
		typeOptions[i] = huh.NewOption(strings.ToLower(string(t)), string(t))
	}

	catOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, c := range categories {
		catOptions = append(catOptions, huh.NewOption(c.Name, c.ID.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions...).
				Value(&v.typ),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(catOptions...).
				Value(&v.categoryID).
				Validate(func(s string) error {
					if s == "" && transaction.Type(v.typ).RequiresCategory() {
						return errors.New("category is required for " + strings.ToLower(v.typ))
					}

					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Placeholder("25.000").
				Value(&v.amount).
				Validate(func(s string) error {
					d, err := parser.ParseAmount(s)
					if err != nil || !d.IsPositive() {
						return errors.New("enter an amount greater than zero")
					}

					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&v.description).
				Validate(required("description")),
			huh.NewInput().
				Title("Date").
				Placeholder(time.DateOnly).
				Value(&v.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return errors.New("date must be YYYY-MM-DD")
					}

					return nil
				}),
			huh.NewConfirm().
				Title("Remember this category for similar descriptions?").
				Affirmative("Yes").
				Negative("No").
				Value(&v.remember),
		),
	).WithWidth(60).WithShowHelp(false)
}

type txSavedMsg struct {
	tx      *transaction.Transaction
	learned bool
	err     error
}

// saveCmd creates or updates the transaction and optionally learns a rule
// from its description.
func (v *txFormValues) saveCmd(svc *Services, creds auth.Credentials) tea.Cmd {
	values := *v

	return func() tea.Msg {
		amount, err := parser.ParseAmount(values.amount)
		if err != nil {
			return txSavedMsg{err: fmt.Errorf("invalid amount: %w", err)}
		}

		date, err := time.ParseInLocation(time.DateOnly, values.date, svc.Location)
		if err != nil {
			return txSavedMsg{err: fmt.Errorf("invalid date: %w", err)}
		}

		var categoryID *uuid.UUID
		if values.categoryID != "" {
			id, err := uuid.Parse(values.categoryID)
			if err != nil {
				return txSavedMsg{err: err}
			}

			categoryID = &id
		}

		typ := transaction.Type(values.typ)
		desc := strings.TrimSpace(values.description)

		ctx, cancel := DbCtx()
		defer cancel()

		var tx *transaction.Transaction

		if values.id == uuid.Nil {
			tx, err = svc.Transactions.Create(ctx, creds.UserID, transaction.CreateParams{
				Amount:      amount,
				Type:        typ,
				CategoryID:  categoryID,
				Description: desc,
				Date:        date,
			})
		} else {
			tx, err = svc.Transactions.Update(ctx, creds.UserID, values.id, transaction.UpdateParams{
				Amount:      &amount,
				Type:        &typ,
				CategoryID:  categoryID,
				Description: &desc,
				Date:        &date,
			})
		}

		if err != nil {
			return txSavedMsg{err: err}
		}

		if !values.remember || categoryID == nil {
			return txSavedMsg{tx: tx}
		}

		pattern := values.raw
		if pattern == "" {
			pattern = desc
		}

		if _, err := svc.Rules.Learn(ctx, creds.UserID, pattern, *categoryID); err != nil {
			return txSavedMsg{tx: tx, err: fmt.Errorf("saved, but learning rule failed: %w", err)}
		}

		return txSavedMsg{tx: tx, learned: true}
	}
}

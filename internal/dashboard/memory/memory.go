// Package memory implements the dashboard repository as a fold over an
// in-process slice of transactions.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

type Ledger struct {
	mu           sync.RWMutex
	transactions []*transaction.Transaction
	categories   map[uuid.UUID]*category.Category
}

func New() *Ledger {
	return &Ledger{categories: make(map[uuid.UUID]*category.Category)}
}

func (l *Ledger) AddCategory(c *category.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.categories[c.ID] = c
}

func (l *Ledger) Add(txs ...*transaction.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transactions = append(l.transactions, txs...)
}

// each calls fn for every transaction of userID, optionally restricted to typ and p.
func (l *Ledger) each(userID uuid.UUID, typ transaction.Type, p *dashboard.Period, fn func(*transaction.Transaction)) {
	for _, tx := range l.transactions {
		if tx.UserID != userID {
			continue
		}

		if typ != "" && tx.Type != typ {
			continue
		}

		if p != nil && !p.Contains(tx.Date) {
			continue
		}

		fn(tx)
	}
}

func (l *Ledger) SumAmount(_ context.Context, userID uuid.UUID, typ transaction.Type, p dashboard.Period) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := decimal.Zero

	l.each(userID, typ, &p, func(tx *transaction.Transaction) {
		sum = sum.Add(tx.Amount)
	})

	return sum, nil
}

func (l *Ledger) GroupByCategory(_ context.Context, userID uuid.UUID, typ transaction.Type, p dashboard.Period) ([]dashboard.CategoryTotal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	type group struct {
		id     *uuid.UUID
		amount decimal.Decimal
		count  int
	}

	var order []uuid.UUID

	groups := make(map[uuid.UUID]*group)

	l.each(userID, typ, &p, func(tx *transaction.Transaction) {
		var key uuid.UUID
		if tx.CategoryID != nil {
			key = *tx.CategoryID
		}

		g, ok := groups[key]
		if !ok {
			g = &group{id: tx.CategoryID, amount: decimal.Zero}
			groups[key] = g
			order = append(order, key)
		}

		g.amount = g.amount.Add(tx.Amount)
		g.count++
	})

	totals := make([]dashboard.CategoryTotal, 0, len(order))
	for _, key := range order {
		g := groups[key]
		totals = append(totals, dashboard.CategoryTotal{CategoryID: g.id, Amount: g.amount, Count: g.count})
	}

	return totals, nil
}

func (l *Ledger) FindCategoriesByIDs(_ context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*category.Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var found []*category.Category

	for _, id := range ids {
		if c, ok := l.categories[id]; ok && c.UserID == userID {
			found = append(found, c)
		}
	}

	return found, nil
}

func (l *Ledger) FindRecentTransactions(_ context.Context, userID uuid.UUID, limit int) ([]*transaction.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	recent := []*transaction.Transaction{}

	l.each(userID, "", nil, func(tx *transaction.Transaction) {
		cp := *tx
		if cp.CategoryID != nil {
			if c, ok := l.categories[*cp.CategoryID]; ok {
				cp.Category = &transaction.Category{ID: c.ID, Name: c.Name, Color: c.Color}
			}
		}

		recent = append(recent, &cp)
	})

	sort.SliceStable(recent, func(i, j int) bool {
		if !recent[i].Date.Equal(recent[j].Date) {
			return recent[i].Date.After(recent[j].Date)
		}

		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}

	return recent, nil
}

func (l *Ledger) LifetimeStats(_ context.Context, userID uuid.UUID) (*dashboard.Stats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := &dashboard.Stats{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	used := make(map[uuid.UUID]struct{})

	l.each(userID, "", nil, func(tx *transaction.Transaction) {
		stats.TotalTransactions++

		switch tx.Type {
		case transaction.TypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount)
		case transaction.TypeExpense:
			stats.TotalExpense = stats.TotalExpense.Add(tx.Amount)
		}

		if tx.CategoryID != nil {
			used[*tx.CategoryID] = struct{}{}
		}
	})

	stats.CategoriesUsed = len(used)

	return stats, nil
}

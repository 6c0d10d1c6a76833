package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/encoding"
	"github.com/MrJamesThe3rd/bivo/internal/importer/parser"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

var ErrMissingCategory = errors.New("no category for row")

//go:generate mockgen -source=service.go -destination=resolver_mock.go -package=importer
type CategoryFinder interface {
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*category.Category, error)
}

// Suggester proposes a category from a learned description rule.
type Suggester interface {
	Suggest(ctx context.Context, userID uuid.UUID, rawDescription string) (*uuid.UUID, error)
}

type Service struct {
	parser     *parser.Parser
	categories CategoryFinder
	rules      Suggester
}

func NewService(loc *time.Location, categories CategoryFinder, rules Suggester) *Service {
	return &Service{
		parser:     parser.New(loc),
		categories: categories,
		rules:      rules,
	}
}

type Options struct {
	Profile            string     // empty auto-detects
	FallbackCategoryID *uuid.UUID // used when neither the row nor a rule names a category
}

// Batch is a parsed upload ready to be handed to transaction.Service.ImportBatch.
type Batch struct {
	Profile string
	Charset encoding.Charset
	Params  []transaction.CreateParams
}

// Import parses r and resolves a category for every row: the row's own
// category name first, then a matching rule, then the fallback. Savings rows
// may stay uncategorised. Import never writes: a named category that does not
// exist yet is left in CategoryName for the transaction batch to create.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, r io.Reader, opts Options) (*Batch, error) {
	res, err := s.parser.Parse(r, opts.Profile)
	if err != nil {
		return nil, err
	}

	known := make(map[string]*uuid.UUID)
	params := make([]transaction.CreateParams, 0, len(res.Rows))

	for _, row := range res.Rows {
		categoryID, pending, err := s.categorize(ctx, userID, row, opts.FallbackCategoryID, known)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.Line, err)
		}

		if categoryID == nil && pending == "" && row.Type.RequiresCategory() {
			return nil, fmt.Errorf("row %d: %w", row.Line, ErrMissingCategory)
		}

		params = append(params, transaction.CreateParams{
			Amount:         row.Amount,
			Type:           row.Type,
			CategoryID:     categoryID,
			CategoryName:   pending,
			Description:    row.Description,
			RawDescription: row.Description,
			Date:           row.Date,
		})
	}

	return &Batch{Profile: res.Profile, Charset: res.Charset, Params: params}, nil
}

// categorize returns either a category ID or the name of a category that
// does not exist yet. known caches lookups by exact name, nil meaning missing.
func (s *Service) categorize(
	ctx context.Context,
	userID uuid.UUID,
	row parser.Row,
	fallback *uuid.UUID,
	known map[string]*uuid.UUID,
) (*uuid.UUID, string, error) {
	if name := strings.TrimSpace(row.Category); name != "" {
		id, ok := known[name]
		if !ok {
			c, err := s.categories.FindByName(ctx, userID, name)

			switch {
			case err == nil:
				id = &c.ID
			case errors.Is(err, category.ErrNotFound):
			default:
				return nil, "", fmt.Errorf("looking up category %q: %w", name, err)
			}

			known[name] = id
		}

		if id == nil {
			return nil, name, nil
		}

		return id, "", nil
	}

	suggested, err := s.rules.Suggest(ctx, userID, row.Description)
	if err != nil {
		return nil, "", fmt.Errorf("suggesting category: %w", err)
	}

	if suggested != nil {
		return suggested, "", nil
	}

	return fallback, "", nil
}

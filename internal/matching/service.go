package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/category"
)

var (
	ErrInvalidPattern   = errors.New("pattern is required")
	ErrCategoryNotFound = errors.New("category not found")
)

// Rule assigns CategoryID to every description containing Pattern.
type Rule struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Pattern    string
	CategoryID uuid.UUID
	CreatedAt  time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (*uuid.UUID, error)
	CreateRule(ctx context.Context, rule *Rule) error
	ListRules(ctx context.Context, userID uuid.UUID) ([]*Rule, error)
}

type CategoryLookup interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryLookup
}

func NewService(repo Repository, categories CategoryLookup) *Service {
	return &Service{repo: repo, categories: categories}
}

// Suggest returns the category of the longest rule matching rawDescription,
// or nil when no rule matches.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, rawDescription string) (*uuid.UUID, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return nil, nil
	}

	return s.repo.FindMatch(ctx, userID, rawDescription)
}

// Learn remembers that descriptions containing pattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrInvalidPattern
	}

	if _, err := s.categories.Get(ctx, userID, categoryID); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}

		return nil, fmt.Errorf("loading category: %w", err)
	}

	rule := &Rule{UserID: userID, Pattern: pattern, CategoryID: categoryID}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Rule, error) {
	return s.repo.ListRules(ctx, userID)
}

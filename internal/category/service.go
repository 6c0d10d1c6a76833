package category

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	CreateCategories(ctx context.Context, userID uuid.UUID, seeds []Seed) error
	GetCategory(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
	IsReferenced(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type CreateParams struct {
	Name  string
	Color string
}

type UpdateParams struct {
	Name  *string
	Color *string
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Category, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	color := params.Color
	if color == "" {
		color = DefaultColor
	}

	if !colorPattern.MatchString(color) {
		return nil, fmt.Errorf("%w: color must be #RRGGBB", ErrInvalid)
	}

	existing, err := s.repo.FindByName(ctx, userID, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		return nil, ErrDuplicateName
	}

	c := &Category{
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// FindByName looks up the user's category by its exact, trimmed name.
func (s *Service) FindByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error) {
	return s.repo.FindByName(ctx, userID, strings.TrimSpace(name))
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalid)
		}

		c.Name = name
	}

	if params.Color != nil {
		if !colorPattern.MatchString(*params.Color) {
			return nil, fmt.Errorf("%w: color must be #RRGGBB", ErrInvalid)
		}

		c.Color = *params.Color
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Delete removes a category that nothing references anymore.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.repo.GetCategory(ctx, userID, id); err != nil {
		return err
	}

	referenced, err := s.repo.IsReferenced(ctx, userID, id)
	if err != nil {
		return err
	}

	if referenced {
		return ErrInUse
	}

	return s.repo.DeleteCategory(ctx, userID, id)
}

func (s *Service) Seed(ctx context.Context, userID uuid.UUID, seeds []Seed) error {
	if len(seeds) == 0 {
		return nil
	}

	return s.repo.CreateCategories(ctx, userID, seeds)
}

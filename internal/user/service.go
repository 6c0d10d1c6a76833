package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
)

const defaultGuestName = "Tamu"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
}

// CategorySeeder populates the starter categories of a new account.
type CategorySeeder interface {
	Seed(ctx context.Context, userID uuid.UUID, seeds []category.Seed) error
}

type Service struct {
	repo       Repository
	categories CategorySeeder
}

func NewService(repo Repository, categories CategorySeeder) *Service {
	return &Service{repo: repo, categories: categories}
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type GuestParams struct {
	ID   uuid.UUID // zero value creates a fresh guest
	Name string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)

	if name == "" || email == "" || params.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalid)
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        &email,
		PasswordHash: &hash,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	if err := s.categories.Seed(ctx, u.ID, category.DefaultSeeds); err != nil {
		return nil, fmt.Errorf("seeding categories: %w", err)
	}

	return u, nil
}

// Authenticate returns the registered user matching the credentials. Unknown
// emails, guests and wrong passwords all yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalid)
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if u.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := auth.CheckPassword(*u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// EnsureGuest returns the guest with the given ID, creating it (and its
// starter categories) when it does not exist.
func (s *Service) EnsureGuest(ctx context.Context, params GuestParams) (*User, error) {
	if params.ID != uuid.Nil {
		existing, err := s.repo.GetUser(ctx, params.ID)
		if err == nil {
			if !existing.IsGuest {
				return nil, fmt.Errorf("%w: id belongs to a registered user", ErrInvalid)
			}

			return existing, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = defaultGuestName
	}

	u := &User{
		ID:      params.ID,
		Name:    name,
		IsGuest: true,
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	if err := s.categories.Seed(ctx, u.ID, category.GuestSeeds); err != nil {
		return nil, fmt.Errorf("seeding categories: %w", err)
	}

	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalid)
	}

	other, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if other != nil && other.ID != id {
		return nil, ErrEmailTaken
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = name
	u.Email = &email

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

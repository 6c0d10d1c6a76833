package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const DefaultColor = "#3B82F6"

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
	ErrInUse         = errors.New("category is referenced by transactions or rules")
	ErrInvalid       = errors.New("invalid category")
)

// Category groups transactions of a single user.
type Category struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Name             string
	Color            string
	TransactionCount int // Populated by List only
	CreatedAt        time.Time
}

// Seed is a name/color pair used to populate a new account.
type Seed struct {
	Name  string
	Color string
}

// DefaultSeeds are created for every registered user.
var DefaultSeeds = []Seed{
	{Name: "Makanan", Color: "#EF4444"},
	{Name: "Transportasi", Color: "#F59E0B"},
	{Name: "Belanja", Color: "#8B5CF6"},
	{Name: "Topup Ewallet", Color: "#3B82F6"},
	{Name: "Gaji", Color: "#10B981"},
	{Name: "Bonus", Color: "#06B6D4"},
}

// GuestSeeds are created for guest accounts.
var GuestSeeds = []Seed{
	{Name: "Makanan", Color: "#EF4444"},
	{Name: "Transport", Color: "#3B82F6"},
	{Name: "Belanja", Color: "#10B981"},
	{Name: "Hiburan", Color: "#F59E0B"},
	{Name: "Lainnya", Color: "#6B7280"},
}

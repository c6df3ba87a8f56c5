package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage persists accounts. Missing rows are reported as ErrAccountNotFound
// and email collisions as ErrEmailAlreadyExists.
type Storage interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// GetAccountByEmail matches case-insensitively.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error
	// UpdateProfileFields writes only the non-nil profile columns and
	// returns the account as stored afterwards.
	UpdateProfileFields(ctx context.Context, id uuid.UUID, fields ProfileFields) (*Account, error)
	// SetVerified writes only the verification flag.
	SetVerified(ctx context.Context, id uuid.UUID, verified bool, updatedAt time.Time) error
}

// ProfileFields is a partial write of the user-editable columns. Nil
// pointers leave the stored value untouched.
type ProfileFields struct {
	PhoneNumber    *string
	UniversityName *string
	ProfileImage   *string
	UpdatedAt      time.Time
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/pkg/pg"
	"github.com/dmitrymomot/campusmove/svc/auth"
)

// DB is the subset of *sql.DB the store needs.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EmailIndex is the unique index enforcing case-insensitive email uniqueness.
const EmailIndex = "accounts_email_lower_key"

const accountColumns = `id, email, password_hash, phone_number, university_name, user_type,
	profile_image, is_verified, is_staff, is_superuser, is_active, created_at, updated_at`

const (
	insertAccountQuery = `INSERT INTO accounts (` + accountColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	selectAccountByIDQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	selectAccountByEmailQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`

	updateAccountQuery = `UPDATE accounts SET email = $2, password_hash = $3, phone_number = $4,
	university_name = $5, user_type = $6, profile_image = $7, is_verified = $8, is_staff = $9,
	is_superuser = $10, is_active = $11, updated_at = $12
	WHERE id = $1`

	updateProfileFieldsQuery = `UPDATE accounts SET phone_number = COALESCE($2, phone_number),
	university_name = COALESCE($3, university_name), profile_image = COALESCE($4, profile_image),
	updated_at = $5
	WHERE id = $1
	RETURNING ` + accountColumns

	setVerifiedQuery = `UPDATE accounts SET is_verified = $2, updated_at = $3 WHERE id = $1`
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) CreateAccount(ctx context.Context, a *auth.Account) error {
	_, err := s.db.ExecContext(ctx, insertAccountQuery,
		a.ID, a.Email, a.PasswordHash, a.PhoneNumber, a.UniversityName, string(a.UserType),
		a.ProfileImage, a.IsVerified, a.IsStaff, a.IsSuperuser, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *AccountStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	return s.get(ctx, selectAccountByIDQuery, id)
}

func (s *AccountStore) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return s.get(ctx, selectAccountByEmailQuery, email)
}

func (s *AccountStore) UpdateAccount(ctx context.Context, a *auth.Account) error {
	res, err := s.db.ExecContext(ctx, updateAccountQuery,
		a.ID, a.Email, a.PasswordHash, a.PhoneNumber, a.UniversityName, string(a.UserType),
		a.ProfileImage, a.IsVerified, a.IsStaff, a.IsSuperuser, a.IsActive, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}

// UpdateProfileFields leaves NULL arguments, the nil fields, as stored.
func (s *AccountStore) UpdateProfileFields(ctx context.Context, id uuid.UUID, f auth.ProfileFields) (*auth.Account, error) {
	row := s.db.QueryRowContext(ctx, updateProfileFieldsQuery,
		id, f.PhoneNumber, f.UniversityName, f.ProfileImage, f.UpdatedAt,
	)
	return scanAccount(row)
}

func (s *AccountStore) SetVerified(ctx context.Context, id uuid.UUID, verified bool, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, setVerifiedQuery, id, verified, updatedAt)
	if err != nil {
		return mapWriteError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}

func (s *AccountStore) get(ctx context.Context, query string, arg any) (*auth.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, query, arg))
}

func scanAccount(row *sql.Row) (*auth.Account, error) {
	var (
		a        auth.Account
		userType string
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.PhoneNumber, &a.UniversityName, &userType,
		&a.ProfileImage, &a.IsVerified, &a.IsStaff, &a.IsSuperuser, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	a.UserType = auth.UserType(userType)
	return &a, nil
}

func mapWriteError(err error) error {
	if pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == EmailIndex {
		return errors.Join(auth.ErrEmailAlreadyExists, err)
	}
	return fmt.Errorf("failed to write account: %w", err)
}

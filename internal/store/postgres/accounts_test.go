package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/campusmove/internal/store/postgres"
	"github.com/dmitrymomot/campusmove/svc/auth"
)

var columns = []string{
	"id", "email", "password_hash", "phone_number", "university_name", "user_type",
	"profile_image", "is_verified", "is_staff", "is_superuser", "is_active", "created_at", "updated_at",
}

func newStore(t *testing.T) (*postgres.AccountStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return postgres.NewAccountStore(db), mock
}

func testAccount() *auth.Account {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &auth.Account{
		ID:             uuid.New(),
		Email:          "student@test.com",
		PasswordHash:   []byte("$2a$04$hash"),
		PhoneNumber:    "555-123-4567",
		UniversityName: "State University",
		UserType:       auth.UserTypeStudent,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func accountRow(a *auth.Account) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		a.ID.String(), a.Email, a.PasswordHash, a.PhoneNumber, a.UniversityName, string(a.UserType),
		a.ProfileImage, a.IsVerified, a.IsStaff, a.IsSuperuser, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
}

func TestCreateAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("inserts every column", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		a := testAccount()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
			WithArgs(a.ID, a.Email, a.PasswordHash, a.PhoneNumber, a.UniversityName, "student",
				"", false, false, false, true, a.CreatedAt, a.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.CreateAccount(ctx, a))
	})

	t.Run("email index violation is a duplicate", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: postgres.EmailIndex})

		err := store.CreateAccount(ctx, testAccount())
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("other failures are wrapped", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		boom := errors.New("connection reset")
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).WillReturnError(boom)

		err := store.CreateAccount(ctx, testAccount())
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("by email is case-insensitive in SQL", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		a := testAccount()
		mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
			WithArgs("Student@Test.com").
			WillReturnRows(accountRow(a))

		got, err := store.GetAccountByEmail(ctx, "Student@Test.com")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, a.PasswordHash, got.PasswordHash)
		assert.Equal(t, auth.UserTypeStudent, got.UserType)
		assert.True(t, got.CreatedAt.Equal(a.CreatedAt))
	})

	t.Run("by id", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		a := testAccount()
		a.UserType = auth.UserTypeProvider
		a.IsVerified = true
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WithArgs(a.ID).
			WillReturnRows(accountRow(a))

		got, err := store.GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.Email, got.Email)
		assert.True(t, got.IsProvider())
		assert.True(t, got.IsVerified)
	})

	t.Run("no rows is not found", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := store.GetAccountByID(ctx, uuid.New())
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("query failure propagates", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		boom := errors.New("timeout")
		mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email)")).WillReturnError(boom)

		_, err := store.GetAccountByEmail(ctx, "student@test.com")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, auth.ErrAccountNotFound)
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("updates mutable columns", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		a := testAccount()
		a.ProfileImage = "profile_images/x/avatar.png"
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET")).
			WithArgs(a.ID, a.Email, a.PasswordHash, a.PhoneNumber, a.UniversityName, "student",
				a.ProfileImage, false, false, false, true, a.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.UpdateAccount(ctx, a))
	})

	t.Run("missing row is not found", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.UpdateAccount(ctx, testAccount()), auth.ErrAccountNotFound)
	})
}

func TestUpdateProfileFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	updatedAt := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("writes only profile columns", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		a := testAccount()
		a.UniversityName = "Tech Institute"
		a.IsVerified = true
		a.UpdatedAt = updatedAt
		university := "Tech Institute"

		mock.ExpectQuery(`UPDATE accounts SET phone_number = COALESCE\(\$2, phone_number\)`).
			WithArgs(a.ID, nil, university, nil, updatedAt).
			WillReturnRows(accountRow(a))

		got, err := store.UpdateProfileFields(ctx, a.ID, auth.ProfileFields{
			UniversityName: &university,
			UpdatedAt:      updatedAt,
		})
		require.NoError(t, err)
		assert.Equal(t, "Tech Institute", got.UniversityName)
		assert.True(t, got.IsVerified, "flags come back as stored")
	})

	t.Run("query never touches flags", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		mock.ExpectQuery(`^UPDATE accounts SET ((phone_number|university_name|profile_image) = COALESCE\(\$\d, \w+\),\s*)+updated_at = \$5\s+WHERE id = \$1\s+RETURNING`).
			WillReturnRows(accountRow(testAccount()))

		_, err := store.UpdateProfileFields(ctx, uuid.New(), auth.ProfileFields{UpdatedAt: updatedAt})
		require.NoError(t, err)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts SET")).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := store.UpdateProfileFields(ctx, uuid.New(), auth.ProfileFields{UpdatedAt: updatedAt})
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})
}

func TestSetVerified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	updatedAt := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("writes only the flag", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		id := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET is_verified = $2, updated_at = $3 WHERE id = $1")).
			WithArgs(id, true, updatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.SetVerified(ctx, id, true, updatedAt))
	})

	t.Run("missing row is not found", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET is_verified")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.SetVerified(ctx, uuid.New(), true, updatedAt), auth.ErrAccountNotFound)
	})
}

func TestAccountStoreWithService(t *testing.T) {
	t.Parallel()

	store, mock := newStore(t)
	svc := auth.NewService(store, auth.WithHasher(auth.NewBcryptHasher(4)))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
		WithArgs("ghost@test.com").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := svc.Authenticate(context.Background(), "Ghost@Test.com", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

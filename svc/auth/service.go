package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/pkg/file"
	"github.com/dmitrymomot/campusmove/pkg/logger"
	"github.com/dmitrymomot/campusmove/pkg/sanitizer"
	"github.com/dmitrymomot/campusmove/pkg/validator"
)

// Service implements account operations on top of Storage.
type Service struct {
	storage          Storage
	hasher           PasswordHasher
	files            file.Storage
	logger           *slog.Logger
	passwordStrength validator.PasswordStrengthConfig
	now              func() time.Time

	// dummyHash is compared against when the email is unknown.
	dummyHash []byte
}

// dummyPassword only seeds dummyHash.
const dummyPassword = "campusmove-dummy-password"

type Option func(*Service)

// WithBcryptCost replaces the hasher with bcrypt at cost. Both real and
// throwaway hashing use it.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.hasher = NewBcryptHasher(cost)
	}
}

func WithHasher(h PasswordHasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileStorage enables profile image uploads.
func WithFileStorage(fs file.Storage) Option {
	return func(s *Service) {
		s.files = fs
	}
}

// WithPasswordStrength overrides the registration password policy. The
// maximum never exceeds validator.MaxPasswordBytes.
func WithPasswordStrength(cfg validator.PasswordStrengthConfig) Option {
	return func(s *Service) {
		if cfg.MaxLength <= 0 || cfg.MaxLength > validator.MaxPasswordBytes {
			cfg.MaxLength = validator.MaxPasswordBytes
		}
		s.passwordStrength = cfg
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage:          storage,
		hasher:           NewBcryptHasher(0),
		logger:           logger.Noop(),
		passwordStrength: validator.DefaultPasswordStrength(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("auth"))

	// Hashed once, at the hasher's cost, so unknown emails pay for a full compare.
	if hash, err := s.hasher.Hash(dummyPassword); err == nil {
		s.dummyHash = hash
	} else {
		s.logger.Error("failed to prepare dummy password hash", logger.Error(err))
	}
	return s
}

// Authenticate resolves an email/password pair to an account. Missing
// input, an unknown email, a wrong password and an inactive account all
// return ErrInvalidCredentials. Only storage failures return other errors.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		// Same primitive and cost as a wrong password. Compare has no input length limit.
		_ = s.hasher.Compare(s.dummyHash, password)
		s.logger.DebugContext(ctx, "authentication failed", logger.Event("unknown_email"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		s.logger.DebugContext(ctx, "authentication failed",
			logger.Event("wrong_password"),
			logger.UserID(account.ID.String()),
		)
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		s.logger.DebugContext(ctx, "authentication failed",
			logger.Event("inactive_account"),
			logger.UserID(account.ID.String()),
		)
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// GetAccount looks an account up by ID. ErrAccountNotFound is returned
// as is, so callers can tell absence from storage failure.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := s.storage.GetAccountByID(ctx, id)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetActiveAccount is GetAccount for token subjects. Disabled accounts
// return ErrAccountInactive.
func (s *Service) GetActiveAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return account, nil
}

// Profile returns the public view of account with its image URL resolved.
func (s *Service) Profile(account *Account) Profile {
	var urlFor func(string) string
	if s.files != nil {
		urlFor = s.files.URL
	}
	return NewProfile(account, urlFor)
}

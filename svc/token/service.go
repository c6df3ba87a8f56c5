package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/pkg/jwt"
	"github.com/dmitrymomot/campusmove/pkg/logger"
	"github.com/dmitrymomot/campusmove/svc/auth"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

// AccountResolver re-resolves a token subject. *auth.Service implements it.
type AccountResolver interface {
	GetActiveAccount(ctx context.Context, id uuid.UUID) (*auth.Account, error)
}

// Pair is the body returned by login, token obtain and refresh.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Service struct {
	signer     *jwt.Service
	blacklist  Blacklist
	accounts   AccountResolver
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Service)

func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

func WithRefreshTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithClock sets the issuance time source. Validation always uses the
// wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
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

func NewService(signer *jwt.Service, blacklist Blacklist, accounts AccountResolver, opts ...Option) *Service {
	s := &Service{
		signer:     signer,
		blacklist:  blacklist,
		accounts:   accounts,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
		logger:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("token"))
	return s
}

// IssuePair mints a fresh access/refresh pair for account.
func (s *Service) IssuePair(account *auth.Account) (Pair, error) {
	now := s.now()

	access, err := s.sign(account.ID, TypeAccess, now, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(account.ID, TypeRefresh, now, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

func (s *Service) sign(accountID uuid.UUID, typ Type, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
		UserID:    accountID.String(),
	}
	token, err := s.signer.Generate(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return token, nil
}

// Parse checks signature, expiry and claim shape. want may be empty to
// accept either type. Blacklisting is not consulted.
func (s *Service) Parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}
	if err := s.signer.Parse(raw, claims); err != nil {
		return nil, mapJWTError(err)
	}
	if err := claims.validate(); err != nil {
		return nil, err
	}
	if want != "" && claims.TokenType != want {
		return nil, fmt.Errorf("%w: expected %s token", ErrWrongTokenType, want)
	}
	return claims, nil
}

// Verify accepts any valid token. Refresh tokens must also not be blacklisted.
func (s *Service) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.Parse(raw, "")
	if err != nil {
		return nil, err
	}
	if claims.TokenType == TypeRefresh {
		if err := s.checkBlacklist(ctx, claims); err != nil {
			return nil, err
		}
	}
	return claims, nil
}

// Refresh rotates a refresh token. The presented token is blacklisted and
// can not be used again.
func (s *Service) Refresh(ctx context.Context, raw string) (Pair, error) {
	claims, err := s.Parse(raw, TypeRefresh)
	if err != nil {
		return Pair{}, err
	}
	if err := s.checkBlacklist(ctx, claims); err != nil {
		return Pair{}, err
	}

	account, err := s.resolve(ctx, claims)
	if err != nil {
		return Pair{}, err
	}

	// Add is the atomic claim on the old token; a concurrent rotation loses here.
	added, err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt())
	if err != nil {
		return Pair{}, err
	}
	if !added {
		return Pair{}, ErrTokenBlacklisted
	}

	pair, err := s.IssuePair(account)
	if err != nil {
		return Pair{}, err
	}

	s.logger.DebugContext(ctx, "refresh token rotated",
		logger.UserID(account.ID.String()),
		logger.Event("token_refreshed"),
	)
	return pair, nil
}

// Blacklist revokes a refresh token. Access tokens are rejected with
// ErrWrongTokenType and an already revoked token with ErrTokenBlacklisted.
func (s *Service) Blacklist(ctx context.Context, raw string) error {
	claims, err := s.Parse(raw, TypeRefresh)
	if err != nil {
		return err
	}

	added, err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt())
	if err != nil {
		return err
	}
	if !added {
		return ErrTokenBlacklisted
	}

	s.logger.DebugContext(ctx, "refresh token blacklisted",
		slog.String("user_id", claims.UserID),
		logger.Event("token_blacklisted"),
	)
	return nil
}

// Authenticate resolves an access token to its live account.
func (s *Service) Authenticate(ctx context.Context, raw string) (*auth.Account, *Claims, error) {
	claims, err := s.Parse(raw, TypeAccess)
	if err != nil {
		return nil, nil, err
	}
	account, err := s.resolve(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	return account, claims, nil
}

func (s *Service) checkBlacklist(ctx context.Context, claims *Claims) error {
	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenBlacklisted
	}
	return nil
}

// resolve maps a missing or disabled subject to ErrTokenInvalid. Storage
// failures pass through.
func (s *Service) resolve(ctx context.Context, claims *Claims) (*auth.Account, error) {
	id, err := claims.AccountID()
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetActiveAccount(ctx, id)
	switch {
	case errors.Is(err, auth.ErrAccountNotFound), errors.Is(err, auth.ErrAccountInactive):
		return nil, errors.Join(ErrTokenInvalid, err)
	case err != nil:
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	return account, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrMissingToken):
		return ErrMissingToken
	case errors.Is(err, jwt.ErrExpiredToken):
		return errors.Join(ErrTokenExpired, err)
	default:
		return errors.Join(ErrTokenInvalid, err)
	}
}

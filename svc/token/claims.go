package token

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/pkg/jwt"
)

// Type distinguishes access from refresh tokens.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims is the payload of both token types. The jti, iat and exp claims
// come from the embedded RegisteredClaims.
type Claims struct {
	jwt.RegisteredClaims
	TokenType Type   `json:"token_type"`
	UserID    string `json:"user_id"`
}

// AccountID parses the user_id claim.
func (c *Claims) AccountID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad user_id claim", ErrTokenInvalid)
	}
	return id, nil
}

// ExpiresAt returns the exp claim, or the zero time when it is absent.
func (c *Claims) ExpiresAt() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

func (c *Claims) validate() error {
	if c.TokenType != TypeAccess && c.TokenType != TypeRefresh {
		return fmt.Errorf("%w: unknown token_type %q", ErrTokenInvalid, c.TokenType)
	}
	if c.ID == "" {
		return fmt.Errorf("%w: missing jti", ErrTokenInvalid)
	}
	_, err := c.AccountID()
	return err
}

package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type (
	RegisteredClaims = gojwt.RegisteredClaims
	NumericDate      = gojwt.NumericDate
	Claims           = gojwt.Claims
)

// NewNumericDate truncates t to whole seconds, as encoded on the wire.
func NewNumericDate(t time.Time) *NumericDate {
	return gojwt.NewNumericDate(t)
}

var (
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrMissingClaims     = errors.New("jwt: missing claims")
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrExpiredToken      = errors.New("jwt: token is expired")
	ErrInvalidSignature  = errors.New("jwt: invalid signature")
	ErrMissingToken      = errors.New("jwt: missing token")
	ErrInvalidAuthHeader = errors.New("jwt: invalid authorization header")
)

// Service signs and verifies tokens with a single HMAC-SHA256 key.
type Service struct {
	key    []byte
	parser *gojwt.Parser
}

// Option adjusts token validation.
type Option func(*[]gojwt.ParserOption)

// WithLeeway tolerates clock skew when checking exp/nbf/iat.
func WithLeeway(d time.Duration) Option {
	return func(opts *[]gojwt.ParserOption) {
		*opts = append(*opts, gojwt.WithLeeway(d))
	}
}

func New(key []byte, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}

	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	for _, opt := range opts {
		opt(&parserOpts)
	}

	return &Service{key: key, parser: gojwt.NewParser(parserOpts...)}, nil
}

func NewFromString(key string, opts ...Option) (*Service, error) {
	return New([]byte(key), opts...)
}

// Generate signs claims with HS256.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse verifies token and decodes it into claims, which must be a pointer.
// Every failure maps onto ErrExpiredToken, ErrInvalidSignature or ErrInvalidToken,
// wrapped together with the library error.
func (s *Service) Parse(token string, claims Claims) error {
	if token == "" {
		return ErrMissingToken
	}
	if claims == nil {
		return ErrMissingClaims
	}

	_, err := s.parser.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.key, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}

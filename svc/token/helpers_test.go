package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/campusmove/pkg/jwt"
	"github.com/dmitrymomot/campusmove/svc/auth"
	"github.com/dmitrymomot/campusmove/svc/token"
)

const testSecret = "test-secret-32-chars-long-12345"

type fixture struct {
	tokens   *token.Service
	accounts *auth.MemoryStorage
	account  *auth.Account
	signer   *jwt.Service
}

func newFixture(t *testing.T, opts ...token.Option) fixture {
	t.Helper()

	signer, err := jwt.NewFromString(testSecret)
	require.NoError(t, err)

	storage := auth.NewMemoryStorage()
	account := &auth.Account{
		ID:        uuid.New(),
		Email:     "student@test.com",
		UserType:  auth.UserTypeStudent,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, storage.CreateAccount(context.Background(), account))

	svc := token.NewService(signer, token.NewMemoryBlacklist(), auth.NewService(storage), opts...)
	return fixture{tokens: svc, accounts: storage, account: account, signer: signer}
}

func (f fixture) withBlacklist(t *testing.T, bl token.Blacklist) *token.Service {
	t.Helper()
	return token.NewService(f.signer, bl, auth.NewService(f.accounts))
}

func (f fixture) issue(t *testing.T) token.Pair {
	t.Helper()

	pair, err := f.tokens.IssuePair(f.account)
	require.NoError(t, err)
	return pair
}

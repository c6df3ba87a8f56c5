package auth

import "context"

type accountContextKey struct{}

// SetAccountToContext stores the authenticated account for downstream handlers.
func SetAccountToContext(ctx context.Context, account *Account) context.Context {
	return context.WithValue(ctx, accountContextKey{}, account)
}

// GetAccountFromContext returns nil if no account was stored.
func GetAccountFromContext(ctx context.Context) *Account {
	account, _ := ctx.Value(accountContextKey{}).(*Account)
	return account
}

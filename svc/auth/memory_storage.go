package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// MemoryStorage is a Storage kept in process memory. Emails are indexed by
// their Unicode case fold.
type MemoryStorage struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]Account
	byEmail map[string]uuid.UUID
	fold    cases.Caser
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:    make(map[uuid.UUID]Account),
		byEmail: make(map[string]uuid.UUID),
		fold:    cases.Fold(),
	}
}

// foldKey is guarded by mu; cases.Caser is not safe for concurrent use.
func (m *MemoryStorage) foldKey(email string) string {
	return m.fold.String(email)
}

func (m *MemoryStorage) CreateAccount(_ context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.foldKey(account.Email)
	if _, ok := m.byEmail[key]; ok {
		return ErrEmailAlreadyExists
	}
	m.byID[account.ID] = clone(account)
	m.byEmail[key] = account.ID
	return nil
}

func (m *MemoryStorage) GetAccountByID(_ context.Context, id uuid.UUID) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	c := clone(&account)
	return &c, nil
}

func (m *MemoryStorage) GetAccountByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[m.foldKey(email)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	account := m.byID[id]
	c := clone(&account)
	return &c, nil
}

func (m *MemoryStorage) UpdateAccount(_ context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[account.ID]
	if !ok {
		return ErrAccountNotFound
	}

	oldKey, newKey := m.foldKey(current.Email), m.foldKey(account.Email)
	if oldKey != newKey {
		if _, taken := m.byEmail[newKey]; taken {
			return ErrEmailAlreadyExists
		}
		delete(m.byEmail, oldKey)
		m.byEmail[newKey] = account.ID
	}
	m.byID[account.ID] = clone(account)
	return nil
}

func (m *MemoryStorage) UpdateProfileFields(_ context.Context, id uuid.UUID, fields ProfileFields) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if fields.PhoneNumber != nil {
		account.PhoneNumber = *fields.PhoneNumber
	}
	if fields.UniversityName != nil {
		account.UniversityName = *fields.UniversityName
	}
	if fields.ProfileImage != nil {
		account.ProfileImage = *fields.ProfileImage
	}
	account.UpdatedAt = fields.UpdatedAt
	m.byID[id] = account

	c := clone(&account)
	return &c, nil
}

func (m *MemoryStorage) SetVerified(_ context.Context, id uuid.UUID, verified bool, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.IsVerified = verified
	account.UpdatedAt = updatedAt
	m.byID[id] = account
	return nil
}

// DeleteAccount removes an account. Missing IDs are ignored.
func (m *MemoryStorage) DeleteAccount(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if account, ok := m.byID[id]; ok {
		delete(m.byEmail, m.foldKey(account.Email))
		delete(m.byID, id)
	}
	return nil
}

func clone(a *Account) Account {
	c := *a
	c.PasswordHash = append([]byte(nil), a.PasswordHash...)
	return c
}

package auth_test

import (
	"context"
	"errors"
	"mime/multipart"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/campusmove/pkg/file"
	"github.com/dmitrymomot/campusmove/svc/auth"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateAccount(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockStorage) GetAccountByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Account), args.Error(1)
}

func (m *MockStorage) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Account), args.Error(1)
}

func (m *MockStorage) UpdateAccount(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockStorage) UpdateProfileFields(ctx context.Context, id uuid.UUID, fields auth.ProfileFields) (*auth.Account, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Account), args.Error(1)
}

func (m *MockStorage) SetVerified(ctx context.Context, id uuid.UUID, verified bool, updatedAt time.Time) error {
	args := m.Called(ctx, id, verified, updatedAt)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*file.File, error) {
	args := m.Called(ctx, fh, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*file.File), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockFileStorage) URL(path string) string {
	return "https://cdn.example.com/" + path
}

var errHashMismatch = errors.New("hash mismatch")

// fakeHasher costs a fixed delay per call and counts calls.
type fakeHasher struct {
	delay    time.Duration
	hashes   atomic.Int32
	compares atomic.Int32
}

func (h *fakeHasher) Hash(password string) ([]byte, error) {
	h.hashes.Add(1)
	time.Sleep(h.delay)
	return []byte("hashed:" + password), nil
}

func (h *fakeHasher) Compare(hash []byte, password string) error {
	h.compares.Add(1)
	time.Sleep(h.delay)
	if string(hash) != "hashed:"+password {
		return errHashMismatch
	}
	return nil
}

func (h *fakeHasher) calls() int32 {
	return h.hashes.Load() + h.compares.Load()
}

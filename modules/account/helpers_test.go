package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/campusmove/modules/account"
	"github.com/dmitrymomot/campusmove/pkg/file"
	"github.com/dmitrymomot/campusmove/pkg/jwt"
	"github.com/dmitrymomot/campusmove/pkg/ratelimiter"
	"github.com/dmitrymomot/campusmove/svc/auth"
	"github.com/dmitrymomot/campusmove/svc/token"
)

const testPassword = "TestPass123!"

type env struct {
	handler  http.Handler
	storage  *auth.MemoryStorage
	auth     *auth.Service
	tokens   *token.Service
	mediaDir string
}

type envOption func(*account.RouterOptions, *ratelimiter.MemoryStore)

func withLoginLimit(t *testing.T, n int) envOption {
	return func(o *account.RouterOptions, store *ratelimiter.MemoryStore) {
		bucket, err := ratelimiter.NewBucket(store, ratelimiter.PerMinute(n))
		require.NoError(t, err)
		o.LoginLimiter = bucket
	}
}

func withRefreshLimit(t *testing.T, n int) envOption {
	return func(o *account.RouterOptions, store *ratelimiter.MemoryStore) {
		bucket, err := ratelimiter.NewBucket(store, ratelimiter.PerMinute(n))
		require.NoError(t, err)
		o.RefreshLimiter = bucket
	}
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	mediaDir := t.TempDir()
	files, err := file.NewLocalStorage(mediaDir, "/media/")
	require.NoError(t, err)

	storage := auth.NewMemoryStorage()
	authSvc := auth.NewService(storage, auth.WithBcryptCost(bcrypt.MinCost), auth.WithFileStorage(files))

	signer, err := jwt.NewFromString("test-secret-32-chars-long-12345")
	require.NoError(t, err)
	tokens := token.NewService(signer, token.NewMemoryBlacklist(), authSvc)

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	ro := account.RouterOptions{Auth: authSvc, Tokens: tokens}
	for _, opt := range opts {
		opt(&ro, store)
	}

	r := chi.NewRouter()
	r.Mount("/api", account.Router(ro))

	return &env{handler: r, storage: storage, auth: authSvc, tokens: tokens, mediaDir: mediaDir}
}

func (e *env) do(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.RemoteAddr = "203.0.113.7:4321"

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *env) register(t *testing.T, email string, userType auth.UserType) *auth.Account {
	t.Helper()

	acc, err := e.auth.Register(context.Background(), auth.RegisterInput{
		Email:           email,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		UserType:        string(userType),
	})
	require.NoError(t, err)
	return acc
}

func (e *env) makeStaff(t *testing.T, acc *auth.Account) {
	t.Helper()

	acc.IsStaff = true
	require.NoError(t, e.storage.UpdateAccount(context.Background(), acc))
}

func (e *env) login(t *testing.T, acc *auth.Account) token.Pair {
	t.Helper()

	pair, err := e.tokens.IssuePair(acc)
	require.NoError(t, err)
	return pair
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// errorOf returns the "error" object of an error envelope.
func errorOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := decode(t, rec)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return e
}

func detailsOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	d, _ := errorOf(t, rec)["details"].(map[string]any)
	return d
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func serve(e *env, req *http.Request) *httptest.ResponseRecorder {
	req.RemoteAddr = "203.0.113.7:4321"
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

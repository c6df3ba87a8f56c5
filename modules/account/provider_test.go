package account_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/campusmove/svc/auth"
)

func TestVerifyProviderEndpoint(t *testing.T) {
	t.Parallel()

	const path = "/api/auth/verify-provider/"

	e := newEnv(t)
	staff := e.register(t, "staff@test.com", auth.UserTypeStudent)
	e.makeStaff(t, staff)
	provider := e.register(t, "movers@test.com", auth.UserTypeProvider)
	student := e.register(t, "student@test.com", auth.UserTypeStudent)

	staffToken := e.login(t, staff).Access
	providerToken := e.login(t, provider).Access

	t.Run("requires authentication", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, path, map[string]any{"provider_id": provider.ID}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("requires staff", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, path, map[string]any{"provider_id": provider.ID}, providerToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "staff privileges required", errorOf(t, rec)["message"])
	})

	t.Run("validates provider_id", func(t *testing.T) {
		for _, payload := range []map[string]any{{}, {"provider_id": "not-a-uuid"}} {
			rec := e.do(t, http.MethodPost, path, payload, staffToken)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, detailsOf(t, rec), "provider_id")
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, path, map[string]any{"provider_id": uuid.New()}, staffToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("student target", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, path, map[string]any{"provider_id": student.ID}, staffToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorOf(t, rec)["message"], "provider")
	})

	t.Run("verifies idempotently", func(t *testing.T) {
		for range 2 {
			rec := e.do(t, http.MethodPost, path, map[string]any{"provider_id": provider.ID}, staffToken)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			body := decode(t, rec)
			assert.NotEmpty(t, body["message"])
			p, ok := body["provider"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, true, p["is_verified"])
			assert.Equal(t, provider.ID.String(), p["id"])
		}
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, path, nil, staffToken)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

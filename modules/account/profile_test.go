package account_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/campusmove/modules/account"
	"github.com/dmitrymomot/campusmove/pkg/file"
	"github.com/dmitrymomot/campusmove/svc/auth"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func TestProfileGet(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	acc := e.register(t, "student@test.com", auth.UserTypeStudent)
	pair := e.login(t, acc)

	rec := e.do(t, http.MethodGet, "/api/auth/profile/", nil, pair.Access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{
		"created_at", "email", "id", "is_verified", "phone_number",
		"profile_image_url", "university_name", "user_type",
	}, keys)
	assert.Equal(t, acc.ID.String(), body["id"])
}

func TestProfileAuthentication(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	acc := e.register(t, "student@test.com", auth.UserTypeStudent)
	pair := e.login(t, acc)

	for name, header := range map[string]string{
		"missing":       "",
		"wrong scheme":  "Token " + pair.Access,
		"no scheme":     pair.Access,
		"malformed":     "Bearer invalid.token.here",
		"refresh token": "Bearer " + pair.Refresh,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := serve(e, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Equal(t, "unauthorized", errorOf(t, rec)["code"], name)
	}

	require.NoError(t, e.storage.DeleteAccount(t.Context(), acc.ID))
	rec := e.do(t, http.MethodGet, "/api/auth/profile/", nil, pair.Access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "deleted account")
}

func TestProfileUpdateJSON(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	acc := e.register(t, "student@test.com", auth.UserTypeStudent)
	pair := e.login(t, acc)

	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		rec := e.do(t, method, "/api/auth/profile/", map[string]any{
			"phone_number":    "+1 555 123 4567",
			"university_name": "Tech Institute " + method,
			"email":           "hacker@test.com",
			"is_verified":     true,
			"is_staff":        true,
			"user_type":       "provider",
			"password":        "NewPass123!",
		}, pair.Access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode(t, rec)
		assert.Equal(t, "+1 555 123 4567", body["phone_number"])
		assert.Equal(t, "Tech Institute "+method, body["university_name"])
		assert.Equal(t, "student@test.com", body["email"])
		assert.Equal(t, false, body["is_verified"])
		assert.Equal(t, "student", body["user_type"])
	}

	stored, err := e.storage.GetAccountByID(t.Context(), acc.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsStaff)
	_, err = e.auth.Authenticate(t.Context(), "student@test.com", testPassword)
	assert.NoError(t, err, "password must not change through the profile")

	rec := e.do(t, http.MethodPatch, "/api/auth/profile/", map[string]any{"phone_number": "12345"}, pair.Access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detailsOf(t, rec), "phone_number")
}

func TestProfileUpdateImage(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	acc := e.register(t, "student@test.com", auth.UserTypeStudent)
	pair := e.login(t, acc)

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, map[string]string{"university_name": "Art School"}, "profile_image", filename, content)
		req := httptest.NewRequest(http.MethodPatch, "/api/auth/profile/", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+pair.Access)
		return serve(e, req)
	}

	rec := upload("first.png", pngBytes)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	first := "profile_images/" + acc.ID.String() + "/first.png"
	assert.Equal(t, "/media/"+first, body["profile_image_url"])
	assert.Equal(t, "Art School", body["university_name"])
	assert.FileExists(t, filepath.Join(e.mediaDir, filepath.FromSlash(first)))

	rec = upload("second.png", pngBytes)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NoFileExists(t, filepath.Join(e.mediaDir, filepath.FromSlash(first)), "old image is removed")

	rec = upload("notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detailsOf(t, rec), "profile_image")

	rec = upload("fake.png", bytes.Repeat([]byte("not an image "), 10))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(filepath.Join(e.mediaDir, "profile_images", acc.ID.String()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRequestBodyLimits(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pair := e.login(t, e.register(t, "student@test.com", auth.UserTypeStudent))

	t.Run("profile upload over the limit", func(t *testing.T) {
		t.Parallel()

		huge := make([]byte, account.MaxProfileBody+1)
		copy(huge, pngBytes)
		body, contentType := multipartBody(t, nil, "profile_image", "huge.png", huge)
		req := httptest.NewRequest(http.MethodPatch, "/api/auth/profile/", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+pair.Access)

		rec := serve(e, req)
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
		assert.Equal(t, "request_entity_too_large", errorOf(t, rec)["code"])
	})

	t.Run("json body over the limit", func(t *testing.T) {
		t.Parallel()

		rec := e.do(t, http.MethodPost, "/api/auth/register/", map[string]any{
			"email":           "big@test.com",
			"university_name": strings.Repeat("x", int(account.MaxRequestBody)),
		}, "")
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("image between the validation and body limits", func(t *testing.T) {
		t.Parallel()

		oversized := make([]byte, file.MaxImageSize+1)
		copy(oversized, pngBytes)
		body, contentType := multipartBody(t, nil, "profile_image", "big.png", oversized)
		req := httptest.NewRequest(http.MethodPatch, "/api/auth/profile/", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+pair.Access)

		rec := serve(e, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, detailsOf(t, rec), "profile_image")
	})
}

func TestProfileMethodNotAllowed(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pair := e.login(t, e.register(t, "student@test.com", auth.UserTypeStudent))

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		rec := e.do(t, method, "/api/auth/profile/", nil, pair.Access)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
}

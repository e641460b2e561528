package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contactdeck/internal/api"
	"contactdeck/internal/api/handlers"
	"contactdeck/internal/api/middleware"
	"contactdeck/internal/api/services"
	"contactdeck/internal/config"
	"contactdeck/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithStore(t, nil)
}

func newTestRouterWithStore(t *testing.T, avatars handlers.AvatarStorage) http.Handler {
	t.Helper()

	tokens := services.NewTokenService("test-secret", services.TokenTTL)
	auth := services.NewAuthService(repositories.NewMemoryUserRepository())
	contacts := services.NewContactService(repositories.NewMemoryContactRepository())
	google := services.NewGoogleOauthConfig(config.GoogleConfig{})

	h := handlers.New(auth, contacts, tokens, avatars, google, "http://localhost:3000")
	guard := middleware.NewAuthGuard(tokens)
	return api.SetupRouter(h, guard)
}

// fakeAvatarStore stands in for the R2-backed store: uploads "exist" once
// the test marks their key present.
type fakeAvatarStore struct {
	objects map[string]bool
}

func newFakeAvatarStore() *fakeAvatarStore {
	return &fakeAvatarStore{objects: map[string]bool{}}
}

func (f *fakeAvatarStore) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

func (f *fakeAvatarStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + key, nil
}

func (f *fakeAvatarStore) Exists(_ context.Context, key string) (bool, error) {
	return f.objects[key], nil
}

func createContact(t *testing.T, router http.Handler, token, name, email string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/contacts", token, []map[string]string{{
		"name": name, "email": email, "phone": "1234567890",
		"address": "Main St", "timezone": "UTC",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)["newContacts"].([]any)
	return created[0].(map[string]any)["id"].(string)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func registerAndLogin(t *testing.T, router http.Handler, name, email, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": name, "email": email, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok, "login response must carry a token")
	return token
}

func TestRegister_ExcludesPasswordFromResponse(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Ali", "email": "ali@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Ali", body["name"])
	assert.Equal(t, "ali@x.com", body["email"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	payload := map[string]string{"name": "Ali", "email": "ali@x.com", "password": "secret1"}
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", decodeBody(t, rec)["message"])
}

func TestRegister_ValidationMessages(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Al", "email": "al@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"name" length must be at least 3 characters`, decodeBody(t, rec)["message"])
}

func TestLogin_NoEnumerationDifference(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Ali", "email": "ali@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPass := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ali@x.com", "password": "wrong-pass"})
	unknownUser := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "nobody@x.com", "password": "secret1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPass.Body.String(), unknownUser.Body.String())
}

func TestContacts_RequireAuth(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/contacts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/contacts", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestContacts_CreateAndList(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodGet, "/api/contacts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/contacts", token, []map[string]string{{
		"name": "Bo", "email": "bo@x.com", "phone": "1234567890",
		"address": "Main St", "timezone": "UTC",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Contacts created successfully", decodeBody(t, rec)["message"])

	// Owner id on the stored contact matches the registered user.
	profile := doJSON(t, router, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, profile.Code)
	userID := decodeBody(t, profile)["id"]

	rec = doJSON(t, router, http.MethodGet, "/api/contacts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var contacts []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "Bo", contacts[0]["name"])
	assert.Equal(t, userID, contacts[0]["userId"])
}

func TestContacts_CreateMissingFields(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodPost, "/api/contacts", token, []map[string]string{{
		"name": "Bo", "email": "bo@x.com",
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Missing fields in contacts", body["message"])
	assert.NotEmpty(t, body["details"])
}

func TestContacts_UpdateWithoutID(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodPut, "/api/contacts", token, []map[string]string{{
		"name": "Bo", "email": "bo@x.com", "phone": "1234567890",
		"address": "Main St", "timezone": "UTC",
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Contact ID is required for update", decodeBody(t, rec)["message"])
}

func TestContacts_CrossUserIsolation(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	tokenA := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")
	tokenB := registerAndLogin(t, router, "Bea", "bea@x.com", "secret2")

	rec := doJSON(t, router, http.MethodPost, "/api/contacts", tokenA, []map[string]string{{
		"name": "Bo", "email": "bo@x.com", "phone": "1234567890",
		"address": "Main St", "timezone": "UTC",
	}})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)["newContacts"].([]any)
	contactID := created[0].(map[string]any)["id"].(string)

	// B sees nothing of A's.
	rec = doJSON(t, router, http.MethodGet, "/api/contacts", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// B cannot update A's contact.
	rec = doJSON(t, router, http.MethodPut, "/api/contacts", tokenB, []map[string]string{{
		"id": contactID, "name": "Hijacked", "email": "bo@x.com",
		"phone": "1234567890", "address": "Main St", "timezone": "UTC",
	}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// B cannot delete A's contact.
	rec = doJSON(t, router, http.MethodDelete, "/api/contacts", tokenB,
		map[string]string{"id": contactID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestContacts_SoftDelete(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodPost, "/api/contacts", token, []map[string]string{{
		"name": "Bo", "email": "bo@x.com", "phone": "1234567890",
		"address": "Main St", "timezone": "UTC",
	}})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)["newContacts"].([]any)
	contactID := created[0].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodDelete, "/api/contacts", token,
		map[string]string{"id": contactID})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Contact deleted successfully", body["message"])
	deleted := body["deletedContact"].(map[string]any)
	assert.Equal(t, true, deleted["isDeleted"])

	rec = doJSON(t, router, http.MethodGet, "/api/contacts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestContacts_DeleteWithoutID(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodDelete, "/api/contacts", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Contact ID is required", decodeBody(t, rec)["message"])
}

func TestContacts_DeleteMalformedID(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodDelete, "/api/contacts", token,
		map[string]string{"id": "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid contact id", decodeBody(t, rec)["message"])
}

func TestAvatarPresign_OwnershipAndUnconfiguredStore(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t) // no avatar store wired
	tokenA := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")
	tokenB := registerAndLogin(t, router, "Bea", "bea@x.com", "secret2")
	contactID := createContact(t, router, tokenA, "Bo", "bo@x.com")

	// Ownership is checked before storage is touched.
	rec := doJSON(t, router, http.MethodPost, "/api/contacts/"+contactID+"/avatar/presign", tokenB, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You do not have access to this contact", decodeBody(t, rec)["message"])

	rec = doJSON(t, router, http.MethodPost, "/api/contacts/"+contactID+"/avatar/presign", tokenA, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Storage service not configured", decodeBody(t, rec)["message"])
}

func TestAvatarPresign_InvalidContactID(t *testing.T) {
	t.Parallel()
	router := newTestRouterWithStore(t, newFakeAvatarStore())
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodPost, "/api/contacts/not-a-uuid/avatar/presign", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid contact id", decodeBody(t, rec)["message"])
}

func TestAvatarUploadFlow(t *testing.T) {
	t.Parallel()
	store := newFakeAvatarStore()
	router := newTestRouterWithStore(t, store)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")
	contactID := createContact(t, router, token, "Bo", "bo@x.com")

	rec := doJSON(t, router, http.MethodPost, "/api/contacts/"+contactID+"/avatar/presign", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	key, ok := body["key"].(string)
	require.True(t, ok, "presign response must carry the object key")
	assert.Equal(t, "https://storage.test/upload/"+key, body["url"])

	// Confirming before the object landed fails.
	rec = doJSON(t, router, http.MethodPost, "/api/contacts/"+contactID+"/avatar/complete", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Avatar upload not found", decodeBody(t, rec)["message"])

	// Simulate the client PUT, then confirm and fetch.
	store.objects[key] = true
	rec = doJSON(t, router, http.MethodPost, "/api/contacts/"+contactID+"/avatar/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/contacts/"+contactID+"/avatar", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://storage.test/get/"+key, decodeBody(t, rec)["url"])
}

func TestAvatarGet_NoneUploaded(t *testing.T) {
	t.Parallel()
	router := newTestRouterWithStore(t, newFakeAvatarStore())
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")
	contactID := createContact(t, router, token, "Bo", "bo@x.com")

	rec := doJSON(t, router, http.MethodGet, "/api/contacts/"+contactID+"/avatar", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No avatar uploaded", decodeBody(t, rec)["message"])
}

func TestProfile(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Ali", "ali@x.com", "secret1")

	rec := doJSON(t, router, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Ali", body["name"])
	assert.Equal(t, "ali@x.com", body["email"])
	assert.NotContains(t, body, "password")
}

func TestTokenRoundTrip_ResolvesToCreatedUser(t *testing.T) {
	t.Parallel()

	tokens := services.NewTokenService("test-secret", services.TokenTTL)
	auth := services.NewAuthService(repositories.NewMemoryUserRepository())
	contacts := services.NewContactService(repositories.NewMemoryContactRepository())
	google := services.NewGoogleOauthConfig(config.GoogleConfig{})
	h := handlers.New(auth, contacts, tokens, nil, google, "http://localhost:3000")
	router := api.SetupRouter(h, middleware.NewAuthGuard(tokens))

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Ali", "email": "ali@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	createdID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ali@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"].(string)

	resolved, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, createdID, resolved.String())
}

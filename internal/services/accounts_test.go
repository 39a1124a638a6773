package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	localCache "github.com/wavelength/sociogram/internal/cache"
	"github.com/wavelength/sociogram/internal/models"
)

func ensureCache(t *testing.T) {
	t.Helper()
	if localCache.S == nil {
		require.NoError(t, localCache.NewStore())
	}
}

func TestGetAccountWithTokenCachesResolution(t *testing.T) {
	ensureCache(t)
	fb := newFakeBackend(t)
	fb.install(t)

	hits := 0
	fb.handle("/users/me", func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "Bearer token-cache-test", r.Header.Get("Authorization"))
		writeData(w, models.Account{ID: "u-1", FirstName: "Alice", LastName: "Pham"})
	})

	account, err := GetAccountWithToken("token-cache-test")
	require.NoError(t, err)
	assert.Equal(t, "u-1", account.ID)
	assert.Equal(t, "Alice Pham", account.DisplayName())

	// ristretto admits asynchronously, give the entry a moment to land
	localCache.R.Wait()

	account, err = GetAccountWithToken("token-cache-test")
	require.NoError(t, err)
	assert.Equal(t, "u-1", account.ID)
	assert.Equal(t, 1, hits)
}

func TestGetAccountWithTokenRejectsBadToken(t *testing.T) {
	ensureCache(t)
	fb := newFakeBackend(t)
	fb.install(t)

	fb.handle("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeData(w, nil)
	})

	_, err := GetAccountWithToken("token-invalid-test")
	require.Error(t, err)
}

func TestLoginAccount(t *testing.T) {
	ensureCache(t)
	fb := newFakeBackend(t)
	fb.install(t)

	fb.handle("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{"access_token": "fresh-session-token"})
	})
	fb.handle("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, models.Account{ID: "u-9", FirstName: "Bob"})
	})

	token, account, err := LoginAccount(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh-session-token", token)
	assert.Equal(t, "u-9", account.ID)
}

func TestListAccountsExcludesCaller(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	fb.handle("/users", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []models.Account{
			{ID: "u-1", FirstName: "Alice"},
			{ID: "u-2", FirstName: "Bob"},
			{ID: "u-3", FirstName: "Charlie"},
		})
	})

	accounts, err := ListAccounts(context.Background(), "user-token", lo.ToPtr("u-2"), 0)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	for _, account := range accounts {
		assert.NotEqual(t, "u-2", account.ID)
	}
}

package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"

	localCache "github.com/wavelength/sociogram/internal/cache"
	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/models"
)

const accountFields = "id,first_name,last_name,email,avatar"

// GetAccountWithToken resolves an opaque session token to the account
// it belongs to. Resolutions are cached for a few minutes so a page
// full of requests does not hammer the backend's me endpoint.
func GetAccountWithToken(token string) (models.Account, error) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	key := fmt.Sprintf("account-token#%x", sha256.Sum256([]byte(token)))
	if hit, err := marshal.Get(ctx, key, new(models.Account)); err == nil {
		return *hit.(*models.Account), nil
	}

	var account models.Account
	params := url.Values{}
	params.Set("fields", accountFields)
	if err := Cx.Get(ctx, token, "/users/me", params, &account); err != nil {
		return account, fmt.Errorf("failed to resolve session account: %v", err)
	}

	_ = marshal.Set(
		ctx,
		key,
		account,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"account-token"}),
	)

	return account, nil
}

// LoginAccount exchanges credentials for a session token at the
// backend and resolves the account behind it.
func LoginAccount(ctx context.Context, email, password string) (string, models.Account, error) {
	token, err := Cx.Login(ctx, email, password)
	if err != nil {
		return "", models.Account{}, err
	}
	account, err := GetAccountWithToken(token)
	if err != nil {
		return token, models.Account{}, err
	}
	return token, account, nil
}

// ListAccounts lists candidate accounts for the friend picker,
// excluding the caller when known.
func ListAccounts(ctx context.Context, token string, exclude *string, limit int) ([]models.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	var accounts []models.Account
	q := cms.Query{
		Collection: "users",
		Fields:     strings.Split(accountFields, ","),
		Limit:      limit,
	}
	if err := Cx.ReadItems(ctx, token, q, &accounts); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %v", err)
	}
	if exclude == nil {
		return accounts, nil
	}
	out := accounts[:0]
	for _, account := range accounts {
		if account.ID != *exclude {
			out = append(out, account)
		}
	}
	return out, nil
}

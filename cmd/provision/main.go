package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/models"
)

// Seeds demo accounts and friendships against the headless backend.
// Needs cms.endpoint and cms.admin_token in settings.toml; safe to run
// repeatedly.

var demoAccounts = []struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}{
	{"alice@example.com", "Alice", "Pham", "Password123!"},
	{"bob@example.com", "Bob", "Nguyen", "Password123!"},
	{"charlie@example.com", "Charlie", "Tran", "Password123!"},
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func upsertAccount(ctx context.Context, client *cms.Client, token, email, firstName, lastName, password string) (string, error) {
	var existing []models.Account
	err := client.ReadItems(ctx, token, cms.Query{
		Collection: "users",
		Fields:     []string{"id", "email"},
		Filter:     []cms.Condition{cms.Eq("email", email)},
		Limit:      1,
	}, &existing)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		log.Info().Str("email", email).Msg("Account already exists.")
		return existing[0].ID, nil
	}

	payload := map[string]any{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
		"password":   password,
	}
	var created models.Account
	if err := client.CreateItem(ctx, token, "users", payload, &created); err != nil {
		return "", err
	}
	log.Info().Str("email", email).Msg("Created account.")
	return created.ID, nil
}

func ensureFriendship(ctx context.Context, client *cms.Client, token, userA, userB string) error {
	a, b := models.NormalizeFriendPair(userA, userB)

	var existing []models.Friendship
	err := client.ReadItems(ctx, token, cms.Query{
		Collection: "friendships",
		Fields:     []string{"id"},
		Filter: []cms.Condition{
			cms.Eq("user_a", a),
			cms.Eq("user_b", b),
		},
		Limit: 1,
	}, &existing)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Str("user_a", a).Str("user_b", b).Msg("Friendship already exists.")
		return nil
	}

	friendship := models.Friendship{
		UserA:  a,
		UserB:  b,
		Status: models.FriendshipStatusAccepted,
	}
	if err := client.CreateItem(ctx, token, "friendships", friendship, nil); err != nil {
		return err
	}
	log.Info().Str("user_a", a).Str("user_b", b).Msg("Created friendship.")
	return nil
}

func main() {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	token := viper.GetString("cms.admin_token")
	if len(token) == 0 {
		log.Fatal().Msg("An admin token is required for provisioning.")
	}

	client := cms.NewClient(viper.GetString("cms.endpoint"), cms.NoopScheduler{})
	ctx := context.Background()

	var ids []string
	for _, account := range demoAccounts {
		id, err := upsertAccount(ctx, client, token, account.Email, account.FirstName, account.LastName, account.Password)
		if err != nil {
			log.Fatal().Err(err).Str("email", account.Email).Msg("An error occurred when upserting an account.")
		}
		ids = append(ids, id)
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if err := ensureFriendship(ctx, client, token, ids[i], ids[j]); err != nil {
				log.Fatal().Err(err).Msg("An error occurred when ensuring a friendship.")
			}
		}
	}

	log.Info().Msg("Done seeding accounts and friendships.")
}

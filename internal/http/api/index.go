package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/models"
	"github.com/wavelength/sociogram/internal/optimistic"
	"github.com/wavelength/sociogram/internal/services"
)

// Opt mirrors the interactive view state the UI drives: one four-state
// entry per in-flight reaction or comment action.
var Opt = optimistic.NewController()

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL, authMiddleware)
	{
		auth := api.Group("/auth")
		{
			auth.Post("/login", doLogin)
			auth.Post("/logout", doLogout)
			auth.Get("/session", getSession)
		}

		api.Get("/feed", getFeed)

		posts := api.Group("/posts")
		{
			posts.Post("/", createPost)
			posts.Get("/:postId", getPost)
			posts.Patch("/:postId", updatePost)
			posts.Delete("/:postId", deletePost)

			posts.Get("/:postId/comments", listComments)
			posts.Post("/:postId/comments", createComment)
			posts.Get("/:postId/comments/count", countComments)

			posts.Get("/:postId/reactions", getReactions)
			posts.Post("/:postId/reactions", toggleReaction)
		}

		api.Get("/users", listUsers)
		api.Post("/friends/request", requestFriend)
		api.Post("/conversations/start", startConversation)

		api.Post("/files", uploadFile)
		api.Get("/attachments/:fileId", proxyAsset)
	}
}

func authCookieName() string {
	return viper.GetString("security.cookie_name")
}

// authMiddleware resolves the session cookie to an account. A missing
// or stale cookie simply leaves the request anonymous.
func authMiddleware(c *fiber.Ctx) error {
	if token := c.Cookies(authCookieName()); len(token) > 0 {
		if account, err := services.GetAccountWithToken(token); err == nil {
			c.Locals("user", account)
			c.Locals("token", token)
		}
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) (models.Account, bool) {
	user, ok := c.Locals("user").(models.Account)
	return user, ok
}

func currentToken(c *fiber.Ctx) string {
	token, _ := c.Locals("token").(string)
	return token
}

package exts

import (
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const SessionCookieName = "jwt"

// ContextMiddleware resolves the session cookie into c.Locals("user"). A
// missing or broken cookie leaves the request anonymous, protected handlers
// reject it with EnsureAuthenticated.
func ContextMiddleware(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookieName)
	if len(token) == 0 {
		return c.Next()
	}

	id, err := services.ParseToken(token)
	if err != nil {
		return c.Next()
	}

	account, err := services.GetAccount(database.C, id)
	if err == nil {
		c.Locals("user", account)
	}

	return c.Next()
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Account); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized: no valid session")
	}
	return nil
}

func CurrentUser(c *fiber.Ctx) (models.Account, bool) {
	user, ok := c.Locals("user").(models.Account)
	return user, ok
}

func SetSessionCookie(c *fiber.Ctx, accountID uint) error {
	token, expiresAt, err := services.IssueToken(accountID)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   viper.GetBool("security.cookie_secure"),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return nil
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   viper.GetBool("security.cookie_secure"),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

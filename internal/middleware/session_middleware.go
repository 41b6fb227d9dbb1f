package middleware

import (
	"log"
	"net/url"

	"freshmart/internal/models"
	"freshmart/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// sessionUserKey is the session entry holding the authenticated user's ID.
const sessionUserKey = "user_id"

// localsUserKey is the request-scoped Locals entry holding the loaded user.
const localsUserKey = "user"

// LoginRequired is a Fiber middleware that resolves the session to a
// user account. Unauthenticated requests are redirected to the login
// page with the original URL as the next target.
func LoginRequired(store *session.Store, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Printf("Failed to load session: %v", err)
			return redirectToLogin(c)
		}

		userID, ok := sess.Get(sessionUserKey).(string)
		if !ok || userID == "" {
			return redirectToLogin(c)
		}

		user, err := users.GetByID(userID)
		if err != nil {
			// Session references an account that no longer resolves.
			log.Printf("Session user %s could not be loaded: %v", userID, err)
			if destroyErr := sess.Destroy(); destroyErr != nil {
				log.Printf("Failed to destroy stale session: %v", destroyErr)
			}
			return redirectToLogin(c)
		}

		// Request-scoped identity for downstream handlers.
		c.Locals(localsUserKey, user)
		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	return c.Redirect("/user/login?next=" + url.QueryEscape(c.OriginalURL()))
}

// CurrentUser returns the authenticated user placed by LoginRequired,
// or nil on unauthenticated routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

// EstablishSession binds the session to the user after a successful
// login.
func EstablishSession(c *fiber.Ctx, store *session.Store, userID string) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// DestroySession tears down the session unconditionally.
func DestroySession(c *fiber.Ctx, store *session.Store) {
	sess, err := store.Get(c)
	if err != nil {
		log.Printf("Failed to load session for logout: %v", err)
		return
	}
	if err := sess.Destroy(); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
}

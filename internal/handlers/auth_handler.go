package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"freshmart/internal/middleware"
	"freshmart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// rememberCookie stores the plaintext username (never the password)
// when the remember-me box is checked.
const (
	rememberCookie = "username"
	rememberMaxAge = 7 * 24 * time.Hour
)

// AuthHandler handles the registration, activation, login and logout
// pages.
type AuthHandler struct {
	authService *services.AuthService
	store       *session.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, store *session.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/user")
	userRoutes.Get("/register", h.ShowRegister)
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Get("/active/:token", h.HandleActivate)
	userRoutes.Get("/login", h.ShowLogin)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Get("/logout", h.HandleLogout)
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{"Username": "", "Email": ""})
}

// HandleRegister processes a registration submission. Validation and
// conflict problems re-render the form with an inline message; on
// success the user is redirected to the index while the activation
// email is dispatched in the background.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var form services.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing register form: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Errmsg":   "invalid form submission",
			"Username": "",
			"Email":    "",
		})
	}

	if _, err := h.authService.Register(form); err != nil {
		var validationErr *services.ValidationError
		var conflictErr *services.ConflictError
		switch {
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
				"Errmsg":   validationErr.Error(),
				"Username": form.Username,
				"Email":    form.Email,
			})
		case errors.As(err, &conflictErr):
			return c.Status(fiber.StatusConflict).Render("register", fiber.Map{
				"Errmsg":   conflictErr.Error(),
				"Username": form.Username,
				"Email":    form.Email,
			})
		default:
			log.Printf("Error registering user: %v", err)
			return c.Status(fiber.StatusInternalServerError).Render("register", fiber.Map{
				"Errmsg":   "could not register, please try again",
				"Username": form.Username,
				"Email":    form.Email,
			})
		}
	}

	return c.Redirect("/")
}

// HandleActivate verifies an activation link. Expired and invalid
// links get distinct messages.
func (h *AuthHandler) HandleActivate(c *fiber.Ctx) error {
	token := c.Params("token")
	if err := h.authService.Activate(token); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			return c.Status(fiber.StatusBadRequest).SendString("The activation link has expired.")
		case errors.Is(err, services.ErrTokenInvalid):
			return c.Status(fiber.StatusBadRequest).SendString("The activation link is invalid.")
		default:
			log.Printf("Error activating account: %v", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Activation failed, please try again.")
		}
	}
	return c.Redirect("/user/login")
}

// ShowLogin renders the login form, pre-filling the remembered
// username from the cookie when present.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	username := c.Cookies(rememberCookie)
	checked := ""
	if username != "" {
		checked = "checked"
	}
	return c.Render("login", fiber.Map{
		"Username": username,
		"Checked":  checked,
	})
}

// HandleLogin processes a login submission: establishes the session,
// honors the next target, and sets or clears the remember-me cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form services.LoginForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing login form: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
			"Errmsg":   "invalid form submission",
			"Username": "",
			"Checked":  "",
		})
	}

	user, err := h.authService.Login(form)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
				"Errmsg":   validationErr.Error(),
				"Username": form.Username,
				"Checked":  "",
			})
		case errors.Is(err, services.ErrInactiveAccount):
			return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
				"Errmsg":   services.ErrInactiveAccount.Error(),
				"Username": form.Username,
				"Checked":  "",
			})
		case errors.Is(err, services.ErrAuthentication):
			return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
				"Errmsg":   services.ErrAuthentication.Error(),
				"Username": form.Username,
				"Checked":  "",
			})
		default:
			log.Printf("Error during login for user %s: %v", form.Username, err)
			return c.Status(fiber.StatusInternalServerError).Render("login", fiber.Map{
				"Errmsg":   "login failed, please try again",
				"Username": form.Username,
				"Checked":  "",
			})
		}
	}

	if err := middleware.EstablishSession(c, h.store, user.ID); err != nil {
		log.Printf("Failed to establish session for user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).Render("login", fiber.Map{
			"Errmsg":   "login failed, please try again",
			"Username": form.Username,
			"Checked":  "",
		})
	}

	if form.Remember == "on" {
		c.Cookie(&fiber.Cookie{
			Name:    rememberCookie,
			Value:   user.Username,
			MaxAge:  int(rememberMaxAge.Seconds()),
			Expires: time.Now().Add(rememberMaxAge),
		})
	} else {
		c.Cookie(&fiber.Cookie{
			Name:    rememberCookie,
			Value:   "",
			MaxAge:  -1,
			Expires: time.Now().Add(-time.Hour),
		})
	}

	next := c.Query("next", "/")
	// Only follow relative targets.
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	return c.Redirect(next)
}

// HandleLogout tears down the session and returns to the index. Always
// succeeds.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	middleware.DestroySession(c, h.store)
	return c.Redirect("/")
}

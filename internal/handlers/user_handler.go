package handlers

import (
	"errors"
	"log"

	"freshmart/internal/middleware"
	"freshmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the authenticated user-center pages: profile,
// order history, and addresses.
type UserHandler struct {
	profileService *services.ProfileService
	orderService   *services.OrderService
	addressService *services.AddressService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(profileService *services.ProfileService, orderService *services.OrderService, addressService *services.AddressService) *UserHandler {
	return &UserHandler{
		profileService: profileService,
		orderService:   orderService,
		addressService: addressService,
	}
}

// RegisterRoutes registers the user-center routes behind the login
// middleware.
func (h *UserHandler) RegisterRoutes(router fiber.Router, loginRequired fiber.Handler) {
	userRoutes := router.Group("/user", loginRequired)
	userRoutes.Get("/", h.HandleProfile)
	userRoutes.Get("/order/:page?", h.HandleOrders)
	userRoutes.Get("/address", h.ShowAddress)
	userRoutes.Post("/address", h.HandleAddAddress)
}

// HandleProfile renders the profile page: default address plus the
// recently viewed SKUs.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	view, err := h.profileService.Profile(c.UserContext(), user.ID)
	if err != nil {
		log.Printf("Error loading profile for user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).Render("user_center_info", fiber.Map{
			"Page":   "user",
			"User":   user,
			"Errmsg": "could not load profile",
		})
	}

	return c.Render("user_center_info", fiber.Map{
		"Page":    "user",
		"User":    user,
		"Address": view.Address,
		"Goods":   view.RecentSKUs,
	})
}

// HandleOrders renders one page of the user's order history with the
// page-number strip.
func (h *UserHandler) HandleOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	page, err := h.orderService.History(user.ID, c.Params("page", "1"))
	if err != nil {
		log.Printf("Error loading orders for user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).Render("user_center_order", fiber.Map{
			"Page":   "order",
			"User":   user,
			"Errmsg": "could not load orders",
		})
	}

	return c.Render("user_center_order", fiber.Map{
		"Page":      "order",
		"User":      user,
		"OrderPage": page,
	})
}

// ShowAddress renders the address page with the user's default
// address, if any.
func (h *UserHandler) ShowAddress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	address, err := h.addressService.Default(user.ID)
	if err != nil {
		log.Printf("Error loading address for user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).Render("user_center_site", fiber.Map{
			"Page":   "address",
			"User":   user,
			"Errmsg": "could not load address",
		})
	}

	return c.Render("user_center_site", fiber.Map{
		"Page":    "address",
		"User":    user,
		"Address": address,
	})
}

// HandleAddAddress processes an address-add submission. Validation
// failures re-render the page with an inline message.
func (h *UserHandler) HandleAddAddress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var form services.AddressForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing address form: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("user_center_site", fiber.Map{
			"Page":   "address",
			"User":   user,
			"Errmsg": "invalid form submission",
		})
	}

	if _, err := h.addressService.Add(user.ID, form); err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			address, defErr := h.addressService.Default(user.ID)
			if defErr != nil {
				log.Printf("Error loading address for user %s: %v", user.Username, defErr)
			}
			return c.Status(fiber.StatusBadRequest).Render("user_center_site", fiber.Map{
				"Page":    "address",
				"User":    user,
				"Address": address,
				"Errmsg":  validationErr.Error(),
			})
		}
		log.Printf("Error adding address for user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).Render("user_center_site", fiber.Map{
			"Page":   "address",
			"User":   user,
			"Errmsg": "could not save address",
		})
	}

	return c.Redirect("/user/address")
}

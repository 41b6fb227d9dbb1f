package handlers_test

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"freshmart/internal/cache"
	"freshmart/internal/handlers"
	"freshmart/internal/middleware"
	"freshmart/internal/models"
	"freshmart/internal/render"
	"freshmart/internal/repositories"
	"freshmart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	app         *fiber.App
	authService *services.AuthService
	userRepo    repositories.UserRepository
	addressRepo repositories.AddressRepository
	orderRepo   repositories.OrderRepository
	history     *cache.MockHistory
}

// dbCounter gives each setupApp call its own named in-memory database
// so tests do not share state through the sqlite shared cache.
var dbCounter int64

// setupApp builds the full storefront app on an in-memory SQLite
// database, an in-memory view history, and no activation dispatcher.
func setupApp() (*testEnv, error) {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Address{}, &models.SKU{}, &models.Order{}, &models.OrderLine{})
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	skuRepo := repositories.NewGORMSKURepository(db)
	// Mock order repo so tests can control creation timestamps.
	orderRepo := repositories.NewMockOrderRepository()
	history := cache.NewMockHistory()

	authService := services.NewAuthService(userRepo, nil, "test_secret_key")
	profileService := services.NewProfileService(addressRepo, skuRepo, history)
	orderService := services.NewOrderService(orderRepo, 1)
	addressService := services.NewAddressService(addressRepo)

	store := session.New()
	app := fiber.New(fiber.Config{
		Views: render.New("../../web/templates"),
	})

	authHandler := handlers.NewAuthHandler(authService, store)
	authHandler.RegisterRoutes(app)
	userHandler := handlers.NewUserHandler(profileService, orderService, addressService)
	userHandler.RegisterRoutes(app, middleware.LoginRequired(store, userRepo))

	if err := skuRepo.Create(&models.SKU{ID: "sku-1", Name: "Strawberries", Unit: "500g", Price: 12.50, Stock: 100}); err != nil {
		return nil, fmt.Errorf("failed to seed SKU: %w", err)
	}

	return &testEnv{
		app:         app,
		authService: authService,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		orderRepo:   orderRepo,
		history:     history,
	}, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func getPage(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	return string(body)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// registerAndActivate drives the registration and activation flows and
// returns the session cookie from a subsequent login.
func registerAndActivate(t *testing.T, env *testEnv, username, password string) *http.Cookie {
	t.Helper()
	resp := postForm(t, env.app, "/user/register", url.Values{
		"username": {username},
		"password": {password},
		"email":    {username + "@example.com"},
		"allow":    {"on"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	user, err := env.userRepo.GetByUsername(username)
	assert.NoError(t, err)
	token, err := env.authService.ActivationToken(user.ID)
	assert.NoError(t, err)

	resp = getPage(t, env.app, "/user/active/"+token)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/user/login", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = postForm(t, env.app, "/user/login", url.Values{
		"username": {username},
		"password": {password},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	sessionCookie := findCookie(resp, "session_id")
	assert.NotNil(t, sessionCookie)
	resp.Body.Close()
	return sessionCookie
}

func TestRegistrationFlow(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	// The form renders.
	resp := getPage(t, env.app, "/user/register")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Successful registration redirects to the index and the account
	// starts out inactive.
	resp = postForm(t, env.app, "/user/register", url.Values{
		"username": {"charlie"},
		"password": {"password123"},
		"email":    {"charlie@example.com"},
		"allow":    {"on"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()

	user, err := env.userRepo.GetByUsername("charlie")
	assert.NoError(t, err)
	assert.False(t, user.Active)

	// Duplicate username re-renders the form with a conflict message.
	resp = postForm(t, env.app, "/user/register", url.Values{
		"username": {"charlie"},
		"password": {"password123"},
		"email":    {"other@example.com"},
		"allow":    {"on"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "already taken")

	// Bad email re-renders with a validation message.
	resp = postForm(t, env.app, "/user/register", url.Values{
		"username": {"dana"},
		"password": {"password123"},
		"email":    {"not-an-email"},
		"allow":    {"on"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Email")

	// Unchecked terms re-renders too.
	resp = postForm(t, env.app, "/user/register", url.Values{
		"username": {"dana"},
		"password": {"password123"},
		"email":    {"dana@example.com"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestActivationFlow(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	resp := postForm(t, env.app, "/user/register", url.Values{
		"username": {"erin"},
		"password": {"password123"},
		"email":    {"erin@example.com"},
		"allow":    {"on"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	// Login before activation is refused with the inactive message,
	// not the bad-credentials one.
	resp = postForm(t, env.app, "/user/login", url.Values{
		"username": {"erin"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "not been activated")
	assert.NotContains(t, body, "incorrect username or password")

	// A tampered token is rejected.
	resp = getPage(t, env.app, "/user/active/not-a-real-token")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "invalid")

	// The real token activates the account and login works.
	user, err := env.userRepo.GetByUsername("erin")
	assert.NoError(t, err)
	token, err := env.authService.ActivationToken(user.ID)
	assert.NoError(t, err)
	resp = getPage(t, env.app, "/user/active/"+token)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	user, err = env.userRepo.GetByUsername("erin")
	assert.NoError(t, err)
	assert.True(t, user.Active)

	resp = postForm(t, env.app, "/user/login", url.Values{
		"username": {"erin"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginRememberMeCookie(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)
	registerAndActivate(t, env, "frank", "password123")

	// Remember checked: the username cookie is set for 7 days.
	resp := postForm(t, env.app, "/user/login", url.Values{
		"username": {"frank"},
		"password": {"password123"},
		"remember": {"on"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	remembered := findCookie(resp, "username")
	assert.NotNil(t, remembered)
	assert.Equal(t, "frank", remembered.Value)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), remembered.MaxAge)
	resp.Body.Close()

	// The login page pre-fills the remembered username.
	resp = getPage(t, env.app, "/user/login", &http.Cookie{Name: "username", Value: "frank"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `value="frank"`)
	assert.Contains(t, body, "checked")

	// Remember unchecked: the cookie is cleared.
	resp = postForm(t, env.app, "/user/login", url.Values{
		"username": {"frank"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	cleared := findCookie(resp, "username")
	assert.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	resp.Body.Close()
}

func TestLoginNextTarget(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)
	registerAndActivate(t, env, "grace", "password123")

	resp := postForm(t, env.app, "/user/login?next=%2Fuser%2Faddress", url.Values{
		"username": {"grace"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/user/address", resp.Header.Get("Location"))
	resp.Body.Close()

	// Absolute targets are not followed.
	resp = postForm(t, env.app, "/user/login?next=https%3A%2F%2Fevil.example", url.Values{
		"username": {"grace"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestUserCenterRequiresLogin(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	for _, path := range []string{"/user/", "/user/order/1", "/user/address"} {
		resp := getPage(t, env.app, path)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Location"), "/user/login?next=")
		resp.Body.Close()
	}
}

func TestProfilePage(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)
	sessionCookie := registerAndActivate(t, env, "heidi", "password123")

	user, err := env.userRepo.GetByUsername("heidi")
	assert.NoError(t, err)
	env.history.Push(user.ID, "sku-1")
	env.history.Push(user.ID, "sku-gone") // stale id, silently skipped

	resp := getPage(t, env.app, "/user/", sessionCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "heidi")
	assert.Contains(t, body, "Strawberries")
	assert.Contains(t, body, "No address on file")
}

func TestLogout(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)
	sessionCookie := registerAndActivate(t, env, "ivan", "password123")

	resp := getPage(t, env.app, "/user/logout", sessionCookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	// The old session no longer grants access.
	resp = getPage(t, env.app, "/user/", sessionCookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/user/login")
	resp.Body.Close()
}

func TestAddressPage(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)
	sessionCookie := registerAndActivate(t, env, "judy", "password123")
	user, err := env.userRepo.GetByUsername("judy")
	assert.NoError(t, err)

	// First address becomes the default.
	resp := postForm(t, env.app, "/user/address", url.Values{
		"receiver": {"Judy"},
		"addr":     {"1 Main St"},
		"zip_code": {"100000"},
		"phone":    {"13512345678"},
	}, sessionCookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/user/address", resp.Header.Get("Location"))
	resp.Body.Close()

	def, err := env.addressRepo.GetDefault(user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, def)
	assert.Equal(t, "Judy", def.Receiver)

	// The page shows the default address.
	resp = getPage(t, env.app, "/user/address", sessionCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "1 Main St")

	// A second address does not replace the default.
	resp = postForm(t, env.app, "/user/address", url.Values{
		"receiver": {"Judy"},
		"addr":     {"2 Side St"},
		"phone":    {"13712345678"},
	}, sessionCookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	def, err = env.addressRepo.GetDefault(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "1 Main St", def.Addr)

	// A bad phone number re-renders with the validation message.
	resp = postForm(t, env.app, "/user/address", url.Values{
		"receiver": {"Judy"},
		"addr":     {"3 High St"},
		"phone":    {"999"},
	}, sessionCookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Phone")
}

func TestOrderHistoryPage(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)
	sessionCookie := registerAndActivate(t, env, "karl", "password123")
	user, err := env.userRepo.GetByUsername("karl")
	assert.NoError(t, err)

	base := time.Now().Add(-3 * time.Hour)
	for i := 1; i <= 3; i++ {
		order := &models.Order{
			ID:     fmt.Sprintf("order-%d", i),
			UserID: user.ID,
			Status: models.StatusUnpaid,
		}
		order.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		lines := []models.OrderLine{{SKUID: "sku-1", Quantity: 3, Price: 9.50}}
		assert.NoError(t, env.orderRepo.Create(order, lines))
	}

	// Page 1 shows the newest order with subtotal and status label.
	resp := getPage(t, env.app, "/user/order/1", sessionCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "order-3")
	assert.Contains(t, body, "28.50")
	assert.Contains(t, body, "awaiting payment")

	// Out-of-range pages clamp to the last page.
	resp = getPage(t, env.app, "/user/order/99", sessionCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "order-1")

	// Non-numeric page defaults to page 1.
	resp = getPage(t, env.app, "/user/order/abc", sessionCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "order-3")
}

package services

import (
	"fmt"
	"log"
	"time"

	"freshmart/internal/models"
	"freshmart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ActivationDispatcher hands an activation email off to the outbound
// queue. Dispatch is best-effort: a failure here must never fail the
// registration that triggered it.
type ActivationDispatcher interface {
	DispatchActivationEmail(email, username, token string) error
}

// AuthService handles registration, account activation, and login.
type AuthService struct {
	userRepo   repositories.UserRepository
	dispatcher ActivationDispatcher
	validate   *validator.Validate
	secretKey  []byte
	tokenDurat time.Duration // Duration for which the activation token is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, dispatcher ActivationDispatcher, secretKey string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		dispatcher: dispatcher,
		validate:   newFormValidator(),
		secretKey:  []byte(secretKey),
		tokenDurat: time.Hour, // Activation link valid for 1 hour
	}
}

// Register validates the submission, creates an inactive account with
// a hashed password, and dispatches the activation email. The account
// is created even when dispatch fails.
func (s *AuthService) Register(form RegisterForm) (*models.User, error) {
	if err := checkForm(s.validate, form); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(form.Username); err == nil && existing != nil {
		return nil, &ConflictError{Resource: "username", Value: form.Username}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashedPassword),
		Active:   false,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.ActivationToken(user.ID)
	if err != nil {
		log.Printf("Warning: failed to issue activation token for user %s: %v", user.Username, err)
		return user, nil
	}
	if s.dispatcher == nil {
		log.Println("Activation dispatcher is not initialized. Skipping activation email.")
		return user, nil
	}
	if err := s.dispatcher.DispatchActivationEmail(user.Email, user.Username, token); err != nil {
		log.Printf("Warning: failed to dispatch activation email for user %s: %v", user.Username, err)
	}
	return user, nil
}

// ActivationToken issues a signed, time-limited token proving control
// of the registration email. The claim carries the user ID.
func (s *AuthService) ActivationToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"confirm": userID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign activation token: %w", err)
	}
	return tokenString, nil
}

// Activate verifies the activation token and flips the referenced
// user's active flag. Expired links and tampered links fail with
// distinct errors so the page can show the right message.
func (s *AuthService) Activate(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		ve, ok := err.(*jwt.ValidationError)
		if !ok {
			return ErrTokenInvalid
		}
		// A bad signature always wins over expiry: a tampered token is
		// invalid even when its exp claim is also in the past.
		if ve.Errors&(jwt.ValidationErrorMalformed|jwt.ValidationErrorUnverifiable|jwt.ValidationErrorSignatureInvalid) != 0 {
			return ErrTokenInvalid
		}
		if ve.Errors&jwt.ValidationErrorExpired != 0 {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrTokenInvalid
	}
	userID, ok := claims["confirm"].(string)
	if !ok || userID == "" {
		return ErrTokenInvalid
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		return ErrTokenInvalid
	}
	if err := s.userRepo.SetActive(userID); err != nil {
		return fmt.Errorf("failed to activate user %s: %w", userID, err)
	}
	return nil
}

// Login authenticates the submission and returns the account on
// success. Unknown usernames and wrong passwords both map to
// ErrAuthentication; correct credentials on an unactivated account map
// to ErrInactiveAccount.
func (s *AuthService) Login(form LoginForm) (*models.User, error) {
	if err := checkForm(s.validate, form); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(form.Username)
	if err != nil {
		// Do not reveal whether the username exists.
		return nil, ErrAuthentication
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		return nil, ErrAuthentication
	}
	if !user.Active {
		return nil, ErrInactiveAccount
	}
	return user, nil
}

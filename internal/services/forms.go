package services

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation patterns carried over from the legacy storefront. The
// phone pattern is the regional mobile-number shape.
var (
	emailPattern  = regexp.MustCompile(`^[a-z0-9][\w.\-]*@[a-z0-9\-]+(\.[a-z]{2,5}){1,2}$`)
	mobilePattern = regexp.MustCompile(`^1[34578]\d{9}$`)
)

// newFormValidator builds a validator with the storefront's custom
// email and mobile-number rules registered.
func newFormValidator() *validator.Validate {
	v := validator.New()
	// Errors from RegisterValidation are only possible for blank tags.
	_ = v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cn_mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	return v
}

// RegisterForm carries the registration submission.
type RegisterForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Email    string `form:"email" validate:"required,account_email"`
	Allow    string `form:"allow" validate:"required,eq=on"`
}

// LoginForm carries the login submission. Remember is the
// checkbox-style remember-me flag ("on" when checked).
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Remember string `form:"remember"`
}

// AddressForm carries the address-add submission.
type AddressForm struct {
	Receiver string `form:"receiver" validate:"required"`
	Addr     string `form:"addr" validate:"required"`
	ZipCode  string `form:"zip_code"`
	Phone    string `form:"phone" validate:"required,cn_mobile"`
}

var validationReasons = map[string]string{
	"required":      "is required",
	"account_email": "is not a valid email address",
	"cn_mobile":     "is not a valid mobile number",
	"eq":            "must be accepted",
}

// checkForm runs the validator and converts the first failure into a
// *ValidationError with a human-readable reason.
func checkForm(v *validator.Validate, form interface{}) error {
	if err := v.Struct(form); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok || len(validationErrors) == 0 {
			return &ValidationError{Field: "form", Reason: "is invalid"}
		}
		first := validationErrors[0]
		reason, ok := validationReasons[first.Tag()]
		if !ok {
			reason = "is invalid"
		}
		return &ValidationError{Field: first.Field(), Reason: reason}
	}
	return nil
}

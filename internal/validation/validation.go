// Package validation checks auth forms before anything is sent to the API.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator"
)

// MinPasswordLength is the shortest password either form accepts
const MinPasswordLength = 8

var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

// LoginForm is the login-mode form
type LoginForm struct {
	Email    string `validate:"required,looseemail"`
	Password string `validate:"required,min=8"`
}

// RegisterForm is the register-mode form. Field order is message order.
type RegisterForm struct {
	Email          string `validate:"required,looseemail"`
	Password       string `validate:"required,min=8"`
	VerifyPassword string `validate:"required,eqfield=Password"`
	Username       string `validate:"required"`
	Age            string `validate:"required"`
	Country        string `validate:"required"`
	Language       string
}

// Validator collects every violated rule of a form as user-facing messages
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator
func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return looseEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register looseemail: %v", err))
	}
	return &Validator{validate: v}
}

// Login returns the messages for a login form, nil if it is valid
func (v *Validator) Login(form LoginForm) []string {
	return v.messages(form)
}

// Register returns the messages for a register form, nil if it is valid
func (v *Validator) Register(form RegisterForm) []string {
	return v.messages(form)
}

func (v *Validator) messages(form any) []string {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe.Field(), fe.Tag()))
	}
	return msgs
}

func message(field, tag string) string {
	switch field {
	case "Email":
		if tag == "required" {
			return "Email is required"
		}
		return "Email is invalid"
	case "Password":
		if tag == "required" {
			return "Password is required"
		}
		return fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	case "VerifyPassword":
		if tag == "required" {
			return "Password confirmation is required"
		}
		return "Passwords do not match"
	case "Username":
		return "Username is required"
	case "Age":
		return "Age is required"
	case "Country":
		return "Country is required"
	}
	return field + " is invalid"
}

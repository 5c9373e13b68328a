package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRegister() RegisterForm {
	return RegisterForm{
		Email:          "rex@example.com",
		Password:       "zombies1",
		VerifyPassword: "zombies1",
		Username:       "rex",
		Age:            "20",
		Country:        "Chile",
	}
}

func TestLoginValid(t *testing.T) {
	assert.Empty(t, New().Login(LoginForm{Email: "rex@example.com", Password: "zombies1"}))
}

func TestLoginInvalidEmail(t *testing.T) {
	msgs := New().Login(LoginForm{Email: "not-an-email", Password: "zombies1"})
	assert.Equal(t, []string{"Email is invalid"}, msgs)
}

func TestLoginCollectsAllViolations(t *testing.T) {
	msgs := New().Login(LoginForm{})
	assert.Equal(t, []string{"Email is required", "Password is required"}, msgs)
}

func TestLoginShortPassword(t *testing.T) {
	msgs := New().Login(LoginForm{Email: "rex@example.com", Password: "short"})
	assert.Equal(t, []string{"Password must be at least 8 characters"}, msgs)
}

func TestLooseEmailPattern(t *testing.T) {
	v := New()
	for _, email := range []string{"a@b.c", "rex@example.com", "x.y@sub.domain.org"} {
		assert.Empty(t, v.Login(LoginForm{Email: email, Password: "zombies1"}), email)
	}
	for _, email := range []string{"rex@example", "rex.example.com", "@.", "rex @ex.com"} {
		assert.Equal(t, []string{"Email is invalid"}, v.Login(LoginForm{Email: email, Password: "zombies1"}), email)
	}
}

func TestRegisterValid(t *testing.T) {
	assert.Empty(t, New().Register(validRegister()))
}

func TestRegisterEmptyInOrder(t *testing.T) {
	msgs := New().Register(RegisterForm{})
	assert.Equal(t, []string{
		"Email is required",
		"Password is required",
		"Password confirmation is required",
		"Username is required",
		"Age is required",
		"Country is required",
	}, msgs)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	form := validRegister()
	form.VerifyPassword = "zombies2"

	assert.Equal(t, []string{"Passwords do not match"}, New().Register(form))
}

func TestRegisterLanguageIsOptional(t *testing.T) {
	form := validRegister()
	form.Language = "es"
	assert.Empty(t, New().Register(form))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, []string{"Chile", "China"}, Suggest("ch"))
	assert.Equal(t, []string{"Chile"}, Suggest(" CHIL"))
	assert.Nil(t, Suggest(""))
	assert.Nil(t, Suggest("zz"))
}

func TestSuggestIsCapped(t *testing.T) {
	// more than eight countries start with "C"
	assert.Len(t, Suggest("c"), MaxSuggestions)
}

package session

import "time"

// Action is one of the transitions Reduce understands.
// The set is closed: only the types in this file implement it.
type Action interface {
	Kind() string
	sealed()
}

// AuthField names an auth field that SetAuthField may overwrite
type AuthField string

// Settable auth fields
const (
	FieldEmail        AuthField = "email"
	FieldPassword     AuthField = "password"
	FieldShowPassword AuthField = "showPassword"
	FieldPrefillEmail AuthField = "prefillEmail"
)

// SetAuthField overwrites one named auth field and clears the error
type SetAuthField struct {
	Field AuthField
	Value any
}

// ToggleShowPassword flips password visibility
type ToggleShowPassword struct{}

// LoginRequest marks a login in flight
type LoginRequest struct{}

// LoginSuccess records an accepted login
type LoginSuccess struct {
	Token            string
	SessionExpiresAt time.Time
	Profile          ProfilePatch
}

// LoginFailure records a rejected login
type LoginFailure struct {
	Error string
}

// BlockLogin blocks further attempts until ExpiresAt
type BlockLogin struct {
	ExpiresAt time.Time
}

// UnblockLogin lifts a block and resets the attempt counter
type UnblockLogin struct{}

// Logout resets the whole state
type Logout struct{}

// SessionExpired drops credentials but keeps profile display fields
type SessionExpired struct{}

// RedirectToRegister asks the auth screen to switch to register mode
type RedirectToRegister struct {
	Email string
}

// ResetRedirectToRegister clears a pending register redirect
type ResetRedirectToRegister struct{}

// UpdateProfile shallow-merges into the profile
type UpdateProfile struct {
	Patch ProfilePatch
}

func (SetAuthField) Kind() string            { return "SET_AUTH_FIELD" }
func (ToggleShowPassword) Kind() string      { return "TOGGLE_SHOW_PASSWORD" }
func (LoginRequest) Kind() string            { return "LOGIN_REQUEST" }
func (LoginSuccess) Kind() string            { return "LOGIN_SUCCESS" }
func (LoginFailure) Kind() string            { return "LOGIN_FAILURE" }
func (BlockLogin) Kind() string              { return "BLOCK_LOGIN" }
func (UnblockLogin) Kind() string            { return "UNBLOCK_LOGIN" }
func (Logout) Kind() string                  { return "LOGOUT" }
func (SessionExpired) Kind() string          { return "SESSION_EXPIRED" }
func (RedirectToRegister) Kind() string      { return "REDIRECT_TO_REGISTER" }
func (ResetRedirectToRegister) Kind() string { return "RESET_REDIRECT_TO_REGISTER" }
func (UpdateProfile) Kind() string           { return "UPDATE_PROFILE" }

func (SetAuthField) sealed()            {}
func (ToggleShowPassword) sealed()      {}
func (LoginRequest) sealed()            {}
func (LoginSuccess) sealed()            {}
func (LoginFailure) sealed()            {}
func (BlockLogin) sealed()              {}
func (UnblockLogin) sealed()            {}
func (Logout) sealed()                  {}
func (SessionExpired) sealed()          {}
func (RedirectToRegister) sealed()      {}
func (ResetRedirectToRegister) sealed() {}
func (UpdateProfile) sealed()           {}

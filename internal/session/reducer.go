package session

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownField  = errors.New("unknown auth field")
	ErrMissingToken  = errors.New("login success without a token")
)

// Reduce returns the state after applying action. The input is never
// modified. Anything outside the action table is an error; callers treat it
// as a programming fault, not a user-facing condition.
func Reduce(state State, action Action) (State, error) {
	next := state

	switch a := action.(type) {
	case SetAuthField:
		if err := setAuthField(&next.Auth, a.Field, a.Value); err != nil {
			return state, err
		}
		next.Auth.Error = ""

	case ToggleShowPassword:
		next.Auth.ShowPassword = !state.Auth.ShowPassword

	case LoginRequest:
		next.Auth.IsLoading = true
		next.Auth.Error = ""

	case LoginSuccess:
		if a.Token == "" {
			return state, ErrMissingToken
		}
		expires := a.SessionExpiresAt
		next.Auth.IsLoading = false
		next.Auth.IsLoggedIn = true
		next.Auth.Token = a.Token
		next.Auth.SessionExpiresAt = &expires
		next.Auth.LoginAttempts = 0
		next.Auth.IsBlocked = false
		next.Auth.BlockExpiresAt = nil
		next.Auth.Error = ""
		next.Profile = state.Profile.merge(a.Profile)
		next.Profile.IsOnline = true

	case LoginFailure:
		next.Auth.IsLoading = false
		next.Auth.Error = a.Error
		next.Auth.LoginAttempts = state.Auth.LoginAttempts + 1

	case BlockLogin:
		expires := a.ExpiresAt
		next.Auth.IsBlocked = true
		next.Auth.BlockExpiresAt = &expires

	case UnblockLogin:
		next.Auth.IsBlocked = false
		next.Auth.LoginAttempts = 0
		next.Auth.BlockExpiresAt = nil

	case Logout:
		next = Initial()

	case SessionExpired:
		next.Auth.IsLoggedIn = false
		next.Auth.Token = ""
		next.Auth.SessionExpiresAt = nil
		next.Profile.IsOnline = false

	case RedirectToRegister:
		next.Auth.RedirectToRegister = true
		next.Auth.PrefillEmail = a.Email

	case ResetRedirectToRegister:
		next.Auth.RedirectToRegister = false
		next.Auth.PrefillEmail = ""

	case UpdateProfile:
		next.Profile = state.Profile.merge(a.Patch)

	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}

	return next, nil
}

func setAuthField(auth *Auth, field AuthField, value any) error {
	switch field {
	case FieldEmail, FieldPassword, FieldPrefillEmail:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("auth field %q wants a string, got %T", field, value)
		}
		switch field {
		case FieldEmail:
			auth.Email = s
		case FieldPassword:
			auth.Password = s
		default:
			auth.PrefillEmail = s
		}
	case FieldShowPassword:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("auth field %q wants a bool, got %T", field, value)
		}
		auth.ShowPassword = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

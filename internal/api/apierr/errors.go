package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/auth"
)

// httpError combines an HTTP status code with the message sent to the client
type httpError struct {
	status int
	msg    string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.msg
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(model.ErrorEnvelope{Msg: he.msg})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, verr.Msg}
	}

	switch {
	// Account errors
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, "Usuario no encontrado"}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, "El nombre de usuario ya existe."}
	case errors.Is(err, model.ErrEmailTaken):
		return &httpError{http.StatusConflict, "El correo ya está registrado."}

	// Auth errors
	case errors.Is(err, auth.ErrMissingCredentials):
		return &httpError{http.StatusBadRequest, "Email y contraseña requeridos."}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, "Credenciales inválidas."}
	case errors.Is(err, auth.ErrTokenMissing):
		return &httpError{http.StatusUnauthorized, "Token no proporcionado"}
	case errors.Is(err, auth.ErrTokenExpired):
		return &httpError{http.StatusUnauthorized, "Token expirado"}
	case errors.Is(err, auth.ErrTokenInvalid):
		return &httpError{http.StatusUnauthorized, "Token inválido"}
	case errors.Is(err, auth.ErrForbidden):
		return &httpError{http.StatusForbidden, "No autorizado"}

	default:
		return &httpError{http.StatusInternalServerError, "Error interno del servidor"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) error {
	return &httpError{http.StatusUnauthorized, message}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, "Error interno del servidor"}
}

package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows any origin to call the API with JSON bodies and bearer tokens
func CORS(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:       []string{"X-Request-ID"},
		OptionsSuccessStatus: http.StatusNoContent,
	}).Handler(next)
}

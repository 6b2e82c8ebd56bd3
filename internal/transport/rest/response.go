package rest

import (
	"encoding/json"
	"net/http"

	zlog "github.com/rs/zerolog/log"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// TimezoneResponse is the body of a successful GET /timezone.
type TimezoneResponse struct {
	Timezone string `json:"timezone"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WithJSON sends payload as a JSON object.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		zlog.Error().Msgf("Error encoding response: %v", err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set(headerContentType, contentTypeJSON)
	writer.WriteHeader(code)
	if _, err := writer.Write(body); err != nil {
		zlog.Error().Msgf("Error writing response: %v", err)
	}
}

// WithError sends an error message.
func WithError(writer http.ResponseWriter, code int, message string) {
	WithJSON(writer, code, ErrorResponse{Error: message})
}

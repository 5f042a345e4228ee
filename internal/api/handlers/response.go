package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// result is the outcome of a handler: either data or a failure message.
type result struct {
	ok      bool
	message string
	data    any
}

func success(data any) result {
	return result{ok: true, data: data}
}

func successMessage(message string, data any) result {
	return result{ok: true, message: message, data: data}
}

func failure(message string) result {
	return result{ok: false, message: message}
}

// successEnvelope is the wire format used by the user endpoints.
type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// statusEnvelope is the wire format existing clients expect from the refunds endpoint.
type statusEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeResult(w http.ResponseWriter, code int, res result) {
	writeJSON(w, code, successEnvelope{Success: res.ok, Message: res.message, Data: res.data})
}

func writeStatusResult(w http.ResponseWriter, code int, res result) {
	writeJSON(w, code, statusEnvelope{Status: res.ok, Message: res.message, Data: res.data})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

package http

import (
	"encoding/json"
	"net/http"
)

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

// WriteError respuesta de error JSON para los endpoints administrativos.
func WriteError(w http.ResponseWriter, status int, code, desc string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rid := w.Header().Get("X-Request-ID")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error:            code,
		ErrorDescription: desc,
		RequestID:        rid,
	})
}

// WriteJSON respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// gqlFailure shape de error del endpoint GraphQL: mismo envelope que una
// ejecución, sin data.
type gqlFailure struct {
	Errors []gqlFailureError `json:"errors"`
}

type gqlFailureError struct {
	Message string `json:"message"`
}

// WriteGQLError respuesta de error con shape GraphQL-over-HTTP.
func WriteGQLError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, gqlFailure{Errors: []gqlFailureError{{Message: message}}})
}

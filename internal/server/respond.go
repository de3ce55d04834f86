package server

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the uniform error envelope returned to clients.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope. message may be empty.
func WriteError(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSON(w, status, ErrorBody{Error: errMsg, Message: message})
}

package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "Internal Server Error"

// Envelope is the uniform response wrapper returned by every API endpoint.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteEnvelope sends a success envelope with the given status code.
func WriteEnvelope(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Code: status, Message: message, Data: data})
}

// WriteError sends an error envelope with no data payload.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteEnvelope(w, status, message, nil)
}

// WriteValidationError sends a 400 envelope carrying field-level detail under data.fields.
func WriteValidationError(w http.ResponseWriter, message string, fields map[string]string) {
	data := interface{}(nil)
	if len(fields) > 0 {
		data = map[string]interface{}{"fields": fields}
	}
	WriteEnvelope(w, http.StatusBadRequest, message, data)
}

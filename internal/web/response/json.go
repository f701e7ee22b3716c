// Package response writes the JSON bodies returned by the HTTP API.
package response

import (
	"encoding/json"
	"net/http"
)

// RenderJSON writes v as JSON with the given status
func RenderJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// Envelope is the success body: a flag, a message and any named payload
// fields ("data", "analysis", ...).
type Envelope map[string]any

// RenderSuccess renders a 200 envelope with message and the extra fields
func RenderSuccess(w http.ResponseWriter, message string, fields Envelope) {
	body := Envelope{"success": true, "message": message}
	for k, v := range fields {
		body[k] = v
	}
	RenderJSON(w, http.StatusOK, body)
}

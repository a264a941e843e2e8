package httpx

import (
	"encoding/json"
	"net/http"

	"school/internal/dto"
)

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteData wraps data in the success envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, dto.Envelope{Data: data})
}

// WriteError writes the error envelope. field may be empty.
func WriteError(w http.ResponseWriter, status int, field, message string) {
	WriteJSON(w, status, dto.Envelope{Error: &dto.Error{Field: field, Message: message}})
}

// DecodeJSON reads a single JSON object from the request body into v,
// rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

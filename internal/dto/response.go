package dto

// Envelope wraps every API body: exactly one of Data or Error is set.
type Envelope struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

type Error struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

package dto

// ErrorResponse is the base error body. Condition-specific fields
// (starts_in_seconds, final_score, ...) are flattened next to "error" by
// the controllers.
type ErrorResponse struct {
	Error string `json:"error"`
}

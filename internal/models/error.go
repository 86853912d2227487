package models

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Error code constants
const (
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"
)

// NewAPIError creates a new API error with the given code and message.
// The optional detail is the underlying error text, kept for diagnostics.
func NewAPIError(code, message string, detail ...string) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 {
		err.Error = detail[0]
	}
	return err
}

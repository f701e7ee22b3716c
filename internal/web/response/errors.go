package response

import (
	"errors"
	"net/http"
	"strconv"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RenderError renders a standard error response
func RenderError(w http.ResponseWriter, statusCode int, err error) {
	RenderErrorWithDetails(w, statusCode, err, nil)
}

// RenderErrorWithDetails renders an error with additional details
func RenderErrorWithDetails(w http.ResponseWriter, statusCode int, err error, details map[string]any) {
	message := http.StatusText(statusCode)
	if err != nil {
		message = err.Error()
	}
	RenderJSON(w, statusCode, &ErrorResponse{
		Success: false,
		Error:   errorCodeFromStatus(statusCode),
		Message: message,
		Details: details,
	})
}

// RenderBadRequest renders a 400 Bad Request error
func RenderBadRequest(w http.ResponseWriter, message string) {
	RenderError(w, http.StatusBadRequest, errors.New(message))
}

// RenderUnauthorized renders a 401 Unauthorized error
func RenderUnauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Authentication required"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="chandas"`)
	RenderError(w, http.StatusUnauthorized, errors.New(message))
}

// RenderNotFound renders a 404 Not Found error
func RenderNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RenderError(w, http.StatusNotFound, errors.New(message))
}

// RenderInternalError renders a 500 without exposing err to the client
func RenderInternalError(w http.ResponseWriter) {
	RenderError(w, http.StatusInternalServerError, errors.New("An unexpected error occurred"))
}

// RenderTooManyRequests renders a 429 with a Retry-After hint in seconds
func RenderTooManyRequests(w http.ResponseWriter, retryAfter int64) {
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	RenderErrorWithDetails(w, http.StatusTooManyRequests, errors.New("Rate limit exceeded"),
		map[string]any{"retry_after": retryAfter})
}

// RenderBadGateway renders a 502 for a failing upstream service
func RenderBadGateway(w http.ResponseWriter, message string) {
	RenderError(w, http.StatusBadGateway, errors.New(message))
}

// RenderServiceUnavailable renders a 503 Service Unavailable error
func RenderServiceUnavailable(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RenderError(w, http.StatusServiceUnavailable, errors.New(message))
}

// errorCodeFromStatus maps HTTP status codes to error codes
func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusUnprocessableEntity:
		return "unprocessable_entity"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusInternalServerError:
		return "internal_error"
	case http.StatusBadGateway:
		return "bad_gateway"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "error"
	}
}

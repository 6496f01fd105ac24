package spotifyauth

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the accounts service with a parseable
// provider error body. It is distinct from transport failures, which are
// returned as plain wrapped errors.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the provider error code when the response used the
	// error/error_description shape, empty otherwise.
	Code string

	// Message is the provider-supplied human-readable message.
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("spotify accounts error %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("spotify accounts error %d: %s", e.StatusCode, e.Message)
}

// parseErrorResponse decodes a provider error body. The accounts service uses
// two shapes:
//
//	{"error": {"status": 401, "message": "invalid token"}}
//	{"error": "invalid_grant", "error_description": "refresh token revoked"}
//
// Both must be handled; anything else falls back to the HTTP status text.
func parseErrorResponse(statusCode int, body []byte) error {
	var objShape struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &objShape); err == nil && objShape.Error.Message != "" {
		status := objShape.Error.Status
		if status == 0 {
			status = statusCode
		}
		return &APIError{StatusCode: status, Message: objShape.Error.Message}
	}

	var flatShape struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &flatShape); err == nil && flatShape.Error != "" {
		return &APIError{
			StatusCode: statusCode,
			Code:       flatShape.Error,
			Message:    flatShape.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
	}
}

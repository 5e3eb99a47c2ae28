package client

import (
	"encoding/json"
	"fmt"
)

// Error is the error half of a Result.
// Code is set only when the server answered with a structured error body.
type Error struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return e.Message
}

// decodeAPIError extracts {code, message} from a JSON error body. Both fields
// must be present: code a non-zero number, message a non-empty string.
func decodeAPIError(body []byte) (*Error, bool) {
	var payload struct {
		Code    *float64 `json:"code"`
		Message *string  `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	if payload.Code == nil || *payload.Code == 0 || payload.Message == nil || *payload.Message == "" {
		return nil, false
	}
	return &Error{Code: int(*payload.Code), Message: *payload.Message}, true
}

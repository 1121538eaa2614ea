package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kode4food/flowdesk/pkg/api"
)

// APIError is a non-2xx response from the console API
type APIError struct {
	Status      int
	Message     string
	Type        string
	RedirectURL bool
	Data        *api.RedirectData
}

var (
	ErrHTTPError    = errors.New("console API returned HTTP error")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
)

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", ErrHTTPError, e.Status, e.Message)
}

// Is matches ErrHTTPError for every APIError, and the category sentinel
// that corresponds to the status code
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrHTTPError:
		return true
	case ErrValidation:
		return e.Status == http.StatusBadRequest ||
			e.Status == http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized ||
			e.Status == http.StatusForbidden
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests ||
			e.Type == api.ErrorTypeRateLimit
	case ErrServer:
		return e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// Redirect returns the SSO redirect target carried by the error, if any
func (e *APIError) Redirect() (string, bool) {
	if !e.RedirectURL || e.Data == nil || e.Data.RedirectURL == "" {
		return "", false
	}
	return e.Data.RedirectURL, true
}

func newAPIError(status int, body []byte) *APIError {
	var res api.ErrorResponse
	if err := json.Unmarshal(body, &res); err != nil || res.Message == "" {
		res.Message = http.StatusText(status)
	}
	return &APIError{
		Status:      status,
		Message:     res.Message,
		Type:        res.Type,
		RedirectURL: res.RedirectURL,
		Data:        res.Data,
	}
}

package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/partusch-cms/internal/common"
)

var (
	ErrUnavailable          = errors.New("server unavailable")
	ErrMalformedCredentials = errors.New("malformed credentials")
)

// APIError is a non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap maps well-known statuses to the shared sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrVersionConflict
	}
	return nil
}

// AuthExchangeError reports a failed identity token exchange. StatusCode is
// zero when no response was received.
type AuthExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token exchange: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("token exchange: %v", e.Err)
}

func (e *AuthExchangeError) Unwrap() error { return e.Err }

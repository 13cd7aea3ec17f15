package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSession    = errors.New("no session")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Fields  []common.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the sentinel callers match on.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return common.ErrorNotFound
	case e.Status == http.StatusBadRequest:
		return &common.ValidationError{Fields: e.Fields}
	case e.Status == http.StatusForbidden:
		return common.ErrorForbidden
	case e.Status == http.StatusConflict:
		return common.ErrorConflict
	case e.Status >= http.StatusInternalServerError:
		return ErrUnavailable
	}
	return nil
}

// tokenExpired reports whether the server rejected an access token only
// because it has expired.
func (e *APIError) tokenExpired() bool {
	return e.Status == http.StatusUnauthorized && e.Message == "Token expired"
}

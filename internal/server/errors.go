package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/applicant-ranker/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// errUnavailable is returned when an endpoint's backing component is not configured.
var errUnavailable = errors.New("service not configured")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *ErrValidation
	var recErr *types.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &reqErr), errors.As(err, &recErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/extract"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a stored record does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a feature whose backing service is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available", e.Feature)
}

// ErrUnsupportedMedia indicates an upload with a file type the server does not accept
type ErrUnsupportedMedia struct {
	Allowed []string
}

func (e *ErrUnsupportedMedia) Error() string {
	return fmt.Sprintf("Only %s files are supported", strings.Join(e.Allowed, ", "))
}

// ErrTooLarge indicates an upload over the size limit
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("File size exceeds maximum allowed size of %dMB", e.Limit>>20)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		request     *types.RequestError
		notFound    *ErrNotFound
		unavailable *ErrUnavailable
		media       *ErrUnsupportedMedia
		unsupported *extract.UnsupportedTypeError
		tooLarge    *ErrTooLarge
		maxBytes    *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validation), errors.As(err, &request):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &media), errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

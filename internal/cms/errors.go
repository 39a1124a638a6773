package cms

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// RemoteError is a non-2xx answer from the backend, carrying the
// status and a bounded excerpt of the response body.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, response: %s", e.Status, e.Message)
}

func IsUnauthorized(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status == fiber.StatusUnauthorized || re.Status == fiber.StatusForbidden
	}
	return false
}

func IsNotFound(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status == fiber.StatusNotFound
	}
	return false
}

func IsRateLimited(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status == fiber.StatusTooManyRequests
	}
	return false
}

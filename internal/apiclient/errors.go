package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericMessage is shown when a failure carries no usable message.
const GenericMessage = "Something went wrong. Please try again."

// APIError is returned for non-2xx responses and for 2xx responses whose
// envelope reports success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// MessageOf extracts a user-facing message from err.
// Transport failures and empty messages fall back to GenericMessage.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericMessage
}

package authflow

import "errors"

var (
	// ErrBusy is returned when a submit arrives while another network call
	// for the same flow is still in flight.
	ErrBusy = errors.New("a request is already in progress")

	// ErrInvalidTransition is returned when an action does not apply to the
	// current step, e.g. submitting a code while the modal shows the login form.
	ErrInvalidTransition = errors.New("action not allowed in the current step")

	// ErrStale is returned when a response arrives after the visitor has
	// navigated away from (or closed) the step that issued the request.
	ErrStale = errors.New("response arrived for a step that is no longer active")
)

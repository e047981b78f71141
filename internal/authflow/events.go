package authflow

import "github.com/nfrund/learnova/internal/apiclient"

// Event names emitted to observers.
const (
	EventLoggedIn       = "auth.logged_in"
	EventLoginFailed    = "auth.login_failed"
	EventSignedUp       = "auth.signed_up"
	EventSignupFailed   = "auth.signup_failed"
	EventCodeSent       = "auth.code_sent"
	EventCodeSendFailed = "auth.code_send_failed"
	EventCodeRejected   = "auth.code_rejected"
	EventVerified       = "auth.account_verified"
	EventPasswordReset  = "auth.password_reset"
)

// Event describes something that happened in a flow.
type Event struct {
	Name   string
	Email  string
	Intent Intent
	User   *apiclient.User
	Err    error
}

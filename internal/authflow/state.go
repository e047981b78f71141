package authflow

// Step names the screen the auth modal is showing.
type Step int

const (
	StepClosed Step = iota
	StepAuth
	StepVerify
	StepForgotPassword
	StepResetPassword
)

func (s Step) String() string {
	switch s {
	case StepAuth:
		return "auth"
	case StepVerify:
		return "verify"
	case StepForgotPassword:
		return "forgotPassword"
	case StepResetPassword:
		return "resetPassword"
	default:
		return "closed"
	}
}

// Mode switches the auth step between logging in and signing up.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// ParseMode maps "signup" to ModeSignup and anything else to ModeLogin.
func ParseMode(s string) Mode {
	if s == "signup" {
		return ModeSignup
	}
	return ModeLogin
}

// Method selects how a login is authorised.
type Method int

const (
	MethodPassword Method = iota
	MethodOTP
)

func (m Method) String() string {
	if m == MethodOTP {
		return "otp"
	}
	return "password"
}

// ParseMethod maps "otp" to MethodOTP and anything else to MethodPassword.
func ParseMethod(s string) Method {
	if s == "otp" {
		return MethodOTP
	}
	return MethodPassword
}

// Intent records why a one-time code is being requested or verified.
type Intent int

const (
	IntentNone Intent = iota
	IntentSignup
	IntentLogin
	IntentReset
)

func (i Intent) String() string {
	switch i {
	case IntentSignup:
		return "signup"
	case IntentLogin:
		return "login"
	case IntentReset:
		return "reset"
	default:
		return "none"
	}
}

// State is the modal's position in the flow. Fields are only reachable
// through the constructors below, so combinations such as a reset-password
// step carrying a login intent cannot be built.
type State struct {
	step   Step
	mode   Mode
	method Method
	intent Intent
}

// Closed is the state of a modal that is not shown.
func Closed() State { return State{step: StepClosed} }

// Auth is the login/signup form. Signup always uses the password method.
func Auth(mode Mode, method Method) State {
	if mode == ModeSignup {
		method = MethodPassword
	}
	return State{step: StepAuth, mode: mode, method: method}
}

// Initial is the state every freshly opened modal starts in.
func Initial() State { return Auth(ModeLogin, MethodPassword) }

// Verify is the code-entry step for a signup or login code.
func Verify(intent Intent) State {
	if intent != IntentLogin {
		intent = IntentSignup
	}
	return State{step: StepVerify, intent: intent}
}

// ForgotPassword is the email capture step of a password reset.
func ForgotPassword() State { return State{step: StepForgotPassword} }

// ResetPassword is the code plus new password step; its intent is always reset.
func ResetPassword() State { return State{step: StepResetPassword, intent: IntentReset} }

func (s State) Step() Step     { return s.step }
func (s State) Mode() Mode     { return s.mode }
func (s State) Method() Method { return s.method }
func (s State) Intent() Intent { return s.intent }
func (s State) IsClosed() bool { return s.step == StepClosed }

func (s State) String() string {
	switch s.step {
	case StepAuth:
		return "auth/" + s.mode.String() + "/" + s.method.String()
	case StepVerify, StepResetPassword:
		return s.step.String() + "/" + s.intent.String()
	default:
		return s.step.String()
	}
}

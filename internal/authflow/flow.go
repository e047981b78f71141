// Package authflow drives the login / signup / one-time code / password
// reset modal.
//
// A Flow is owned by one visitor. Transitions that only move between screens
// are synchronous; submits validate under the lock, call the remote API with
// the lock released and then apply the response. A busy flag rejects a second
// submit while one is in flight, and every navigation bumps an epoch so a
// response for a screen the visitor already left is discarded.
package authflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nfrund/learnova/internal/apiclient"
)

// DefaultDisplayDelay is how long a success message stays up before the
// modal closes or moves on.
const DefaultDisplayDelay = 1500 * time.Millisecond

// API is the subset of the remote auth API the flow needs.
// *apiclient.Session satisfies it.
type API interface {
	Login(ctx context.Context, email, password string) (*apiclient.Response, error)
	Register(ctx context.Context, name, email, password string) (*apiclient.Response, error)
	SendVerifyOTP(ctx context.Context, email string) (*apiclient.Response, error)
	VerifyAccount(ctx context.Context, email, otp string) (*apiclient.Response, error)
	SendLoginOTP(ctx context.Context, email string) (*apiclient.Response, error)
	OTPLogin(ctx context.Context, email, otp string) (*apiclient.Response, error)
	SendResetOTP(ctx context.Context, email string) (*apiclient.Response, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) (*apiclient.Response, error)
}

// TokenStore receives the session token after a successful login.
type TokenStore interface {
	SetToken(token string)
}

// NoticeKind classifies a transient notification.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
	NoticeInfo
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeError:
		return "error"
	case NoticeInfo:
		return "info"
	default:
		return "success"
	}
}

// Notice is a transient message shown after a network call.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Outcome tells the caller how to present the result of a submit.
// When Delay is non-zero the notice stays up for that long before the modal
// moves on: with Close the modal is finished, otherwise the panel for the
// new step is shown. The flow itself has already moved when Outcome is
// returned.
type Outcome struct {
	Notice *Notice
	Close  bool
	Delay  time.Duration
}

// Option configures a Flow.
type Option func(*Flow)

// WithDisplayDelay overrides DefaultDisplayDelay.
func WithDisplayDelay(d time.Duration) Option {
	return func(f *Flow) { f.delay = d }
}

// WithObserver registers a callback for flow events. It runs after the
// flow's lock is released.
func WithObserver(fn func(context.Context, Event)) Option {
	return func(f *Flow) { f.observers = append(f.observers, fn) }
}

// WithSuccessCallback registers a callback invoked once a login completes.
func WithSuccessCallback(fn func(context.Context, *apiclient.User)) Option {
	return WithObserver(func(ctx context.Context, ev Event) {
		if ev.Name == EventLoggedIn {
			fn(ctx, ev.User)
		}
	})
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

// Flow is the auth modal state machine for a single visitor.
type Flow struct {
	mu sync.Mutex

	api    API
	tokens TokenStore

	state             State
	lastAuth          State
	form              Form
	errors            FieldErrors
	needsVerification bool
	busy              bool
	epoch             uint64

	delay     time.Duration
	observers []func(context.Context, Event)
	logger    *slog.Logger
}

// New creates a closed Flow.
func New(api API, tokens TokenStore, opts ...Option) *Flow {
	f := &Flow{
		api:      api,
		tokens:   tokens,
		state:    Closed(),
		lastAuth: Initial(),
		delay:    DefaultDisplayDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot is a copy of the flow for rendering. Password fields are blanked.
type Snapshot struct {
	State             State
	Form              Form
	Errors            FieldErrors
	NeedsVerification bool
	Busy              bool
}

// Snapshot returns the current view of the flow.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	form := f.form
	form.Password = ""
	form.ConfirmPassword = ""
	form.NewPassword = ""
	return Snapshot{
		State:             f.state,
		Form:              form,
		Errors:            f.errors.clone(),
		NeedsVerification: f.needsVerification,
		Busy:              f.busy,
	}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Open starts the flow at the login form with every field empty.
func (f *Flow) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked(Initial())
}

// Close clears all transient state.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked(Closed())
}

// SetMode toggles between login and signup.
func (f *Flow) SetMode(mode Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Step() != StepAuth {
		return f.invalidLocked("switch mode")
	}
	if f.state.Mode() == ModeSignup && mode == ModeLogin {
		f.form.Name = ""
		f.form.ConfirmPassword = ""
	}
	f.needsVerification = false
	f.moveLocked(Auth(mode, f.state.Method()))
	return nil
}

// SetMethod switches a login between password and one-time code.
func (f *Flow) SetMethod(method Method) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Step() != StepAuth || f.state.Mode() != ModeLogin {
		return f.invalidLocked("switch login method")
	}
	f.moveLocked(Auth(ModeLogin, method))
	return nil
}

// GoForgotPassword shows the reset email form. The typed email is kept.
func (f *Flow) GoForgotPassword() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Step() != StepAuth {
		return f.invalidLocked("open forgot password")
	}
	f.moveLocked(ForgotPassword())
	return nil
}

// Back returns to the auth form. From verify the previous auth screen is
// restored; from the reset steps the login form is shown.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state.Step() {
	case StepVerify:
		f.moveLocked(f.lastAuth)
	case StepForgotPassword, StepResetPassword:
		f.moveLocked(Auth(ModeLogin, MethodPassword))
	default:
		return f.invalidLocked("go back")
	}
	return nil
}

// SubmitLogin performs a password login.
func (f *Flow) SubmitLogin(ctx context.Context, email, password string) (Outcome, error) {
	email = strings.TrimSpace(email)
	epoch, ok, err := f.prepare("log in", isLoginForm, func() FieldErrors {
		f.form.Email, f.form.Password = email, password
		return ValidateLogin(email, password)
	})
	if err != nil || !ok {
		return Outcome{}, err
	}

	resp, err := f.api.Login(ctx, email, password)

	var needsVerify bool
	if err == nil {
		needsVerify = resp.User != nil && !resp.User.IsVerified
	} else {
		needsVerify = IsVerificationMessage(apiclient.MessageOf(err))
	}

	var sendErr error
	if needsVerify {
		_, sendErr = f.api.SendVerifyOTP(ctx, email)
	}

	return f.complete(ctx, epoch, func() (Outcome, []Event) {
		switch {
		case needsVerify && sendErr == nil:
			f.needsVerification = true
			f.form.Password = ""
			f.moveLocked(Verify(IntentSignup))
			return info("Please verify your email. We sent a verification code to " + email + "."),
				[]Event{{Name: EventCodeSent, Email: email, Intent: IntentSignup}}
		case needsVerify:
			f.needsVerification = true
			f.errors = FieldErrors{FieldGeneral: apiclient.MessageOf(sendErr)}
			return failure(sendErr), []Event{{Name: EventCodeSendFailed, Email: email, Intent: IntentSignup, Err: sendErr}}
		case err != nil:
			f.errors = FieldErrors{FieldGeneral: apiclient.MessageOf(err)}
			return failure(err), []Event{{Name: EventLoginFailed, Email: email, Err: err}}
		default:
			return f.succeedLocked(resp, "Login successful!"),
				[]Event{{Name: EventLoggedIn, Email: email, User: resp.User}}
		}
	})
}

// SubmitSignup creates an account and requests its verification code.
func (f *Flow) SubmitSignup(ctx context.Context, name, email, password, confirm string) (Outcome, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	epoch, ok, err := f.prepare("sign up", isSignupForm, func() FieldErrors {
		f.form.Name, f.form.Email = name, email
		f.form.Password, f.form.ConfirmPassword = password, confirm
		return ValidateSignup(name, email, password, confirm)
	})
	if err != nil || !ok {
		return Outcome{}, err
	}

	_, err = f.api.Register(ctx, name, email, password)
	var sendErr error
	if err == nil {
		_, sendErr = f.api.SendVerifyOTP(ctx, email)
	}

	return f.complete(ctx, epoch, func() (Outcome, []Event) {
		if err != nil {
			f.errors = FieldErrors{FieldGeneral: apiclient.MessageOf(err)}
			return failure(err), []Event{{Name: EventSignupFailed, Email: email, Err: err}}
		}

		// The account exists from here on, so the visitor continues on the
		// code screen even if sending failed; resend covers the retry.
		f.form.Password, f.form.ConfirmPassword = "", ""
		f.moveLocked(Verify(IntentSignup))
		events := []Event{{Name: EventSignedUp, Email: email}}
		if sendErr != nil {
			f.errors = FieldErrors{FieldGeneral: "Account created, but the verification code could not be sent. Use resend to try again."}
			return failure(sendErr), append(events, Event{Name: EventCodeSendFailed, Email: email, Intent: IntentSignup, Err: sendErr})
		}
		return success("Account created! We sent a verification code to " + email + "."),
			append(events, Event{Name: EventCodeSent, Email: email, Intent: IntentSignup})
	})
}

// RequestLoginOTP sends a login code and moves to the code screen.
func (f *Flow) RequestLoginOTP(ctx context.Context, email string) (Outcome, error) {
	email = strings.TrimSpace(email)
	epoch, ok, err := f.prepare("request a login code", isLoginForm, func() FieldErrors {
		f.form.Email = email
		return ValidateEmail(email)
	})
	if err != nil || !ok {
		return Outcome{}, err
	}

	_, err = f.api.SendLoginOTP(ctx, email)

	return f.complete(ctx, epoch, func() (Outcome, []Event) {
		if err != nil {
			f.errors = FieldErrors{FieldGeneral: apiclient.MessageOf(err)}
			return failure(err), []Event{{Name: EventCodeSendFailed, Email: email, Intent: IntentLogin, Err: err}}
		}
		f.moveLocked(Verify(IntentLogin))
		return success("We sent a login code to " + email + "."),
			[]Event{{Name: EventCodeSent, Email: email, Intent: IntentLogin}}
	})
}

// RequestPasswordReset sends a reset code and moves to the reset screen.
func (f *Flow) RequestPasswordReset(ctx context.Context, email string) (Outcome, error) {
	email = strings.TrimSpace(email)
	epoch, ok, err := f.prepare("request a reset code", stepIs(StepForgotPassword), func() FieldErrors {
		f.form.Email = email
		return ValidateEmail(email)
	})
	if err != nil || !ok {
		return Outcome{}, err
	}

	_, err = f.api.SendResetOTP(ctx, email)

	return f.complete(ctx, epoch, func() (Outcome, []Event) {
		if err != nil {
			f.errors = FieldErrors{FieldGeneral: apiclient.MessageOf(err)}
			return failure(err), []Event{{Name: EventCodeSendFailed, Email: email, Intent: IntentReset, Err: err}}
		}
		f.moveLocked(ResetPassword())
		return success("We sent a reset code to " + email + "."),
			[]Event{{Name: EventCodeSent, Email: email, Intent: IntentReset}}
	})
}

// SubmitOTP verifies the code on the verify screen. The endpoint is chosen
// by the state's intent.
func (f *Flow) SubmitOTP(ctx context.Context, code OTP) (Outcome, error) {
	var intent Intent
	var email string
	epoch, ok, err := f.prepare("verify a code", stepIs(StepVerify), func() FieldErrors {
		f.form.OTP = code
		intent, email = f.state.Intent(), f.form.Email
		return ValidateOTP(code)
	})
	if err != nil || !ok {
		return Outcome{}, err
	}
	return f.verifyCode(ctx, epoch, intent, email, code.Code(), "")
}

// SubmitReset verifies the reset code and sets the new password.
func (f *Flow) SubmitReset(ctx context.Context, code OTP, newPassword string) (Outcome, error) {
	var email string
	epoch, ok, err := f.prepare("reset the password", stepIs(StepResetPassword), func() FieldErrors {
		f.form.OTP, f.form.NewPassword = code, newPassword
		email = f.form.Email
		return ValidateReset(code, newPassword)
	})
	if err != nil || !ok {
		return Outcome{}, err
	}
	return f.verifyCode(ctx, epoch, IntentReset, email, code.Code(), newPassword)
}

func (f *Flow) verifyCode(ctx context.Context, epoch uint64, intent Intent, email, code, newPassword string) (Outcome, error) {
	var resp *apiclient.Response
	var err error
	switch intent {
	case IntentLogin:
		resp, err = f.api.OTPLogin(ctx, email, code)
	case IntentReset:
		resp, err = f.api.ResetPassword(ctx, email, code, newPassword)
	default:
		resp, err = f.api.VerifyAccount(ctx, email, code)
	}

	return f.complete(ctx, epoch, func() (Outcome, []Event) {
		if err != nil {
			f.errors = FieldErrors{FieldOTP: apiclient.MessageOf(err)}
			return failure(err), []Event{{Name: EventCodeRejected, Email: email, Intent: intent, Err: err}}
		}

		switch intent {
		case IntentLogin:
			return f.succeedLocked(resp, "Login successful!"),
				[]Event{{Name: EventLoggedIn, Email: email, Intent: intent, User: resp.User}}
		case IntentReset:
			f.resetLocked(Initial())
			out := success("Password reset successful. Please log in with your new password.")
			out.Delay = f.delay
			return out, []Event{{Name: EventPasswordReset, Email: email, Intent: intent}}
		default:
			f.resetLocked(Initial())
			f.form.Email = email
			out := success("Email verified! You can now log in.")
			out.Delay = f.delay
			return out, []Event{{Name: EventVerified, Email: email, Intent: intent}}
		}
	})
}

// Resend requests a fresh code for the current intent and empties the code
// buffer.
func (f *Flow) Resend(ctx context.Context) (Outcome, error) {
	var intent Intent
	var email string
	epoch, ok, err := f.prepare("resend a code", stepIs(StepVerify, StepResetPassword), func() FieldErrors {
		f.form.OTP = OTP{}
		intent, email = f.state.Intent(), f.form.Email
		return nil
	})
	if err != nil || !ok {
		return Outcome{}, err
	}

	switch intent {
	case IntentLogin:
		_, err = f.api.SendLoginOTP(ctx, email)
	case IntentReset:
		_, err = f.api.SendResetOTP(ctx, email)
	default:
		_, err = f.api.SendVerifyOTP(ctx, email)
	}

	return f.complete(ctx, epoch, func() (Outcome, []Event) {
		if err != nil {
			f.errors = FieldErrors{FieldGeneral: apiclient.MessageOf(err)}
			return failure(err), []Event{{Name: EventCodeSendFailed, Email: email, Intent: intent, Err: err}}
		}
		return success("A new code has been sent to " + email + "."),
			[]Event{{Name: EventCodeSent, Email: email, Intent: intent}}
	})
}

// prepare checks the guard and busy flag, lets record copy input into the
// form and validate it, then marks the flow busy. ok is false when
// validation failed; the field errors are already stored.
func (f *Flow) prepare(action string, guard func(State) bool, record func() FieldErrors) (epoch uint64, ok bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !guard(f.state) {
		return 0, false, f.invalidLocked(action)
	}
	if f.busy {
		return 0, false, ErrBusy
	}
	if errs := record(); len(errs) > 0 {
		f.errors = errs
		return 0, false, nil
	}
	f.errors = nil
	f.busy = true
	return f.epoch, true, nil
}

// complete applies a response if the flow is still on the epoch that issued
// the request, then notifies observers outside the lock.
func (f *Flow) complete(ctx context.Context, epoch uint64, apply func() (Outcome, []Event)) (Outcome, error) {
	f.mu.Lock()
	if epoch != f.epoch {
		f.mu.Unlock()
		f.logger.Debug("Discarding stale auth response", "epoch", epoch)
		return Outcome{}, ErrStale
	}
	f.busy = false
	out, events := apply()
	f.mu.Unlock()

	for _, ev := range events {
		for _, observe := range f.observers {
			observe(ctx, ev)
		}
	}
	return out, nil
}

// succeedLocked stores the token and closes the flow.
func (f *Flow) succeedLocked(resp *apiclient.Response, text string) Outcome {
	if resp.Token != "" && f.tokens != nil {
		f.tokens.SetToken(resp.Token)
	}
	f.resetLocked(Closed())
	out := success(text)
	out.Close = true
	out.Delay = f.delay
	return out
}

// moveLocked changes screen, clearing errors and the code buffer and
// invalidating any in-flight response.
func (f *Flow) moveLocked(s State) {
	f.state = s
	if s.Step() == StepAuth {
		f.lastAuth = s
	}
	f.errors = nil
	f.form.OTP = OTP{}
	f.busy = false
	f.epoch++
}

// resetLocked moves to s with every transient field cleared.
func (f *Flow) resetLocked(s State) {
	f.form = Form{}
	f.needsVerification = false
	f.lastAuth = Initial()
	f.moveLocked(s)
}

func (f *Flow) invalidLocked(action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, f.state)
}

func isLoginForm(s State) bool {
	return s.Step() == StepAuth && s.Mode() == ModeLogin
}

func isSignupForm(s State) bool {
	return s.Step() == StepAuth && s.Mode() == ModeSignup
}

func stepIs(steps ...Step) func(State) bool {
	return func(s State) bool {
		for _, step := range steps {
			if s.Step() == step {
				return true
			}
		}
		return false
	}
}

var verificationKeywords = []string{"verify", "verified", "verification", "not activated"}

// IsVerificationMessage reports whether an API message is about an
// unverified account.
func IsVerificationMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, kw := range verificationKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func success(text string) Outcome {
	return Outcome{Notice: &Notice{Kind: NoticeSuccess, Text: text}}
}

func info(text string) Outcome {
	return Outcome{Notice: &Notice{Kind: NoticeInfo, Text: text}}
}

func failure(err error) Outcome {
	return Outcome{Notice: &Notice{Kind: NoticeError, Text: apiclient.MessageOf(err)}}
}

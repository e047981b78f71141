package components

import (
	"fmt"

	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/view/dto"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// AuthModal is the overlay with the slide carousel and the auth forms. It is
// swapped into #auth-modal-root; removing it also removes the carousel's
// polling element, which stops the slideshow.
func AuthModal(m dto.Modal) g.Node {
	return Div(
		ID("auth-modal"),
		Class("modal-backdrop"),
		g.Attr("role", "dialog"),
		Aria("modal", "true"),
		Div(Class("modal"),
			Button(
				Type("button"),
				Class("modal__close"),
				Aria("label", "Close"),
				hx.Post("/auth/modal/close"),
				hx.Target("#auth-modal-root"),
				hx.Swap("innerHTML"),
				Icon("x", "icon"),
			),
			Div(Class("modal__carousel"), CarouselTrack(m.Carousel)),
			AuthPanel(m.Panel),
		),
	)
}

// CarouselTrack is the strip of slides. It polls for the next slide and
// replaces itself with the answer.
func CarouselTrack(c dto.Carousel) g.Node {
	slides := make([]g.Node, 0, len(c.Slides))
	for _, s := range c.Slides {
		slides = append(slides, Img(Src(s.Image), Alt(s.Alt), Class("carousel__slide")))
	}

	return Div(
		ID("carousel-track"),
		Class("carousel__track"),
		Style(fmt.Sprintf("transform: translateX(-%d%%)", c.Index*100)),
		hx.Get("/auth/modal/slide"),
		hx.Trigger(fmt.Sprintf("every %dms", c.Interval.Milliseconds())),
		hx.Swap("outerHTML"),
		g.Group(slides),
	)
}

// AuthPanel is the form side of the modal. Every auth request targets it.
func AuthPanel(p dto.Panel) g.Node {
	if p.Delay > 0 && !p.Close {
		return transitionPanel(p)
	}
	s := p.Snapshot
	return Div(
		ID("auth-panel"),
		Class("modal__panel"),
		Div(Class("modal__form"),
			H2(Class("modal__heading"), g.Text(panelHeading(p))),
			Notice(p.Notice, p.Delay),
			generalError(s.Errors),
			panelBody(p),
		),
		g.If(p.Close, closeAfter(p.Delay.Milliseconds())),
	)
}

func panelHeading(p dto.Panel) string {
	st := p.Snapshot.State
	switch st.Step() {
	case authflow.StepVerify:
		if st.Intent() == authflow.IntentLogin {
			return "Enter your login code"
		}
		return "Verify your email"
	case authflow.StepForgotPassword:
		return "Forgot password"
	case authflow.StepResetPassword:
		return "Reset password"
	case authflow.StepAuth:
		if st.Mode() == authflow.ModeSignup {
			return "Create your account"
		}
	}
	return p.Heading
}

func panelBody(p dto.Panel) g.Node {
	s := p.Snapshot
	switch s.State.Step() {
	case authflow.StepAuth:
		if s.State.Mode() == authflow.ModeSignup {
			return signupForm(s)
		}
		if s.State.Method() == authflow.MethodOTP {
			return loginCodeForm(s, p.GoogleURL)
		}
		return loginPasswordForm(s, p.GoogleURL)
	case authflow.StepVerify:
		return verifyForm(s)
	case authflow.StepForgotPassword:
		return forgotForm(s)
	case authflow.StepResetPassword:
		return resetForm(s)
	}
	return g.Group(nil)
}

func loginPasswordForm(s authflow.Snapshot, googleURL string) g.Node {
	return g.Group{
		panelForm("/auth/login",
			textField("email", "email", "Email", s.Form.Email, s.Errors.Get(authflow.FieldEmail), AutoComplete("email")),
			textField("password", "password", "Password", "", s.Errors.Get(authflow.FieldPassword), AutoComplete("current-password")),
			g.If(s.NeedsVerification, P(Class("hint"), g.Text("Your account still needs verifying. Check your inbox for the code."))),
			submitButton("Login"),
		),
		P(Class("modal__links modal__links--right"),
			actionLink(hx.Get("/auth/forgot"), "Forgot password?"),
		),
		P(Class("modal__links"),
			actionLink(g.Group{hx.Post("/auth/method"), hx.Vals(`{"method":"otp"}`)}, "Log in with a one-time code instead"),
		),
		googleButton(googleURL),
		P(Class("modal__links"),
			g.Text("Don't have an account? "),
			actionLink(g.Group{hx.Post("/auth/mode"), hx.Vals(`{"mode":"signup"}`)}, "Sign up"),
		),
	}
}

func loginCodeForm(s authflow.Snapshot, googleURL string) g.Node {
	return g.Group{
		panelForm("/auth/otp/request",
			textField("email", "email", "Email", s.Form.Email, s.Errors.Get(authflow.FieldEmail), AutoComplete("email")),
			submitButton("Send code"),
		),
		P(Class("modal__links"),
			actionLink(g.Group{hx.Post("/auth/method"), hx.Vals(`{"method":"password"}`)}, "Use a password instead"),
		),
		googleButton(googleURL),
		P(Class("modal__links"),
			g.Text("Don't have an account? "),
			actionLink(g.Group{hx.Post("/auth/mode"), hx.Vals(`{"mode":"signup"}`)}, "Sign up"),
		),
	}
}

func signupForm(s authflow.Snapshot) g.Node {
	return g.Group{
		panelForm("/auth/signup",
			textField("name", "text", "Name", s.Form.Name, s.Errors.Get(authflow.FieldName), AutoComplete("name")),
			textField("email", "email", "Email", s.Form.Email, s.Errors.Get(authflow.FieldEmail), AutoComplete("email")),
			textField("password", "password", "Password", "", s.Errors.Get(authflow.FieldPassword), AutoComplete("new-password")),
			textField("confirmPassword", "password", "Confirm password", "", s.Errors.Get(authflow.FieldConfirmPassword), AutoComplete("new-password")),
			P(Class("hint"), g.Text("At least 8 characters with an uppercase letter, a lowercase letter, a number and a symbol.")),
			submitButton("Next"),
		),
		P(Class("modal__links"),
			g.Text("Already have an account? "),
			actionLink(g.Group{hx.Post("/auth/mode"), hx.Vals(`{"mode":"login"}`)}, "Log in"),
		),
	}
}

func verifyForm(s authflow.Snapshot) g.Node {
	return g.Group{
		P(Class("hint"), g.Textf("Enter the 6-digit code sent to %s.", s.Form.Email)),
		panelForm("/auth/otp/verify",
			otpCells(s.Form.OTP, s.Errors.Get(authflow.FieldOTP)),
			submitButton("Verify"),
		),
		codeLinks(),
	}
}

func forgotForm(s authflow.Snapshot) g.Node {
	return g.Group{
		P(Class("hint"), g.Text("Enter your email and we'll send you a code to reset your password.")),
		panelForm("/auth/forgot",
			textField("email", "email", "Email", s.Form.Email, s.Errors.Get(authflow.FieldEmail), AutoComplete("email")),
			submitButton("Send reset code"),
		),
		P(Class("modal__links"), actionLink(hx.Post("/auth/back"), "Back to login")),
	}
}

func resetForm(s authflow.Snapshot) g.Node {
	return g.Group{
		P(Class("hint"), g.Textf("Enter the code sent to %s and choose a new password.", s.Form.Email)),
		panelForm("/auth/reset",
			otpCells(s.Form.OTP, s.Errors.Get(authflow.FieldOTP)),
			textField("newPassword", "password", "New password", "", s.Errors.Get(authflow.FieldNewPassword), AutoComplete("new-password")),
			submitButton("Reset password"),
		),
		codeLinks(),
	}
}

func codeLinks() g.Node {
	return P(Class("modal__links modal__links--split"),
		actionLink(hx.Post("/auth/otp/resend"), "Resend code"),
		actionLink(hx.Post("/auth/back"), "Back"),
	)
}

// panelForm posts to action and swaps the panel with the response.
func panelForm(action string, children ...g.Node) g.Node {
	return Form(
		Class("auth-form"),
		Method("post"),
		Action(action),
		hx.Post(action),
		hx.Target("#auth-panel"),
		hx.Swap("outerHTML"),
		g.Attr("hx-disabled-elt", "find button[type='submit']"),
		g.Group(children),
	)
}

func textField(name, typ, placeholder, value, errMsg string, extra ...g.Node) g.Node {
	class := "field__input"
	if errMsg != "" {
		class += " field__input--invalid"
	}
	return Div(Class("field"),
		Input(
			Type(typ),
			Name(name),
			ID("auth-"+name),
			Placeholder(placeholder),
			Aria("label", placeholder),
			g.If(value != "", Value(value)),
			g.If(errMsg != "", Aria("invalid", "true")),
			Class(class),
			g.Group(extra),
		),
		fieldError(errMsg),
	)
}

func otpCells(otp authflow.OTP, errMsg string) g.Node {
	cells := make([]g.Node, 0, authflow.OTPLength)
	for i, v := range otp {
		cells = append(cells, Input(
			Type("text"),
			Name("otp"),
			Value(v),
			MaxLength("1"),
			g.Attr("inputmode", "numeric"),
			g.Attr("pattern", "[0-9]*"),
			AutoComplete("one-time-code"),
			Aria("label", fmt.Sprintf("Digit %d", i+1)),
			Class("otp__cell"),
		))
	}
	return Div(Class("field"),
		Div(Class("otp"), g.Group(cells)),
		fieldError(errMsg),
	)
}

func fieldError(msg string) g.Node {
	if msg == "" {
		return g.Group(nil)
	}
	return P(Class("field-error"), g.Text(msg))
}

func generalError(errs authflow.FieldErrors) g.Node {
	return fieldError(errs.Get(authflow.FieldGeneral))
}

func submitButton(label string) g.Node {
	return Button(Type("submit"), Class("btn btn--primary btn--block"), g.Text(label))
}

// actionLink is a text button whose request swaps the panel.
func actionLink(request g.Node, label string) g.Node {
	return Button(
		Type("button"),
		Class("link-button"),
		request,
		hx.Target("#auth-panel"),
		hx.Swap("outerHTML"),
		g.Text(label),
	)
}

func googleButton(url string) g.Node {
	if url == "" {
		return g.Group(nil)
	}
	return A(Href(url), Class("btn btn--google btn--block"), g.Text("Continue with Google"))
}

// closeAfter asks the server to close the modal once the success notice has
// been shown.
// transitionPanel holds the success notice in place of a form and fetches
// the next step's panel once the display delay has passed.
func transitionPanel(p dto.Panel) g.Node {
	return Div(
		ID("auth-panel"),
		Class("modal__panel"),
		Div(Class("modal__form"),
			H2(Class("modal__heading"), g.Text(p.Heading)),
			Notice(p.Notice, p.Delay),
		),
		Div(
			Class("modal__advance"),
			hx.Get("/auth/panel"),
			hx.Trigger(fmt.Sprintf("load delay:%dms", p.Delay.Milliseconds())),
			hx.Target("#auth-panel"),
			hx.Swap("outerHTML"),
		),
	)
}

func closeAfter(delayMs int64) g.Node {
	return Div(
		Class("modal__closer"),
		hx.Post("/auth/modal/close"),
		hx.Trigger(fmt.Sprintf("load delay:%dms", delayMs)),
		hx.Target("#auth-modal-root"),
		hx.Swap("innerHTML"),
	)
}

package authflow

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PasswordSymbols is the set of characters that satisfy the symbol requirement.
const PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

const passwordRuleMessage = "Password must be at least 8 characters and include an uppercase letter, a lowercase letter, a number and a symbol."

// validate is shared so struct metadata is cached once.
var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return CheckPassword(fl.Field().String())
	})
	validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("field")
	})
}

// CheckPassword applies the composite password rule. Letter and digit
// classes are ASCII only, like the symbol set.
func CheckPassword(pw string) bool {
	if len([]rune(pw)) < PasswordMinLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

type loginInput struct {
	Email    string `field:"email" validate:"required"`
	Password string `field:"password" validate:"required"`
}

type signupInput struct {
	Name            string `field:"name" validate:"required"`
	Email           string `field:"email" validate:"required,email"`
	Password        string `field:"password" validate:"required,password"`
	ConfirmPassword string `field:"confirmPassword" validate:"required,eqfield=Password"`
}

type emailInput struct {
	Email string `field:"email" validate:"required,email"`
}

type resetInput struct {
	NewPassword string `field:"newPassword" validate:"required,password"`
}

var messages = map[Field]map[string]string{
	FieldEmail: {
		"required": "Email is required.",
		"email":    "Enter a valid email address.",
	},
	FieldPassword: {
		"required": "Password is required.",
		"password": passwordRuleMessage,
	},
	FieldConfirmPassword: {
		"required": "Please confirm your password.",
		"eqfield":  "Passwords do not match.",
	},
	FieldName: {
		"required": "Name is required.",
	},
	FieldNewPassword: {
		"required": "New password is required.",
		"password": passwordRuleMessage,
	},
}

// check validates v and converts failures to FieldErrors. The first failing
// rule per field wins.
func check(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{FieldGeneral: "Invalid input."}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		f := Field(fe.Field())
		if _, seen := out[f]; seen {
			continue
		}
		msg := messages[f][fe.Tag()]
		if msg == "" {
			msg = "Invalid value."
		}
		out[f] = msg
	}
	return out
}

// ValidateLogin only requires both fields to be present.
func ValidateLogin(email, password string) FieldErrors {
	return check(loginInput{Email: strings.TrimSpace(email), Password: password})
}

// ValidateSignup applies the full signup rules.
func ValidateSignup(name, email, password, confirm string) FieldErrors {
	return check(signupInput{
		Name:            strings.TrimSpace(name),
		Email:           strings.TrimSpace(email),
		Password:        password,
		ConfirmPassword: confirm,
	})
}

// ValidateEmail checks a single email address.
func ValidateEmail(email string) FieldErrors {
	return check(emailInput{Email: strings.TrimSpace(email)})
}

// ValidateOTP requires all cells to be filled.
func ValidateOTP(o OTP) FieldErrors {
	if !o.Complete() {
		return FieldErrors{FieldOTP: "Please enter the complete 6-digit code."}
	}
	return nil
}

// ValidateReset checks the code buffer and the new password.
func ValidateReset(o OTP, newPassword string) FieldErrors {
	errs := check(resetInput{NewPassword: newPassword})
	if otpErrs := ValidateOTP(o); otpErrs != nil {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[FieldOTP] = otpErrs[FieldOTP]
	}
	return errs
}

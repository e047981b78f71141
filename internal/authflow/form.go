package authflow

import "strings"

// OTPLength is the number of cells in the one-time code buffer.
const OTPLength = 6

// OTP is the one-time code buffer, one cell per digit.
type OTP [OTPLength]string

// ParseOTP spreads a pasted code over the cells. Whitespace is ignored and
// anything past the sixth character is dropped.
func ParseOTP(code string) OTP {
	var o OTP
	i := 0
	for _, r := range code {
		if i == OTPLength {
			break
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		o[i] = string(r)
		i++
	}
	return o
}

// Complete reports whether every cell holds a value.
func (o OTP) Complete() bool {
	for _, c := range o {
		if strings.TrimSpace(c) == "" {
			return false
		}
	}
	return true
}

// Code concatenates the cells.
func (o OTP) Code() string {
	var b strings.Builder
	for _, c := range o {
		b.WriteString(strings.TrimSpace(c))
	}
	return b.String()
}

// Form is the transient input held while the modal is open.
type Form struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	OTP             OTP
	NewPassword     string
}

// Field identifies an input for error reporting.
type Field string

const (
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldName            Field = "name"
	FieldOTP             Field = "otp"
	FieldNewPassword     Field = "newPassword"
	FieldGeneral         Field = "general"
)

// FieldErrors maps a field to a human readable message.
type FieldErrors map[Field]string

// Get returns the message for f, or "".
func (e FieldErrors) Get(f Field) string {
	if e == nil {
		return ""
	}
	return e[f]
}

// Has reports whether f carries an error.
func (e FieldErrors) Has(f Field) bool {
	return e.Get(f) != ""
}

func (e FieldErrors) clone() FieldErrors {
	if len(e) == 0 {
		return FieldErrors{}
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

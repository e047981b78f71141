package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps go-playground/validator to implement echo.Validator.
// Fields are reported by their form names.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements the echo.Validator interface. Failed rules come back
// as a 400 naming the form fields.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validator.Struct(i)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, len(verrs))
	for n, fe := range verrs {
		fields[n] = fe.Field()
	}
	return echo.NewHTTPError(http.StatusBadRequest, "invalid "+strings.Join(fields, ", ")).SetInternal(err)
}

// SubscribeRequest is the footer newsletter form.
type SubscribeRequest struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

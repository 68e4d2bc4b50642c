package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseBody decodes the JSON request body into dst and runs its validate
// tags. Both failures map to 400.
func ParseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return Validate(dst)
}

// Validate runs the validate tags of v and returns a 400 describing the
// first failing field.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	field := verrs[0]
	switch field.Tag() {
	case "required":
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is required", field.Field()))
	case "oneof":
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s must be one of: %s", field.Field(), strings.ReplaceAll(field.Param(), "'", "")))
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is invalid", field.Field()))
	}
}

// CheckEmail returns a 400 unless email is empty or a well-formed address.
// It serves optional fields that tags cannot express, such as a *string
// where presence matters.
func CheckEmail(email string) error {
	if email == "" {
		return nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "email is invalid")
	}
	return nil
}

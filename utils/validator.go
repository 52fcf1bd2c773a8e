package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func init() {
	// Report json names ("amount_cents") instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("emailformat", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return NewValidationError("%s", err.Error())
	}

	// Format validation errors
	var messages []string
	for _, err := range validationErrors {
		field := err.Field()
		if field == "" {
			field = strings.ToLower(err.StructField())
		}
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, field+" must be at least "+param)
		case "max":
			messages = append(messages, field+" must be at most "+param)
		case "gte":
			messages = append(messages, field+" must be greater than or equal to "+param)
		case "gt":
			messages = append(messages, field+" must be greater than "+param)
		case "email", "emailformat":
			messages = append(messages, field+" must be a valid email")
		case "oneof":
			messages = append(messages, field+" must be one of "+param)
		default:
			messages = append(messages, field+" is invalid")
		}
	}

	return NewValidationError("%s", strings.Join(messages, ", "))
}

// ParseBody decodes the JSON request body into dst, rejecting unknown fields,
// then runs struct validation.
func ParseBody(c *fiber.Ctx, dst interface{}) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return NewValidationError("request body is required")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return NewValidationError("invalid request body: %s", describeDecodeError(err))
	}
	if _, err := decoder.Token(); err != io.EOF {
		return NewValidationError("invalid request body: trailing data")
	}

	return ValidateStruct(dst)
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s must be %s", typeErr.Field, typeErr.Type.String())
	}
	return err.Error()
}

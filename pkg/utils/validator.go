package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	appErrors "trusthire/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{5,18}[0-9]$`)
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Tag names surface as json field names in messages.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	must(validate.RegisterValidation("user_role", validateUserRole))
	must(validate.RegisterValidation("phone", validatePhone))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidateStruct runs the validate tags on s and returns an AppError naming
// the first offending field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return appErrors.NewValidationError(describe(fieldErrs[0]), err)
	}

	return appErrors.NewValidationError("Invalid input", err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "user_role":
		return fmt.Sprintf("%s must be one of [worker employer]", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validateUserRole accepts only the roles open to public registration.
func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "worker", "employer":
		return true
	}
	return false
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(strings.ToLower(email)))
}

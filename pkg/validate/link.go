package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates request DTOs by their `validate` tags.
func Struct(s any) error {
	return v.Struct(s)
}

// IsLink reports whether s is an absolute http or https URL.
func IsLink(s string) bool {
	return v.Var(s, "required,http_url,max=2048") == nil
}

// Describe turns validator errors into a short message naming the first failing field.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s must satisfy %s", field, fe.Tag())
}

package client

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"report2resolve-be/workflow"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check rejects v locally so invalid input never reaches the network.
func check(op string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return workflow.Wrap(workflow.KindValidation, op, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fieldMessage(f))
	}
	return workflow.E(workflow.KindValidation, op, strings.Join(msgs, "; "))
}

func fieldMessage(f validator.FieldError) string {
	name := strings.ToLower(f.Field())
	switch f.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, f.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, f.Param())
	case "url":
		return name + " must be a URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, f.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", name, f.Tag())
}

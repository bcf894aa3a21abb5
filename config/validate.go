package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("invalid configuration")

// FieldError is a configuration value breaking a rule.
type FieldError struct {
	// Tag is the configuration key, dotted for nested keys.
	Tag  string
	Rule string
}

func (e *FieldError) Error() string { return e.Tag + " " + e.Rule }

func (e *FieldError) Unwrap() error { return ErrInvalid }

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks c, returning the FieldErrors joined.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	errs := make([]error, len(ves))
	for i, fe := range ves {
		errs[i] = &FieldError{Tag: key(fe), Rule: rule(fe)}
	}
	return errors.Join(errs...)
}

// key drops the struct name from the namespace of fe.
func key(fe validator.FieldError) string {
	_, k, _ := strings.Cut(fe.Namespace(), ".")
	return k
}

func rule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		f, v, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("is required when %s is %s", jsonName(fe, f), v)
	case "file":
		return fmt.Sprintf("must name an existing file (%q)", fe.Value())
	case "gte":
		return "must be >= " + fe.Param()
	case "gtefield":
		return "must be >= " + jsonName(fe, fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return fmt.Sprintf("fails %s=%s", fe.Tag(), fe.Param())
}

// jsonName is the configuration key of field name of the struct holding
// the field of fe.
func jsonName(fe validator.FieldError, name string) string {
	t := reflect.TypeOf(Config{})
	ns := strings.Split(fe.StructNamespace(), ".")
	for _, n := range ns[1 : len(ns)-1] {
		f, ok := t.FieldByName(n)
		if !ok {
			return name
		}
		t = f.Type
	}
	f, ok := t.FieldByName(name)
	if !ok {
		return name
	}
	n, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return n
}

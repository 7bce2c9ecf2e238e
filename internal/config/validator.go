package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their config key rather than the Go field name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// FieldError is a single invalid config value.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every invalid value found in a config.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid configuration: " + strings.Join(messages, "; ")
}

// Validator validates configuration values
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{v: getValidator()}
}

// ValidateStruct validates a tagged struct and returns *ValidationError on failure.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   trimNamespace(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// ValidateLogLevel validates a log level name
func (v *Validator) ValidateLogLevel(level string) error {
	return v.field(level, "oneof=debug info warn error", "log level")
}

// ValidateMinRating validates the recommender rating threshold
func (v *Validator) ValidateMinRating(rating int) error {
	return v.field(rating, "min=1,max=5", "min rating")
}

func (v *Validator) field(value interface{}, tag, name string) error {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("invalid %s %v: %s", name, value, describe(fieldErrs[0]))
	}
	return err
}

// trimNamespace drops the top-level struct name: "Config.logging.level" -> "logging.level".
func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

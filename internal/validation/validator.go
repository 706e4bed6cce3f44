// Package validation wraps go-playground/validator with the request rules of
// the HTTP API and human-readable error formatting.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/moneybook/internal/domain"
)

// Validator wraps the go-playground validator with custom rules.
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// Default returns the shared validator instance.
func Default() *Validator {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a validator with the custom rules registered and field names
// reported by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("calendar_date", validateCalendarDate)
	_ = v.RegisterValidation("positive_decimal", validatePositiveDecimal)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates s.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// FieldErrors flattens a validation error into field -> message. It returns
// nil when err is not a validator error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe)] = formatFieldError(fe)
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := domain.ParseDate(fl.Field().String())
	return err == nil
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return domain.TransactionType(fl.Field().String()).Valid()
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hexcolor":
		return "must be a hex color such as #4CAF50"
	case "calendar_date":
		return "must be a date in YYYY-MM-DD format"
	case "positive_decimal":
		return "must be a number greater than 0"
	case "transaction_type":
		return "must be income or expense"
	case "unique":
		return "must not contain duplicates"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}

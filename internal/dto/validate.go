package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names in errors use the JSON
// name and decimal.Decimal values compare as numbers, so gt=0 and gte=0 apply to them.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		validate = v
	})
	return validate
}

// ValidateStruct runs tag validation over s and converts every failure into a
// violation of a single apperrors.ValidationError. extra violations found by
// hand-written checks are merged into the same error.
func ValidateStruct(s any, extra ...apperrors.Violation) error {
	violations := append([]apperrors.Violation{}, extra...)

	if err := Validator().Struct(s); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return apperrors.NewValidationError(nil, apperrors.Violation{Field: "body", Message: err.Error()})
		}
		for _, fe := range vErrs {
			violations = append(violations, apperrors.Violation{
				Field:   fieldPath(fe.Namespace()),
				Message: violationMessage(fe),
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return apperrors.NewValidationError(nil, violations...)
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}

// ParseDate parses a YYYY-MM-DD value into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func money(d decimal.Decimal) string {
	return utils.FormatMoney(d)
}

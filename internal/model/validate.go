package model

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so errors match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return !f.IsZero()
		}
		return strings.TrimSpace(f.String()) != ""
	})
	return v
}

// MissingFieldsError lists request fields that are absent or blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing " + strings.Join(e.Fields, "/")
}

// InvalidFieldError reports a field that is present but unacceptable.
type InvalidFieldError struct {
	Field string
	Value any
	Rule  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %v (%s)", e.Field, e.Value, e.Rule)
}

// Validate checks that all required generate fields are present.
func (r GenerateRequest) Validate() error {
	missing := missingFields(r)
	if !present(r.Count) {
		missing = append(missing, "count")
	}
	return missingErr(missing)
}

// Validate checks that all required evaluate fields are present.
func (r EvaluateRequest) Validate() error {
	return missingErr(missingFields(r))
}

// Validate checks that the profile text is present.
func (r AnalyzeRequest) Validate() error {
	return missingErr(missingFields(r))
}

// Validate checks a profile produced by the LLM.
func (p Profile) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	if fe.Tag() == "notblank" {
		return &MissingFieldsError{Fields: []string{fe.Field()}}
	}
	return &InvalidFieldError{Field: fe.Field(), Value: fe.Value(), Rule: fe.Tag() + " " + fe.Param()}
}

func missingFields(s any) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func missingErr(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return &MissingFieldsError{Fields: fields}
}

// present reports whether a loosely typed JSON value counts as supplied:
// null, false, zero, NaN and blank strings do not.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case string:
		return strings.TrimSpace(x) != ""
	default:
		return true
	}
}

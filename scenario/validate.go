package scenario

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// tag used by the date range struct-level rule
const tagDateOrder = "dateorder"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// schemaValidator returns the shared validator instance.
// validator.Validate caches struct metadata and is safe for concurrent use.
func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(documentFieldName)
		_ = v.RegisterValidation("agegroup", func(fl validator.FieldLevel) bool {
			return AgeGroup(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("schemaver", func(fl validator.FieldLevel) bool {
			return supportedSchemaVersion(fl.Field().String())
		})
		v.RegisterStructValidation(validateDateRange, DateRange{})
		validate = v
	})

	return validate
}

// documentFieldName names fields after their document keys so that
// error paths match what the user wrote.
func documentFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

func supportedSchemaVersion(v string) bool {
	parts := strings.Split(v, ".")
	if len(parts) != 3 || parts[0] != "2" {
		return false
	}
	for _, p := range parts {
		if p == "" || strings.TrimFunc(p, unicode.IsDigit) != "" {
			return false
		}
	}

	return true
}

func validateDateRange(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(DateRange)
	if !ok {
		return
	}
	if r.Begin.IsZero() {
		sl.ReportError(r.Begin, "begin", "Begin", "required", "")
	}
	if r.End.IsZero() {
		sl.ReportError(r.End, "end", "End", "required", "")
	}
	if !r.Begin.IsZero() && !r.End.IsZero() && r.End.Before(r.Begin) {
		sl.ReportError(r.End, "end", "End", tagDateOrder, "begin")
	}
}

// Validate checks doc against the scenario schema.
// It returns nil or a *DeserializationError with one message per violation.
func Validate(doc *Document) error {
	if doc == nil {
		return newDeserializationError("document is empty")
	}

	err := schemaValidator().Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newDeserializationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldPath(fe)+": "+describe(fe))
	}

	return newDeserializationError(msgs...)
}

// fieldPath drops the root struct name from the namespace:
// "Document.scenario.population.hospitalBeds" -> "scenario.population.hospitalBeds".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}

func describe(fe validator.FieldError) string {
	param := fe.Param()
	collection := false
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		collection = true
	}

	switch fe.Tag() {
	case "required":
		return "required field missing"
	case "min":
		if collection {
			return fmt.Sprintf("must contain at least %s item(s)", param)
		}

		return "must be at least " + param
	case "max":
		if collection {
			return fmt.Sprintf("must contain at most %s item(s)", param)
		}

		return "must be at most " + param
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	case "gt":
		return "must be greater than " + param
	case "lt":
		return "must be less than " + param
	case "gtefield":
		return "must be greater than or equal to " + lowerFirst(param)
	case tagDateOrder:
		return "must not be before " + param
	case "unique":
		return fmt.Sprintf("must not contain duplicate %s values", lowerFirst(param))
	case "hexcolor":
		return fmt.Sprintf("must be a hex color, got %q", fmt.Sprint(fe.Value()))
	case "agegroup":
		return fmt.Sprintf("must be one of %s, got %q", ageGroupList(), fmt.Sprint(fe.Value()))
	case "schemaver":
		return fmt.Sprintf("unsupported schema version %q, expected 2.x.y", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func ageGroupList() string {
	names := make([]string, len(AgeGroups))
	for i, g := range AgeGroups {
		names[i] = string(g)
	}

	return "[" + strings.Join(names, " ") + "]"
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

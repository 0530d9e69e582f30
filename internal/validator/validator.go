// Package validator checks decoded request bodies against their struct tags.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/categorize"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	// billingday accepts a closing or due day of a card, 1 through 31.
	if err := v.RegisterValidation("billingday", func(fl validator.FieldLevel) bool {
		return billingcycle.IsValidDay(int(fl.Field().Int()))
	}); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return categorize.IsCategory(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// Error lists the failed rule per JSON field.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}

		fields[fe.Field()] = rule
	}

	return &Error{Fields: fields}
}

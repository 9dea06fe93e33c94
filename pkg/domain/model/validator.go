package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON field names so messages match what clients sent.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
			return types.Mood(fl.Field().String()).IsValidOrNone()
		})

		validate = v
	})
	return validate
}

// ValidateStruct validates s against its `validate` tags. Violations are
// returned as ErrValidation with one readable message per field.
func ValidateStruct(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return goerr.Wrap(err, "failed to validate input")
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, formatFieldError(e))
	}

	first := verrs[0]
	return goerr.Wrap(ErrValidation, strings.Join(messages, "; "),
		goerr.V(FieldKey, first.Namespace()),
		goerr.V(FieldTagKey, first.Tag()),
		goerr.V(FieldParamKey, first.Param()),
	)
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, e.Param())
		}
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "mood":
		return fmt.Sprintf("%s must be one of: %s", field, moodList())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func moodList() string {
	moods := types.AllMoods()
	names := make([]string, len(moods))
	for i, m := range moods {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

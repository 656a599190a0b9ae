package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/cmuseum/catalog/common/models"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// V returns the shared validator with the catalog enum rules registered
func V() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json field names rather than Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		validate.RegisterValidation("category", enumValidator(models.Categories))
		validate.RegisterValidation("condition", enumValidator(models.Conditions))
		validate.RegisterValidation("task_status", enumValidator(models.TaskStatuses))
		validate.RegisterValidation("task_priority", enumValidator(models.TaskPriorities))
		validate.RegisterValidation("image_ref", imageRefValidator)
	})
	return validate
}

func enumValidator[T ~string](allowed []T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, T(fl.Field().String()))
	}
}

// FieldError describes one rejected field
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error collects every field that failed validation
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return fmt.Sprintf("%s: %s", models.ErrValidation, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is(err, models.ErrValidation) match
func (e *Error) Unwrap() error {
	return models.ErrValidation
}

// Struct validates a record and returns *Error listing each failed field
func Struct(v any) error {
	err := V().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", fe.Field(), fe.Param())
	case "image_ref":
		return fmt.Sprintf("%s must be a catalog blob or an http(s) URL", fe.Field())
	case "category", "condition", "task_status", "task_priority":
		return fmt.Sprintf("%s has unknown value %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

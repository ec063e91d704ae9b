package http

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Kind    string       `json:"kind,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

var reAccountID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// employee / account ids share the Ax-Actor-Id alphabet
	_ = v.RegisterValidation("accountid", func(fl validator.FieldLevel) bool {
		return reAccountID.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("exitkind", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "clearance", "interview":
			return true
		}
		return false
	})
	// RFC3339 with an explicit offset
	_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "accountid":
			out = append(out, FieldError{Field: field, Message: "must be 1-64 chars of letters, digits, '.', '_' or '-'"})
		case "exitkind":
			out = append(out, FieldError{Field: field, Message: "must be clearance or interview"})
		case "rfc3339":
			out = append(out, FieldError{Field: field, Message: "must be an RFC3339 timestamp"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of: " + e.Param()})
		case "boolean":
			out = append(out, FieldError{Field: field, Message: "must be true or false"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

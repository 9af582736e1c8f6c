package api

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
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
		// Report JSON field names so messages match the request body.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterValidation("maxbytes", maxBytes)
	})
	return validate
}

// maxBytes limits the UTF-8 encoded length of a string, unlike max which
// counts runes. bcrypt rejects passwords longer than 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
	}
	return len(fl.Field().String()) <= limit
}

// fieldError is one failed validation rule.
type fieldError struct {
	Field string
	Tag   string
	Param string
}

func (e fieldError) String() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", e.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", e.Field, e.Param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field, e.Param)
	case "datetime":
		return fmt.Sprintf("%s must match the layout %s", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field, e.Tag)
	}
}

// validationError lists every field that failed.
type validationError struct {
	Fields []fieldError
}

func (ve *validationError) Error() string {
	msgs := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		msgs[i] = f.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &validationError{Fields: make([]fieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

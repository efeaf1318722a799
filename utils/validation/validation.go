// Package validation configures gin's request binding and maps its failures onto the error taxonomy.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/booking_models"
	"github.com/joy095/gowafly/services/pricing_service"
	"github.com/joy095/gowafly/utils"
)

var setupOnce sync.Once

// Setup registers the custom tags on gin's validator and reports fields by their json/form name.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logger.WarnLogger.Warn("gin validator engine is not go-playground/validator; custom tags not registered")
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("iata", validateIATA)
		_ = v.RegisterValidation("cabin", validateCabin)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// validateIATA accepts three ASCII letters in either case.
func validateIATA(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 3 {
		return false
	}
	for _, c := range strings.ToUpper(s) {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func validateCabin(fl validator.FieldLevel) bool {
	return pricing_service.CabinClass(fl.Field().String()).IsValid()
}

// Error converts a ShouldBind* failure into an AppError.
func Error(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return utils.Missing(fe.Field())
		}
		return utils.NewError(utils.KindInvalidInput, describe(fe), err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var timeErr *time.ParseError
	switch {
	case errors.As(err, &syntaxErr):
		return utils.NewError(utils.KindInvalidInput, "request body is not valid JSON", err)
	case errors.As(err, &typeErr):
		return utils.NewError(utils.KindInvalidInput, describeType(typeErr), err)
	case errors.As(err, &timeErr):
		return utils.NewError(utils.KindInvalidInput, fmt.Sprintf("%q is not an RFC 3339 timestamp", timeErr.Value), err)
	}
	return utils.NewError(utils.KindInvalidInput, "invalid request", err)
}

var dateType = reflect.TypeOf(booking_models.Date{})

func describeType(e *json.UnmarshalTypeError) string {
	field := e.Field
	if field == "" {
		field = "request body"
	}
	if e.Type == dateType {
		return field + " must be a date in YYYY-MM-DD format"
	}
	return field + " has the wrong type"
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return fe.Field() + " must be a valid e-mail address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "iata":
		return fe.Field() + " must be a three letter IATA code"
	case "cabin":
		return fe.Field() + " must be economy, business or first"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	}
	return fe.Field() + " is invalid"
}

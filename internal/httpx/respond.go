// Package httpx holds the JSON helpers shared by module handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error answers with {"error": msg} and a status derived from err.
func Error(w http.ResponseWriter, err error) {
	Respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}

// Decode reads a JSON body into dst and validates its struct tags.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("malformed JSON body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Invalid("%v", err)
	}
	problems := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "gt":
			problems = append(problems, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "gte", "min":
			problems = append(problems, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return apperr.Invalid("%s", strings.Join(problems, "; "))
}

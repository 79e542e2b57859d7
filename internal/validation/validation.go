// Package validation checks request inputs before they reach the services.
// Every validator builds a fresh Result; nothing is shared between calls.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yoockh/devconnect/internal/utils"
)

var validate = validator.New()

type Result struct {
	Errors  utils.FieldErrors `json:"errors"`
	IsValid bool              `json:"isValid"`
}

func newResult() Result {
	return Result{Errors: utils.FieldErrors{}}
}

func (r Result) done() Result {
	r.IsValid = r.Errors.Empty()
	return r
}

// Err returns nil for a valid result, otherwise a ValidationFailed error.
func (r Result) Err(op string) error {
	if r.IsValid {
		return nil
	}
	return utils.Invalid(op, r.Errors)
}

func isEmpty(s string) bool {
	return validate.Var(s, "required") != nil
}

func isLength(s string, min, max int) bool {
	return validate.Var(s, fmt.Sprintf("min=%d,max=%d", min, max)) == nil
}

func isURL(s string) bool {
	return validate.Var(s, "url") == nil
}

func isEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

func blank(s string) bool {
	return isEmpty(strings.TrimSpace(s))
}

package serrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrors map[string]string

// FromValidator converts validator output into a single Validation error whose
// meta lists every offending field.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Validation("VALIDATION_FAILED", "validation failed").Wrap(err)
	}
	fields := make(ValidationErrors, len(vErrs))
	for _, fe := range vErrs {
		fields[fe.Field()] = fmt.Sprintf("failed on %q", fe.Tag())
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := Validation("VALIDATION_FAILED", "invalid fields: "+strings.Join(names, ", "))
	out.Meta = map[string]string(fields)
	return out
}

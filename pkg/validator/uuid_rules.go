package validator

import (
	"strings"

	"github.com/google/uuid"
)

// ValidUUID accepts only the canonical hyphenated form.
func ValidUUID(field, value string) Rule {
	return Rule{
		Check: func() bool {
			value = strings.TrimSpace(value)
			// uuid.Parse also takes urn and braced forms; reject those up front
			if len(value) != 36 || value[8] != '-' || value[13] != '-' || value[18] != '-' || value[23] != '-' {
				return false
			}
			_, err := uuid.Parse(value)
			return err == nil
		},
		Error: ValidationError{
			Field:          field,
			Message:        "Must be a valid UUID.",
			TranslationKey: "validation.uuid",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

var phoneCharsRegex = regexp.MustCompile(`^[\d\s\-+()]+$`)

// MinPhoneDigits is the shortest accepted phone number, counted in digits.
const MinPhoneDigits = 10

// ValidEmail accepts a bare RFC 5322 address with a dotted domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}

			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			if !strings.Contains(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:          field,
			Message:        "Enter a valid email address.",
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidPhone accepts an empty value or a loosely formatted number: digits,
// spaces, dashes, plus and parentheses, with at least MinPhoneDigits digits
// that are not all the same.
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			if !phoneCharsRegex.MatchString(value) {
				return false
			}

			var digits []byte
			for i := 0; i < len(value); i++ {
				if c := value[i]; c >= '0' && c <= '9' {
					digits = append(digits, c)
				}
			}
			if len(digits) < MinPhoneDigits {
				return false
			}
			for _, d := range digits[1:] {
				if d != digits[0] {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:          field,
			Message:        "Enter a valid phone number with at least 10 digits.",
			TranslationKey: "validation.phone",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

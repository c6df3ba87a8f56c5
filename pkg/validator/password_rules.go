package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Frequently compromised passwords, compared case-insensitively.
var commonPasswords = map[string]bool{
	"password":    true,
	"password1":   true,
	"password123": true,
	"passw0rd":    true,
	"123456":      true,
	"12345678":    true,
	"123456789":   true,
	"1234567890":  true,
	"qwerty":      true,
	"qwerty123":   true,
	"qwertyuiop":  true,
	"abc123":      true,
	"abcd1234":    true,
	"aa123456":    true,
	"admin":       true,
	"admin123":    true,
	"letmein":     true,
	"welcome":     true,
	"welcome1":    true,
	"iloveyou":    true,
	"monkey":      true,
	"dragon":      true,
	"sunshine":    true,
	"princess":    true,
	"football":    true,
	"baseball":    true,
	"superman":    true,
	"trustno1":    true,
	"1q2w3e4r":    true,
	"zaq12wsx":    true,
	"123asd":      true,
	"zxc123":      true,
	"123zxc":      true,
	"11111111":    true,
	"00000000":    true,
	"changeme":    true,
	"student1":    true,
	"student123":  true,
}

type PasswordStrengthConfig struct {
	MinLength      int // runes
	MaxLength      int // bytes
	MinCharClasses int // of upper, lower, digit, other
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// DefaultPasswordStrength is at least 8 characters, at most
// MaxPasswordBytes bytes, from at least two classes.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:      8,
		MaxLength:      MaxPasswordBytes,
		MinCharClasses: 2,
	}
}

func charClasses(value string) int {
	var upper, lower, digit, other bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}

	n := 0
	for _, ok := range []bool{upper, lower, digit, other} {
		if ok {
			n++
		}
	}
	return n
}

// StrongPassword checks length bounds and character class variety.
// The minimum counts runes, the maximum counts bytes.
func StrongPassword(field, value string, config PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if utf8.RuneCountInString(value) < config.MinLength {
				return false
			}
			if config.MaxLength > 0 && len(value) > config.MaxLength {
				return false
			}
			return charClasses(value) >= config.MinCharClasses
		},
		Error: ValidationError{
			Field: field,
			Message: fmt.Sprintf(
				"Password must be at least %d characters, at most %d bytes, and mix at least %d of: uppercase, lowercase, digits, symbols.",
				config.MinLength, config.MaxLength, config.MinCharClasses,
			),
			TranslationKey: "validation.password_strength",
			TranslationValues: map[string]any{
				"field":            field,
				"min_length":       config.MinLength,
				"max_length":       config.MaxLength,
				"min_char_classes": config.MinCharClasses,
			},
		},
	}
}

func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return !commonPasswords[strings.ToLower(value)]
		},
		Error: ValidationError{
			Field:          field,
			Message:        "This password is too common.",
			TranslationKey: "validation.password_common",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

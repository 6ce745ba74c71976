package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	minAge = 13
	maxAge = 120
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^\+?[\d\s\-()]{10,15}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// now is swapped in tests that pin the age calculation.
var now = time.Now

func registerRules(v *validator.Validate) {
	_ = v.RegisterValidation("email_or_phone", func(fl validator.FieldLevel) bool {
		return IsEmailOrPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		age, ok := Age(fl.Field().String(), now())
		return ok && age >= minAge && age <= maxAge
	})
}

// IsEmailOrPhone accepts an email when the value contains '@', a phone number otherwise.
// Surrounding whitespace is ignored.
func IsEmailOrPhone(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "@") {
		return emailRe.MatchString(s)
	}
	return phoneRe.MatchString(s)
}

// StrongPassword requires at least one lowercase letter, one uppercase letter and one digit.
func StrongPassword(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Age returns the completed years between a YYYY-MM-DD birthdate and at.
func Age(birthdate string, at time.Time) (int, bool) {
	b, err := time.Parse("2006-01-02", strings.TrimSpace(birthdate))
	if err != nil {
		return 0, false
	}
	age := at.Year() - b.Year()
	if at.Month() < b.Month() || (at.Month() == b.Month() && at.Day() < b.Day()) {
		age--
	}
	return age, true
}

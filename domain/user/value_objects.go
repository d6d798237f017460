package user

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is stored lower-case so comparisons are case-insensitive.
type Email struct {
	value string
}

func NewEmail(email string) (Email, error) {
	email = NormalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return Email{}, NewInvalidEmailError(email)
	}
	return Email{value: email}, nil
}

// NormalizeEmail is the lookup form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (e Email) Value() string           { return e.value }
func (e Email) Equals(other Email) bool { return e.value == other.value }
func (e Email) String() string          { return e.value }

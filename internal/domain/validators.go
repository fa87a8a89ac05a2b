package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	PasswordMinLength = 12
	PasswordMaxLength = 128

	minPasswordClassCount = 2
	maxRepeatedRun        = 2

	// PasswordSpecialChars lists the characters that count toward the
	// special-character rule.
	PasswordSpecialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

const (
	msgEmailInvalid    = "The email address provided is not valid."
	msgUsernameSpace   = "The space character is not allowed in username."
	msgUsernameCharset = "The username may only contain lowercase letters (a-z), digits (0-9) and the underscore character (\"_\")."

	msgPasswordTooShort   = "Password must be at least 12 characters long."
	msgPasswordTooLong    = "Password must not exceed 128 characters."
	msgPasswordUppercase  = "Password must contain at least 2 uppercase letters."
	msgPasswordLowercase  = "Password must contain at least 2 lowercase letters."
	msgPasswordDigits     = "Password must contain at least 2 digits."
	msgPasswordSpecial    = "Password must contain at least 2 special characters."
	msgPasswordRepetition = "Password cannot contain more than 2 consecutive identical characters."
)

// ValidateEmail checks value against the local@domain.tld shape.
func ValidateEmail(value string) error {
	if !emailPattern.MatchString(value) {
		return invalidField("email", msgEmailInvalid)
	}
	return nil
}

// ValidateUsername rejects spaces first, then anything outside [a-z0-9_].
func ValidateUsername(value string) error {
	if strings.Contains(value, " ") {
		return invalidField("username", msgUsernameSpace)
	}
	if !usernamePattern.MatchString(value) {
		return invalidField("username", msgUsernameCharset)
	}
	return nil
}

// ValidatePassword enforces the password policy, reporting the first rule
// broken in this order: minimum length, maximum length, uppercase, lowercase,
// digits, special characters, repeated characters.
func ValidatePassword(value string) error {
	length := utf8.RuneCountInString(value)
	if length < PasswordMinLength {
		return invalidField("password", msgPasswordTooShort)
	}
	if length > PasswordMaxLength {
		return invalidField("password", msgPasswordTooLong)
	}

	var upper, lower, digits, special int
	for _, r := range value {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= 'a' && r <= 'z':
			lower++
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(PasswordSpecialChars, r):
			special++
		}
	}

	switch {
	case upper < minPasswordClassCount:
		return invalidField("password", msgPasswordUppercase)
	case lower < minPasswordClassCount:
		return invalidField("password", msgPasswordLowercase)
	case digits < minPasswordClassCount:
		return invalidField("password", msgPasswordDigits)
	case special < minPasswordClassCount:
		return invalidField("password", msgPasswordSpecial)
	}

	if longestRun(value) > maxRepeatedRun {
		return invalidField("password", msgPasswordRepetition)
	}
	return nil
}

func longestRun(s string) int {
	var (
		prev    rune
		run     int
		longest int
	)
	for i, r := range []rune(s) {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		prev = r
		if run > longest {
			longest = run
		}
	}
	return longest
}

package lead

import (
	"strings"
	"unicode"
)

// ValidationResult is the outcome of validating a single field value.
// Message is user-facing and set only when Valid is false.
type ValidationResult struct {
	Valid   bool
	Message string
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Message: msg}
}

// ValidateField checks a raw answer against the rules for the given
// field. Malformed input is the expected case; this never panics.
func ValidateField(key FieldKey, value string) ValidationResult {
	value = strings.TrimSpace(value)

	switch key {
	case FieldEmail:
		if validEmail(value) {
			return valid()
		}
		return invalid("That doesn't look like a valid email address. Please enter a valid **email** (e.g., name@email.com).")
	case FieldPhone:
		if countDigits(value) >= 7 {
			return valid()
		}
		return invalid("Please enter a valid phone number.")
	case FieldFirstName, FieldLastName:
		if validName(value) {
			return valid()
		}
		return invalid("Please enter a valid name (letters only, at least 2 characters).")
	default:
		if len(value) >= 2 {
			return valid()
		}
		return invalid("Please provide a more detailed answer.")
	}
}

// validEmail applies a conservative local@domain.tld shape: exactly
// one '@' separator with a '.' after it, no whitespace anywhere.
func validEmail(value string) bool {
	if strings.ContainsAny(value, " \t\n") {
		return false
	}
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}
	domain := value[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func countDigits(value string) int {
	n := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func validName(value string) bool {
	if len([]rune(value)) < 2 {
		return false
	}
	letters := 0
	for _, r := range value {
		if r == ' ' {
			continue
		}
		if !unicode.IsLetter(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

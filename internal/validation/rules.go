package validation

import (
	"context"

	"github.com/gabriel-vasile/mimetype"
	playground "github.com/go-playground/validator/v10"
)

// The shape checks delegate to go-playground's validator so the rule set
// stays consistent with what the rest of the ecosystem accepts as e.g. a
// valid e-mail address.
var validate = playground.New()

// Required fails on an empty string.
func Required(value, message string) Rule {
	return Rule{
		Check: func(context.Context) (bool, error) {
			return value != "", nil
		},
		Message: message,
	}
}

// LengthBetween fails when the length in runes is outside [min, max].
// An empty value passes; pair it with Required to forbid emptiness.
func LengthBetween(value string, min, max int, message string) Rule {
	return Rule{
		Check: func(context.Context) (bool, error) {
			if value == "" {
				return true, nil
			}
			n := len([]rune(value))
			return n >= min && n <= max, nil
		},
		Message: message,
	}
}

// MinLength fails when the length in runes is below min. Empty passes.
func MinLength(value string, min int, message string) Rule {
	return Rule{
		Check: func(context.Context) (bool, error) {
			if value == "" {
				return true, nil
			}
			return len([]rune(value)) >= min, nil
		},
		Message: message,
	}
}

// Email fails when the value does not look like an e-mail address.
// Empty passes.
func Email(value, message string) Rule {
	return Rule{
		Check: func(context.Context) (bool, error) {
			if value == "" {
				return true, nil
			}
			return validate.Var(value, "email") == nil, nil
		},
		Message: message,
	}
}

// Unique delegates to an external lookup collaborator. The lookup reports
// whether the value is already taken; a lookup error aborts evaluation
// instead of producing a field message.
func Unique(value string, taken func(ctx context.Context, value string) (bool, error), message string) Rule {
	return Rule{
		Check: func(ctx context.Context) (bool, error) {
			if value == "" {
				return true, nil
			}
			inUse, err := taken(ctx, value)
			if err != nil {
				return false, err
			}
			return !inUse, nil
		},
		Message: message,
	}
}

// MaxBytes fails when the payload exceeds limit bytes. A payload of exactly
// limit bytes passes.
func MaxBytes(payload []byte, limit int, message string) Rule {
	return Rule{
		Check: func(context.Context) (bool, error) {
			return len(payload) <= limit, nil
		},
		Message: message,
	}
}

// ContentType sniffs the payload's real content type and fails unless it is
// one of the allowed MIME types. The declared filename or extension is
// ignored on purpose.
func ContentType(payload []byte, allowed []string, message string) Rule {
	return Rule{
		Check: func(context.Context) (bool, error) {
			detected := mimetype.Detect(payload)
			for _, mime := range allowed {
				if detected.Is(mime) {
					return true, nil
				}
			}
			return false, nil
		},
		Message: message,
	}
}

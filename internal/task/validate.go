package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTitleLength is the maximum title length in characters (runes).
const MaxTitleLength = 200

// ValidationError represents a rejected field with a message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// NormalizeTitle applies NFC normalization and trims surrounding whitespace,
// then enforces the title rules: non-empty and at most MaxTitleLength runes.
//
// NFC keeps "é" typed as e + combining accent from counting as two characters.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(norm.NFC.String(raw))
	if title == "" {
		return "", ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return "", ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title is %d characters, maximum is %d", n, MaxTitleLength),
		}
	}
	return title, nil
}

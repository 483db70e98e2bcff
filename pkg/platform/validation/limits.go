package validation

import (
	"fmt"
	"unicode/utf8"

	dErrors "classifieds/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxFormBodySize is the maximum accepted size of a consent form post (8 KB).
	MaxFormBodySize = 8 * 1024

	// MaxContactBodySize is the maximum accepted size of a contact form post (32 KB).
	MaxContactBodySize = 32 * 1024
)

// String element length limits, in characters.
const (
	// MaxSearchTermLength is the maximum length of the free-text search term.
	MaxSearchTermLength = 200

	// MaxLocationTermLength is the maximum length of the location term.
	MaxLocationTermLength = 100

	// MaxChoiceLength is the maximum length of a category or condition value.
	MaxChoiceLength = 100

	// MaxNameLength bounds the contact name and company fields.
	MaxNameLength = 100

	// MaxEmailLength is the RFC 5321 path limit.
	MaxEmailLength = 254

	MaxPhoneLength     = 30
	MaxSubjectLength   = 100
	MaxReferenceLength = 50

	// MaxMessageLength is the maximum length of a contact message.
	MaxMessageLength = 5000
)

// Limit pairs a named field value with its maximum length.
type Limit struct {
	Field string
	Value string
	Max   int
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckLimits returns the first failing limit.
func CheckLimits(limits ...Limit) error {
	for _, l := range limits {
		if err := CheckStringLength(l.Field, l.Value, l.Max); err != nil {
			return err
		}
	}
	return nil
}

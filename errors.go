package fieldcodec

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies why a field transform failed. A Kind is itself an error, so
// callers can test for it with errors.Is:
//
//	if errors.Is(err, fieldcodec.InvalidEmail) { ... }
type Kind uint8

const (
	_ Kind = iota

	// TypeMismatch means the raw value had the wrong shape for the
	// intermediate type (including null or absent for a required field).
	TypeMismatch
	// ConversionFailed means the intermediate-to-target conversion rejected the value.
	ConversionFailed
	// ParseFailed means the string-to-target parse rejected the value.
	ParseFailed
	InvalidPhoneNumber
	InvalidEmail
	InvalidURL
	InvalidCreditCard
	// TruncatedEscape means a '%' was followed by fewer than two characters.
	TruncatedEscape
	// InvalidEscape means the two characters after a '%' were not hex digits.
	InvalidEscape
	// EmbeddedParseFailed means a string-encoded document could not be decoded.
	EmbeddedParseFailed
)

var kindMessages = [...]string{
	TypeMismatch:        "unexpected value type",
	ConversionFailed:    "failed to convert deserialized value to desired type",
	ParseFailed:         "failed to parse deserialized value to desired type",
	InvalidPhoneNumber:  "ill formatted phone number",
	InvalidEmail:        "ill formatted e-mail address",
	InvalidURL:          "ill formatted url",
	InvalidCreditCard:   "ill formatted credit card number",
	TruncatedEscape:     "truncated percent escape",
	InvalidEscape:       "invalid percent escape",
	EmbeddedParseFailed: "failed parsing string encoded document",
}

var kindNames = [...]string{
	TypeMismatch:        "TypeMismatch",
	ConversionFailed:    "ConversionFailed",
	ParseFailed:         "ParseFailed",
	InvalidPhoneNumber:  "InvalidPhoneNumber",
	InvalidEmail:        "InvalidEmail",
	InvalidURL:          "InvalidURL",
	InvalidCreditCard:   "InvalidCreditCard",
	TruncatedEscape:     "TruncatedEscape",
	InvalidEscape:       "InvalidEscape",
	EmbeddedParseFailed: "EmbeddedParseFailed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error returns the human readable message for k.
func (k Kind) Error() string {
	if int(k) < len(kindMessages) && kindMessages[k] != "" {
		return kindMessages[k]
	}
	return k.String()
}

// Error is the error returned by every transform and by the record decoder.
type Error struct {
	Kind Kind
	// Field is the document key path of the failing field, dotted for nested
	// records. Empty when a transform is called directly.
	Field string
	// Offset is the byte offset of the offending escape for TruncatedEscape
	// and InvalidEscape, -1 otherwise.
	Offset int
	// Err is the underlying cause, if any.
	Err error
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Offset: -1, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	// A cause that already carries the kind describes it itself.
	if e.Err != nil && errors.Is(e.Err, e.Kind) {
		b.WriteString(e.Err.Error())
		return b.String()
	}
	b.WriteString(e.Kind.Error())
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the Kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// withField returns a copy of err with key prepended to its field path. An
// *Error anywhere in err's chain keeps its kind, with err itself as the cause
// when it was wrapped. Any other error comes from a caller supplied decoder
// and is reported as ConversionFailed.
func withField(key string, err error) error {
	var out Error
	var fe *Error
	switch {
	case errors.As(err, &fe) && fe == err:
		out = *fe
	case fe != nil:
		out = Error{Kind: fe.Kind, Field: fe.Field, Offset: fe.Offset, Err: err}
	default:
		out = *newError(ConversionFailed, err)
	}
	if out.Field == "" {
		out.Field = key
	} else {
		out.Field = key + "." + out.Field
	}
	return &out
}

// ValidationErrors is a map of field names to their validation errors.
// It is an alias for [validation.Errors] from ozzo-validation and implements
// the error interface with a JSON-friendly string representation.
type ValidationErrors = validation.Errors

package fieldcodec

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

const (
	minPhoneDigits = 4
	maxPhoneDigits = 15
)

// NormalizePhone canonicalizes a phone number to its digits, keeping a '+'
// only when it is the first character. Surrounding whitespace is trimmed and
// the input lowercased before the scan, so "  +49 (0) 171/23-45" becomes
// "+4901712345". Every other character is dropped, including a '+' anywhere
// but the start.
//
// NormalizePhone never fails and is idempotent.
func NormalizePhone(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case i == 0 && r == '+':
			b.WriteRune(r)
		case '0' <= r && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone normalizes s like [NormalizePhone] and fails with
// InvalidPhoneNumber unless the result is 4 to 15 digits, optionally led by
// '+'. With a leading '+' the country code must not start with 0.
func ValidatePhone(s string) (string, error) {
	n := NormalizePhone(s)
	if !isPhone(n) {
		return "", newError(InvalidPhoneNumber, nil)
	}
	return n, nil
}

func isPhone(n string) bool {
	digits := strings.TrimPrefix(n, "+")
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return false
	}
	// NormalizePhone leaves only digits after the optional '+'.
	return !strings.HasPrefix(n, "+") || govalidator.IsE164(n)
}

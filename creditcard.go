package fieldcodec

import (
	"strings"
	"unicode"

	"github.com/asaskevich/govalidator"
)

const (
	minCardDigits = 12
	maxCardDigits = 19
)

// ValidateCreditCard drops all whitespace and dashes from s and checks the
// remaining 12 to 19 digits carry a valid Luhn check digit. It returns the
// digits only, or fails with InvalidCreditCard.
func ValidateCreditCard(s string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, s)
	if len(digits) < minCardDigits || len(digits) > maxCardDigits || !govalidator.IsNumeric(digits) || !luhn(digits) {
		return "", newError(InvalidCreditCard, nil)
	}
	return digits, nil
}

// luhn reports whether the ASCII digit string s passes the mod 10 check.
func luhn(s string) bool {
	var sum int
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

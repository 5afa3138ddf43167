package fieldcodec

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"golang.org/x/net/idna"
)

const (
	maxEmailLocalLength  = 64
	maxEmailDomainLength = 255
)

var (
	emailLocalRegexp   = regexp.MustCompile("^[a-z0-9.!#$%&'*+/=?^_`{|}~-]+$")
	emailDomainRegexp  = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)*$`)
	emailLiteralRegexp = regexp.MustCompile(`^\[([0-9a-f:.]+)\]$`)
)

// ValidateEmail trims and lowercases s and checks it is an address of the
// form local@domain. The local part is 1-64 characters out of letters, digits
// and .!#$%&'*+/=?^_`{|}~- (quoted local parts are rejected). The domain is
// either dot separated labels of 1-63 letters, digits and interior hyphens, a
// bracketed IPv4 or IPv6 literal, or an internationalized name whose IDNA
// ASCII form satisfies the label rules and which is already in the mapped
// form IDNA lookup would produce (no soft hyphens or fullwidth letters).
//
// On mismatch it fails with InvalidEmail, otherwise it returns the trimmed,
// lowercased address.
func ValidateEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !isEmail(s) {
		return "", newError(InvalidEmail, nil)
	}
	return s, nil
}

func isEmail(s string) bool {
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if utf8.RuneCountInString(local) > maxEmailLocalLength || len(domain) > maxEmailDomainLength {
		return false
	}
	if !emailLocalRegexp.MatchString(local) {
		return false
	}
	return isEmailDomain(domain)
}

func isEmailDomain(domain string) bool {
	if emailDomainRegexp.MatchString(domain) {
		return true
	}
	if m := emailLiteralRegexp.FindStringSubmatch(domain); m != nil {
		return govalidator.IsIP(m[1])
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil || len(ascii) > maxEmailDomainLength || !emailDomainRegexp.MatchString(ascii) {
		return false
	}
	// Lookup maps away soft hyphens and folds fullwidth forms; the address is
	// returned as written, so it must already be in its mapped form.
	back, err := idna.Lookup.ToUnicode(ascii)
	return err == nil && back == domain
}

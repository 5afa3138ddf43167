package fieldcodec

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// ValidateURL trims and lowercases s, percent-decodes it with [PercentDecode]
// and checks the decoded string is a URL: an optional scheme, an authority and
// an optional path. Escape errors are returned unchanged (TruncatedEscape,
// InvalidEscape); a decoded string that is not a URL fails with InvalidURL.
func ValidateURL(s string) (string, error) {
	decoded, err := PercentDecode(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return "", err
	}
	if !govalidator.IsURL(decoded) {
		return "", newError(InvalidURL, nil)
	}
	return decoded, nil
}

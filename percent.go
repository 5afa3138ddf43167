package fieldcodec

import (
	"strings"
	"unicode/utf8"
)

// PercentDecode replaces every %XX escape in s with the character whose code
// point is the byte 0xXX. Escapes are decoded one byte at a time, so a
// percent-encoded multi-byte UTF-8 sequence becomes several Latin-1
// characters rather than one. Characters other than '%' are copied.
//
// A '%' followed by fewer than two characters fails with TruncatedEscape, a
// '%' followed by two characters that are not hex digits fails with
// InvalidEscape. The returned *Error carries the byte offset of the '%'.
func PercentDecode(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '%' {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}

		hi, hiSize := utf8.DecodeRuneInString(s[i+1:])
		lo, loSize := utf8.DecodeRuneInString(s[i+1+hiSize:])
		if hiSize == 0 || loSize == 0 {
			e := newError(TruncatedEscape, nil)
			e.Offset = i
			return "", e
		}
		h, okH := unhex(hi)
		l, okL := unhex(lo)
		if !okH || !okL {
			e := newError(InvalidEscape, nil)
			e.Offset = i
			return "", e
		}
		b.WriteRune(rune(h<<4 | l))
		i += 1 + hiSize + loSize
	}
	return b.String(), nil
}

// PercentEncode is the inverse of PercentDecode. Characters up to U+00FF other
// than the unreserved set A-Z a-z 0-9 - . _ ~ are written as %XX; characters
// above U+00FF cannot be represented by a single byte and are copied as is.
func PercentEncode(s string) string {
	const hexDigits = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > 0xFF || isUnreserved(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[r>>4])
		b.WriteByte(hexDigits[r&0x0F])
	}
	return b.String()
}

func isUnreserved(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	case r == '-', r == '.', r == '_', r == '~':
		return true
	}
	return false
}

func unhex(r rune) (byte, bool) {
	switch {
	case '0' <= r && r <= '9':
		return byte(r - '0'), true
	case 'a' <= r && r <= 'f':
		return byte(r - 'a' + 10), true
	case 'A' <= r && r <= 'F':
		return byte(r - 'A' + 10), true
	}
	return 0, false
}

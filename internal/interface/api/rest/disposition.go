package rest

import (
	"mime"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// attachment builds a Content-Disposition value carrying an ASCII fallback
// for old clients and the exact UTF-8 name per RFC 6266.
func attachment(name string) string {
	fallback := asciiFallback(name)
	v := mime.FormatMediaType("attachment", map[string]string{"filename": fallback})
	if fallback == name {
		return v
	}
	return v + "; filename*=UTF-8''" + extValue(name)
}

// extValue percent-encodes everything outside the RFC 5987 attr-char set.
func extValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

// asciiFallback strips diacritics and replaces whatever is left outside
// printable ASCII with '_'.
func asciiFallback(name string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}

	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, s)

	if strings.Trim(s, "_. ") == "" {
		return "download"
	}
	return s
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }

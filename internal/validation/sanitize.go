package validation

import (
	"html"
	"strings"
)

// SanitizeText trims the value and escapes markup-significant characters so it
// can be echoed into a page or an email without being read as HTML.
func SanitizeText(raw string) string {
	return strings.TrimSpace(html.EscapeString(raw))
}

// SanitizeEmail drops every character that cannot appear in an address,
// keeping letters, digits and !#$%&'*+-=?^_`{|}~@.[]
func SanitizeEmail(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("!#$%&'*+-=?^_`{|}~@.[]", r):
			return r
		}
		return -1
	}, raw)
}

// ParseTickets reads a leading integer the way a lenient form reader does:
// optional whitespace and sign, then digits. Anything unreadable is 0.
func ParseTickets(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		// saturate well above any bound we check
		if n < 1_000_000 {
			n = n*10 + int(s[i]-'0')
		}
	}
	return sign * n
}

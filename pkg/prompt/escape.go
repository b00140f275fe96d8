package prompt

import "strings"

// Unescape expands the escape sequences \n, \t, \r, \" and \\ in s.
//
// Any other escape is kept verbatim, backslash included, and a trailing lone
// backslash is kept as is.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)

			continue
		}

		if i+1 == len(s) {
			b.WriteByte('\\')

			break
		}

		i++
		switch next := s[i]; next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
		}
	}

	return b.String()
}

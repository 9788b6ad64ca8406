package lua

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseNumber converts numeral text to a float64.
//
// Decimal numerals with optional fraction and exponent are accepted, as well
// as hexadecimal numerals with optional fraction and binary exponent.
func ParseNumber(text string) (float64, error) {
	if len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		if !strings.ContainsAny(text, ".pP") {
			n, err := strconv.ParseUint(text[2:], 16, 64)
			if err != nil {
				// Lua wraps around on overflow; fall back to float parsing.
				return strconv.ParseFloat(text+"p0", 64)
			}

			return float64(n), nil
		}

		if !strings.ContainsAny(text, "pP") {
			text += "p0"
		}

		return strconv.ParseFloat(text, 64)
	}

	if strings.ContainsAny(text, "_xX") {
		return 0, strconv.ErrSyntax
	}

	return strconv.ParseFloat(text, 64)
}

// FormatNumber renders f as the shortest numeral that reads back as the same
// value of the given bit size (32 or 64).
// The sign is included; callers emitting source should negate separately.
func FormatNumber(f float64, bitSize int) string {
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

// Unquote decodes the text of a string token, which is either a quoted
// string or a long bracket string.
func Unquote(text string) (string, error) {
	if text == "" {
		return "", ErrInvalidString
	}

	switch text[0] {
	case '[':
		return unquoteLong(text)
	case '"', '\'':
		if len(text) < 2 || text[len(text)-1] != text[0] {
			return "", ErrInvalidString.With(slogText(text))
		}

		return unescape(text[1 : len(text)-1])
	}

	return "", ErrInvalidString.With(slogText(text))
}

func unquoteLong(text string) (string, error) {
	level := 1
	for level < len(text) && text[level] == '=' {
		level++
	}

	// level is now the offset of the second '['
	if level >= len(text) || text[level] != '[' ||
		len(text) < 2*(level+1) {
		return "", ErrInvalidString.With(slogText(text))
	}

	body := text[level+1 : len(text)-level-1]

	// A newline immediately following the opening bracket is skipped.
	for _, nl := range []string{"\r\n", "\n\r", "\n", "\r"} {
		if strings.HasPrefix(body, nl) {
			body = body[len(nl):]

			break
		}
	}

	return body, nil
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)

			continue
		}

		i++
		if i >= len(s) {
			return "", ErrInvalidString.With(slogText(s))
		}

		switch c = s[i]; c {
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '\\', '"', '\'':
			sb.WriteByte(c)
		case '\n', '\r':
			sb.WriteByte('\n')

			// "\r\n" and "\n\r" count as a single line break.
			if i+1 < len(s) && (s[i+1] == '\n' || s[i+1] == '\r') &&
				s[i+1] != c {
				i++
			}
		case 'z':
			for i+1 < len(s) && isSpace(s[i+1]) {
				i++
			}
		case 'x':
			if i+2 >= len(s) {
				return "", ErrInvalidString.With(slogText(s))
			}

			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", ErrInvalidString.With(slogText(s))
			}

			sb.WriteByte(byte(n))

			i += 2
		case 'u':
			end := strings.IndexByte(s[i:], '}')
			if i+1 >= len(s) || s[i+1] != '{' || end < 0 {
				return "", ErrInvalidString.With(slogText(s))
			}

			n, err := strconv.ParseUint(s[i+2:i+end], 16, 32)
			if err != nil {
				return "", ErrInvalidString.With(slogText(s))
			}

			sb.WriteString(string(utf8.AppendRune(nil, rune(n))))

			i += end
		default:
			if !isDigit(c) {
				return "", ErrInvalidString.With(slogText(s))
			}

			j := i
			for j < len(s) && j < i+3 && isDigit(s[j]) {
				j++
			}

			n, err := strconv.ParseUint(s[i:j], 10, 8)
			if err != nil {
				return "", ErrInvalidString.With(slogText(s))
			}

			sb.WriteByte(byte(n))

			i = j - 1
		}
	}

	return sb.String(), nil
}

// Quote returns s as a double-quoted string literal.
func Quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < ' ' || c == 0x7f {
				sb.WriteByte('\\')

				digits := strconv.Itoa(int(c))
				sb.WriteString(strings.Repeat("0", 3-len(digits)))
				sb.WriteString(digits)

				continue
			}

			sb.WriteByte(c)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

func slogText(s string) slog.Attr { return slog.String("text", s) }

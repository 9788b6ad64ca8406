package lua

import (
	"log/slog"
	"strings"
)

// Lex splits src into tokens. The final token is always of kind [KindEOF]
// and holds any trivia that trails the last real token.
//
// Concatenating the trivia and text of every token reproduces src exactly.
func Lex(src string) ([]*Token, error) {
	l := &lexer{
		input: src,
		line:  1,
		col:   1,
	}

	var toks []*Token

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err.WithSource(src)
		}

		toks = append(toks, tok)

		if tok.Kind == KindEOF {
			return toks, nil
		}
	}
}

// lexer holds the tokenizer state.
type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// symbols lists punctuation, longest first.
var symbols = []string{
	"...",
	"..", "==", "~=", "<=", ">=", "<<", ">>", "//", "::",
	"+", "-", "*", "/", "%", "^", "#", "&", "~", "|", "<", ">", "=",
	"(", ")", "{", "}", "[", "]", ";", ":", ",", ".",
}

func (l *lexer) next() (*Token, *Error) {
	leading, err := l.trivia()
	if err != nil {
		return nil, err
	}

	tok := &Token{Leading: leading, Pos: l.position()}

	if l.eof() {
		tok.Kind = KindEOF

		return tok, nil
	}

	start := l.pos
	c := l.peek()

	switch {
	case isNameStart(c):
		for !l.eof() && isWord(l.peek()) {
			l.advance()
		}

		tok.Kind = KindName
		if IsKeyword(l.input[start:l.pos]) {
			tok.Kind = KindKeyword
		}

	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		if err := l.number(); err != nil {
			return nil, err
		}

		tok.Kind = KindNumber

	case c == '"' || c == '\'':
		if err := l.shortString(c); err != nil {
			return nil, err
		}

		tok.Kind = KindString

	case c == '[' && l.longBracketLevel() >= 0:
		if err := l.longBracket(); err != nil {
			return nil, err
		}

		tok.Kind = KindString

	default:
		for _, sym := range symbols {
			if strings.HasPrefix(l.input[l.pos:], sym) {
				l.advanceN(len(sym))

				tok.Kind = KindSymbol

				break
			}
		}

		if tok.Kind != KindSymbol {
			return nil, ErrInvalidChar.WithPosition(tok.Pos).
				With(slog.String("char", string(c)))
		}
	}

	tok.Text = l.input[start:l.pos]

	return tok, nil
}

// trivia consumes whitespace and comments.
func (l *lexer) trivia() ([]Trivia, *Error) {
	var out []Trivia

	// A leading "#!" line is treated as a comment.
	if l.pos == 0 && strings.HasPrefix(l.input, "#!") {
		start := l.pos
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		out = append(out, Comment(l.input[start:l.pos]))
	}

	for !l.eof() {
		start := l.pos

		switch {
		case isSpace(l.peek()):
			for !l.eof() && isSpace(l.peek()) {
				l.advance()
			}

			out = append(out, Space(l.input[start:l.pos]))

		case strings.HasPrefix(l.input[l.pos:], "--"):
			l.advanceN(2)

			if l.peek() == '[' && l.longBracketLevel() >= 0 {
				if err := l.longBracket(); err != nil {
					return nil, err
				}
			} else {
				for !l.eof() && l.peek() != '\n' {
					l.advance()
				}
			}

			out = append(out, Comment(l.input[start:l.pos]))

		default:
			return out, nil
		}
	}

	return out, nil
}

// number consumes a decimal or hexadecimal numeral.
func (l *lexer) number() *Error {
	pos := l.position()

	digit := isDigit
	exp := "eE"

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advanceN(2)

		digit = isHexDigit
		exp = "pP"
	}

	for !l.eof() && (digit(l.peek()) || l.peek() == '.') {
		l.advance()
	}

	if !l.eof() && strings.IndexByte(exp, l.peek()) >= 0 {
		l.advance()

		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}

		if !isDigit(l.peek()) {
			return ErrInvalidNumber.WithPosition(pos)
		}

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	if !l.eof() && (isWord(l.peek()) || l.peek() == '.') {
		return ErrInvalidNumber.WithPosition(pos)
	}

	if _, err := ParseNumber(l.input[pos.Offset:l.pos]); err != nil {
		return ErrInvalidNumber.WithPosition(pos)
	}

	return nil
}

// shortString consumes a quoted string, escapes included.
func (l *lexer) shortString(quote byte) *Error {
	pos := l.position()

	l.advance()

	for !l.eof() {
		switch c := l.peek(); c {
		case '\\':
			l.advance()

			if !l.eof() {
				l.advance()
			}

		case quote:
			l.advance()

			return nil

		case '\n':
			return ErrUnterminated.WithPosition(pos).
				With(slog.String("token", "string"))

		default:
			l.advance()
		}
	}

	return ErrUnterminated.WithPosition(pos).
		With(slog.String("token", "string"))
}

// longBracketLevel returns the number of '=' in an opening long bracket at
// the current position, or -1 if there is none.
func (l *lexer) longBracketLevel() int {
	if l.peek() != '[' {
		return -1
	}

	n := 1
	for l.peekAt(n) == '=' {
		n++
	}

	if l.peekAt(n) != '[' {
		return -1
	}

	return n - 1
}

// longBracket consumes a long string or the body of a long comment.
func (l *lexer) longBracket() *Error {
	pos := l.position()
	level := l.longBracketLevel()
	closing := "]" + strings.Repeat("=", level) + "]"

	l.advanceN(level + 2)

	end := strings.Index(l.input[l.pos:], closing)
	if end < 0 {
		return ErrUnterminated.WithPosition(pos).
			With(slog.String("token", "long bracket"))
	}

	l.advanceN(end + len(closing))

	return nil
}

func (l *lexer) peek() byte {
	return l.peekAt(0)
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.pos++
}

func (l *lexer) advanceN(n int) {
	for range n {
		l.advance()
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

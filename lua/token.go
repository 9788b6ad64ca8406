package lua

import (
	"iter"
	"slices"
	"strings"
)

// Kind classifies a [Token].
type Kind int

const (
	KindEOF     Kind = iota // EOF
	KindName                // name
	KindKeyword             // keyword
	KindNumber              // number
	KindString              // string
	KindSymbol              // symbol
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindName:
		return "name"
	case KindKeyword:
		return "keyword"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// TriviaKind classifies a [Trivia] element.
type TriviaKind int

const (
	TriviaSpace   TriviaKind = iota // whitespace, including newlines
	TriviaComment                   // line or long comment, including "--"
)

// Trivia is source text between tokens that carries no syntax.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// Space returns whitespace trivia.
func Space(text string) Trivia { return Trivia{Kind: TriviaSpace, Text: text} }

// Comment returns comment trivia. The text must include the "--" marker.
func Comment(text string) Trivia { return Trivia{Kind: TriviaComment, Text: text} }

// Position locates a token in its source. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Token is a single lexical element together with the trivia preceding it.
//
// Trivia following the last token of a file is attached to the EOF token.
type Token struct {
	Kind    Kind
	Text    string
	Leading []Trivia
	Pos     Position
}

// NewToken returns a token without trivia or position.
func NewToken(kind Kind, text string) *Token {
	return &Token{Kind: kind, Text: text}
}

// Symbol returns a new punctuation token.
func Symbol(text string) *Token { return NewToken(KindSymbol, text) }

// Name returns a new identifier token.
func Name(text string) *Token { return NewToken(KindName, text) }

// Keyword returns a new reserved word token.
func Keyword(text string) *Token { return NewToken(KindKeyword, text) }

// Tokens yields the token itself, so that a token can stand wherever a
// [Node] is expected.
func (t *Token) Tokens() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		yield(t)
	}
}

// IsSymbol reports whether t is the punctuation text.
func (t *Token) IsSymbol(text string) bool {
	return t != nil && t.Kind == KindSymbol && t.Text == text
}

// IsKeyword reports whether t is the reserved word text.
func (t *Token) IsKeyword(text string) bool {
	return t != nil && t.Kind == KindKeyword && t.Text == text
}

// HasNewline reports whether the leading trivia contains a line break.
func (t *Token) HasNewline() bool {
	for _, tr := range t.Leading {
		if strings.Contains(tr.Text, "\n") {
			return true
		}
	}

	return false
}

// HasComment reports whether the leading trivia contains a comment.
func (t *Token) HasComment() bool {
	return slices.ContainsFunc(t.Leading, func(tr Trivia) bool {
		return tr.Kind == TriviaComment
	})
}

func (t *Token) clone() *Token {
	if t == nil {
		return nil
	}

	c := *t
	c.Leading = slices.Clone(t.Leading)

	return &c
}

var keywords = map[string]struct{}{
	"and": {}, "break": {}, "do": {}, "else": {}, "elseif": {}, "end": {},
	"false": {}, "for": {}, "function": {}, "goto": {}, "if": {}, "in": {},
	"local": {}, "nil": {}, "not": {}, "or": {}, "repeat": {}, "return": {},
	"then": {}, "true": {}, "until": {}, "while": {},
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// IsName reports whether s is a valid identifier that is not a reserved word.
func IsName(s string) bool {
	if s == "" || IsKeyword(s) || isDigit(s[0]) {
		return false
	}

	for i := range len(s) {
		if !isWord(s[i]) {
			return false
		}
	}

	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isWord(c byte) bool { return isNameStart(c) || isDigit(c) }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

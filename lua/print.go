package lua

import (
	"bufio"
	"io"
	"strings"
)

// Fprint writes the source text of n to w.
//
// Trivia is written verbatim. Where two adjacent tokens have no trivia
// between them and would otherwise lex as one, a single space is inserted.
// An unmodified tree therefore prints back byte for byte.
func Fprint(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)

	var prev *Token

	for tok := range n.Tokens() {
		for _, tr := range tok.Leading {
			if _, err := bw.WriteString(tr.Text); err != nil {
				return err
			}
		}

		if len(tok.Leading) == 0 && needsSpace(prev, tok) {
			if err := bw.WriteByte(' '); err != nil {
				return err
			}
		}

		if _, err := bw.WriteString(tok.Text); err != nil {
			return err
		}

		prev = tok
	}

	return bw.Flush()
}

// Sprint returns the source text of n.
func Sprint(n Node) string {
	var sb strings.Builder

	_ = Fprint(&sb, n)

	return sb.String()
}

// String returns the source text of the file.
func (f *File) String() string { return Sprint(f) }

// String returns the source text of the table constructor.
func (x *Table) String() string { return Sprint(x) }

// gluing lists two-character sequences that must not be formed by
// juxtaposing two tokens.
var gluing = map[string]struct{}{
	"--": {}, "..": {}, "==": {}, "~=": {}, "<=": {}, ">=": {}, "<<": {},
	">>": {}, "//": {}, "::": {}, "[[": {}, "[=": {},
}

func needsSpace(prev, next *Token) bool {
	if prev == nil || prev.Text == "" || next.Text == "" {
		return false
	}

	a, b := prev.Text[len(prev.Text)-1], next.Text[0]

	switch {
	case isWord(a) && isWord(b):
		return true
	case prev.Kind == KindNumber && (b == '.' || isWord(b)):
		return true
	case a == '.' && isDigit(b):
		return true
	case a == '-' && b == '-':
		return true
	}

	_, glue := gluing[string([]byte{a, b})]

	return glue
}

package lua

import (
	"slices"
	"strings"
)

const (
	// DefaultIndentWidth is the number of spaces per indentation level.
	DefaultIndentWidth = 2
	// DefaultLineWidth is the width above which a table constructor that
	// fits on one line is broken into one field per line.
	DefaultLineWidth = 120
)

// FormatOption configures [Format].
type FormatOption func(formatConfig) formatConfig

type formatConfig struct {
	indent string
	width  int
}

// WithIndentWidth indents with n spaces per level.
func WithIndentWidth(n int) FormatOption {
	return func(c formatConfig) formatConfig {
		if n > 0 {
			c.indent = strings.Repeat(" ", n)
		}

		return c
	}
}

// WithTabs indents with one tab per level.
func WithTabs() FormatOption {
	return func(c formatConfig) formatConfig {
		c.indent = "\t"

		return c
	}
}

// WithLineWidth sets the line width limit for single-line tables.
func WithLineWidth(n int) FormatOption {
	return func(c formatConfig) formatConfig {
		if n > 0 {
			c.width = n
		}

		return c
	}
}

// Format returns a copy of f laid out canonically; f is not modified.
//
// Table constructors written on a single line stay on one line as
// "{ a = 1, b }" unless they exceed the line width. Any other table is
// written one field per line, each field followed by a comma. Every line is
// re-indented by nesting depth, trailing whitespace is removed, runs of blank
// lines collapse to one, and the file ends with a single newline. Comments
// are kept. Only trivia and separators change, so the result is [Similar]
// to f.
func Format(f *File, opts ...FormatOption) *File {
	cfg := formatConfig{
		indent: strings.Repeat(" ", DefaultIndentWidth),
		width:  DefaultLineWidth,
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	out := Clone(f)

	for t := range Tables(out) {
		layoutTable(t, cfg)
	}

	reindent(out, cfg)

	return out
}

// FormatString parses src and returns its formatted text.
func FormatString(src string, opts ...FormatOption) (string, error) {
	f, err := Parse(src)
	if err != nil {
		return "", err
	}

	return Format(f, opts...).String(), nil
}

func layoutTable(t *Table, cfg formatConfig) {
	if len(t.Fields) == 0 {
		if t.Close.HasComment() {
			t.Close.Leading = lineBreak(t.Close.Leading)
		} else {
			t.Close.Leading = nil
		}

		return
	}

	if spansLines(t) || len(Sprint(t)) > cfg.width {
		for _, f := range t.Fields {
			first := First(f)
			first.Leading = lineBreak(first.Leading)

			layoutField(f)

			if f.Sep == nil {
				f.Sep = Symbol(",")
			} else {
				f.Sep.Leading = dropSpace(f.Sep.Leading)
			}
		}

		t.Close.Leading = lineBreak(t.Close.Leading)

		return
	}

	for i, f := range t.Fields {
		First(f).Leading = []Trivia{Space(" ")}

		layoutField(f)

		switch {
		case i == len(t.Fields)-1:
			f.Sep = nil
		case f.Sep == nil:
			f.Sep = Symbol(",")
		default:
			f.Sep.Leading = nil
		}
	}

	t.Close.Leading = []Trivia{Space(" ")}
}

func layoutField(f *Field) {
	if f.Kind == FieldPositional {
		return
	}

	if f.Kind == FieldKeyed {
		tight(First(f.Key))
		tight(f.RBracket)
	}

	spaced(f.Assign)
	spaced(First(f.Value))
}

// spansLines reports whether any token inside t, other than its opening
// brace, is preceded by a line break or a comment.
func spansLines(t *Table) bool {
	for tok := range t.Tokens() {
		if tok != t.Open && (tok.HasNewline() || tok.HasComment()) {
			return true
		}
	}

	return false
}

func tight(tok *Token) {
	if tok != nil && !tok.HasComment() {
		tok.Leading = nil
	}
}

func spaced(tok *Token) {
	if tok != nil && !tok.HasComment() {
		tok.Leading = []Trivia{Space(" ")}
	}
}

// lineBreak makes trivia end on a fresh line, keeping comments.
func lineBreak(tr []Trivia) []Trivia {
	if !slices.ContainsFunc(tr, isComment) {
		return []Trivia{Space("\n")}
	}

	out := slices.Clone(tr)
	if last := out[len(out)-1]; last.Kind == TriviaComment ||
		!strings.Contains(last.Text, "\n") {
		out = append(out, Space("\n"))
	}

	return out
}

func dropSpace(tr []Trivia) []Trivia {
	return slices.DeleteFunc(slices.Clone(tr), func(t Trivia) bool {
		return t.Kind == TriviaSpace
	})
}

func isComment(t Trivia) bool { return t.Kind == TriviaComment }

// level is an entry of the indentation stack.
type level struct {
	depth int
	line  int
}

func reindent(f *File, cfg formatConfig) {
	toks := slices.Collect(f.Tokens())

	var (
		stack []level
		line  int
	)

	for i, tok := range toks {
		if tok.Kind == KindEOF {
			tok.Leading = finishTrivia(tok.Leading, i == 0)

			break
		}

		if i == 0 || startsLine(tok.Leading) {
			line++

			depth := 0
			if n := len(stack) - leadingClosers(toks[i:]); n > 0 {
				depth = stack[n-1].depth
			}

			tok.Leading = indentTrivia(
				tok.Leading,
				strings.Repeat(cfg.indent, depth),
				i == 0,
			)
		} else {
			tok.Leading = inlineTrivia(tok.Leading)

			// "=" is spaced on both sides, also outside tables.
			if len(tok.Leading) == 0 && (isAssign(tok) || i > 0 && isAssign(toks[i-1])) {
				tok.Leading = []Trivia{Space(" ")}
			}
		}

		if isBlockCloser(tok) && len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}

		if isBlockOpener(tok) {
			next := level{line: line}

			if n := len(stack); n > 0 {
				next.depth = stack[n-1].depth
				if stack[n-1].line != line {
					next.depth++
				}
			} else {
				next.depth = 1
			}

			stack = append(stack, next)
		}
	}
}

// leadingClosers counts the closing tokens at the start of a line.
func leadingClosers(toks []*Token) int {
	n := 0

	for i, tok := range toks {
		if i > 0 && startsLine(tok.Leading) || !isBlockCloser(tok) {
			break
		}

		n++
	}

	return n
}

func isAssign(tok *Token) bool {
	return tok.Kind == KindSymbol && tok.Text == "="
}

func isBlockOpener(tok *Token) bool {
	switch tok.Kind {
	case KindSymbol:
		return tok.Text == "{" || tok.Text == "(" || tok.Text == "["
	case KindKeyword:
		switch tok.Text {
		case "function", "do", "then", "repeat", "else":
			return true
		}
	}

	return false
}

func isBlockCloser(tok *Token) bool {
	switch tok.Kind {
	case KindSymbol:
		return tok.Text == "}" || tok.Text == ")" || tok.Text == "]"
	case KindKeyword:
		switch tok.Text {
		case "end", "until", "elseif", "else":
			return true
		}
	}

	return false
}

func startsLine(tr []Trivia) bool {
	for _, t := range tr {
		if t.Kind == TriviaSpace && strings.Contains(t.Text, "\n") {
			return true
		}
	}

	return false
}

func trimComment(t Trivia) Trivia {
	if !strings.HasPrefix(t.Text, "--[") {
		t.Text = strings.TrimRight(t.Text, " \t\r")
	}

	return t
}

// indentTrivia rewrites the trivia of a token that starts a line.
func indentTrivia(tr []Trivia, indent string, first bool) []Trivia {
	out := make([]Trivia, 0, len(tr))

	for i, t := range tr {
		if t.Kind == TriviaComment {
			out = append(out, trimComment(t))

			continue
		}

		n := strings.Count(t.Text, "\n")

		switch {
		case first && i == 0:
			// Whitespace at the start of the file is dropped.
			continue
		case n == 0:
			out = append(out, Space(" "))
		default:
			out = append(out, Space(strings.Repeat("\n", min(n, 2))+indent))
		}
	}

	return out
}

// inlineTrivia rewrites the trivia of a token in the middle of a line.
func inlineTrivia(tr []Trivia) []Trivia {
	out := make([]Trivia, 0, len(tr))

	for _, t := range tr {
		if t.Kind == TriviaComment {
			out = append(out, trimComment(t))

			continue
		}

		out = append(out, Space(" "))
	}

	return out
}

// finishTrivia rewrites the trivia at the end of the file so the file ends
// with exactly one newline.
func finishTrivia(tr []Trivia, empty bool) []Trivia {
	out := indentTrivia(tr, "", empty)

	for len(out) > 0 && out[len(out)-1].Kind == TriviaSpace {
		out = out[:len(out)-1]
	}

	if empty && len(out) == 0 {
		return nil
	}

	return append(out, Space("\n"))
}

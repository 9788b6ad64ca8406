package lua

import (
	"io"
	"log/slog"
)

// ParseReader parses a chunk from an io.Reader.
func ParseReader(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(string(data))
}

// Parse parses a chunk of source text.
//
// Statements are kept as opaque token runs; brackets and blocks must be
// balanced, and every table constructor is parsed into a [*Table].
func Parse(src string) (*File, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, src: src}

	items, perr := p.parseRun(nil)
	if perr != nil {
		return nil, perr.WithSource(src)
	}

	return &File{
		Body: &Raw{Items: items},
		EOF:  p.peek(),
	}, nil
}

// ParseExpr parses a single expression. Trivia after the expression is
// discarded.
func ParseExpr(src string) (Expr, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, src: src}

	items, perr := p.parseRun(nil)
	if perr != nil {
		return nil, perr.WithSource(src)
	}

	if len(items) == 0 {
		return nil, ErrExpectedExpr.WithPosition(p.peek().Pos).WithSource(src)
	}

	return exprFromRun(items), nil
}

// parser holds the parser state.
type parser struct {
	toks []*Token
	pos  int
	src  string
}

// closers maps each bracket or block opener to the token that closes it.
var closers = map[string]string{
	"(":        ")",
	"[":        "]",
	"function": "end",
	"do":       "end",
	"if":       "end",
	"repeat":   "until",
}

func opener(tok *Token) (string, bool) {
	if tok.Kind != KindSymbol && tok.Kind != KindKeyword {
		return "", false
	}

	closer, ok := closers[tok.Text]

	return closer, ok
}

func isCloser(tok *Token) bool {
	switch tok.Kind {
	case KindSymbol:
		return tok.Text == ")" || tok.Text == "]" || tok.Text == "}"
	case KindKeyword:
		return tok.Text == "end" || tok.Text == "until"
	}

	return false
}

// parseRun consumes tokens until stop reports true for a token outside any
// nested bracket or block, or until EOF when stop is nil.
// Table constructors in the run are parsed into [*Table] nodes.
func (p *parser) parseRun(stop func(*Token) bool) ([]Node, *Error) {
	var (
		items []Node
		stack []*Token
	)

	for {
		tok := p.peek()

		if tok.Kind == KindEOF {
			if len(stack) > 0 {
				open := stack[len(stack)-1]

				return nil, ErrUnbalanced.WithPosition(open.Pos).
					With(slog.String("open", open.Text))
			}

			if stop != nil {
				return nil, ErrUnbalanced.WithPosition(tok.Pos).
					With(slog.String("found", "EOF"))
			}

			return items, nil
		}

		if len(stack) == 0 && stop != nil && stop(tok) {
			return items, nil
		}

		if tok.IsSymbol("{") {
			t, err := p.parseTable()
			if err != nil {
				return nil, err
			}

			items = append(items, t)

			continue
		}

		if isCloser(tok) {
			if len(stack) == 0 {
				return nil, ErrUnbalanced.WithPosition(tok.Pos).
					With(slog.String("unexpected", tok.Text))
			}

			open := stack[len(stack)-1]
			if want, _ := opener(open); want != tok.Text {
				return nil, ErrUnbalanced.WithPosition(tok.Pos).
					With(
						slog.String("unexpected", tok.Text),
						slog.String("want", want),
					)
			}

			stack = stack[:len(stack)-1]
		} else if _, ok := opener(tok); ok {
			stack = append(stack, tok)
		}

		items = append(items, p.advance())
	}
}

// parseTable parses a table constructor starting at "{".
func (p *parser) parseTable() (*Table, *Error) {
	t := &Table{Open: p.advance()}

	for {
		tok := p.peek()

		switch {
		case tok.IsSymbol("}"):
			t.Close = p.advance()

			return t, nil

		case tok.Kind == KindEOF:
			return nil, ErrUnbalanced.WithPosition(t.Open.Pos).
				With(slog.String("open", "{"))
		}

		f, err := p.parseField()
		if err != nil {
			return nil, err
		}

		t.Fields = append(t.Fields, f)

		if sep := p.peek(); sep.IsSymbol(",") || sep.IsSymbol(";") {
			f.Sep = p.advance()

			continue
		}

		if tok := p.peek(); !tok.IsSymbol("}") {
			return nil, ErrExpectedSymbol.WithPosition(tok.Pos).
				With(
					slog.String("want", "}"),
					slog.String("found", tok.Text),
				)
		}
	}
}

// parseField parses one field of a table constructor.
func (p *parser) parseField() (*Field, *Error) {
	tok := p.peek()

	switch {
	case tok.IsSymbol("["):
		f := &Field{Kind: FieldKeyed, LBracket: p.advance()}

		items, err := p.parseRun(func(t *Token) bool { return t.IsSymbol("]") })
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return nil, ErrExpectedExpr.WithPosition(p.peek().Pos)
		}

		f.Key = exprFromRun(items)
		f.RBracket = p.advance()

		if f.Assign, err = p.expect("="); err != nil {
			return nil, err
		}

		if f.Value, err = p.parseValue(); err != nil {
			return nil, err
		}

		return f, nil

	case tok.Kind == KindName && p.peekAt(1).IsSymbol("="):
		f := &Field{Kind: FieldNamed, Name: p.advance(), Assign: p.advance()}

		var err *Error
		if f.Value, err = p.parseValue(); err != nil {
			return nil, err
		}

		return f, nil
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return &Field{Kind: FieldPositional, Value: value}, nil
}

// parseValue parses the value of a field, up to the next separator or the
// end of the enclosing table.
func (p *parser) parseValue() (Expr, *Error) {
	items, err := p.parseRun(func(t *Token) bool {
		return t.IsSymbol(",") || t.IsSymbol(";") || t.IsSymbol("}")
	})
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrExpectedExpr.WithPosition(p.peek().Pos).
			With(slog.String("found", p.peek().Text))
	}

	return exprFromRun(items), nil
}

// exprFromRun structures a run of items as an expression.
//
// The lowest-precedence "or" outside any bracket splits first, then "and".
// A single literal token, a single table constructor and a prefix operator
// followed by a single operand are recognized; anything else is [*Raw].
func exprFromRun(items []Node) Expr {
	for _, op := range []string{"or", "and"} {
		i := lastOperator(items, op)
		if i > 0 && i < len(items)-1 {
			tok, _ := items[i].(*Token)

			return &Binary{
				X:  exprFromRun(items[:i]),
				Op: tok,
				Y:  exprFromRun(items[i+1:]),
			}
		}
	}

	if len(items) == 1 {
		switch item := items[0].(type) {
		case *Table:
			return item
		case *Token:
			if isLiteral(item) {
				return &Literal{Token: item}
			}
		}
	}

	if len(items) == 2 {
		if op, ok := items[0].(*Token); ok && isPrefix(op) {
			if x := exprFromRun(items[1:]); !isRaw(x) {
				return &Unary{Op: op, X: x}
			}
		}
	}

	return &Raw{Items: items}
}

// lastOperator returns the index of the last keyword op outside any
// bracket or block, or -1.
func lastOperator(items []Node, op string) int {
	depth := 0
	found := -1

	for i, item := range items {
		tok, ok := item.(*Token)
		if !ok {
			continue
		}

		switch {
		case isCloser(tok):
			depth--
		case depth == 0 && tok.IsKeyword(op):
			found = i
		default:
			if _, ok := opener(tok); ok {
				depth++
			}
		}
	}

	return found
}

func isLiteral(tok *Token) bool {
	switch tok.Kind {
	case KindNumber, KindString, KindName:
		return true
	case KindKeyword:
		return tok.Text == "nil" || tok.Text == "true" || tok.Text == "false"
	case KindSymbol:
		return tok.Text == "..."
	}

	return false
}

func isPrefix(tok *Token) bool {
	return tok.IsSymbol("-") || tok.IsSymbol("#") || tok.IsKeyword("not")
}

func isRaw(x Expr) bool {
	_, ok := x.(*Raw)

	return ok
}

func (p *parser) expect(text string) (*Token, *Error) {
	tok := p.peek()
	if !tok.IsSymbol(text) {
		return nil, ErrExpectedSymbol.WithPosition(tok.Pos).
			With(
				slog.String("want", text),
				slog.String("found", tok.Text),
			)
	}

	return p.advance(), nil
}

func (p *parser) peek() *Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) *Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos+n]
}

func (p *parser) advance() *Token {
	tok := p.peek()
	if tok.Kind != KindEOF {
		p.pos++
	}

	return tok
}

package lua

// Similar reports whether a and b have the same structure and token text.
//
// Trivia is ignored, and so are field separators: "{a, b,}" is similar to
// "{ a; b }".
func Similar(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch a := a.(type) {
	case *Token:
		b, ok := b.(*Token)

		return ok && a.Kind == b.Kind && a.Text == b.Text

	case *Literal:
		b, ok := b.(*Literal)

		return ok && Similar(a.Token, b.Token)

	case *Unary:
		b, ok := b.(*Unary)

		return ok && Similar(a.Op, b.Op) && Similar(a.X, b.X)

	case *Binary:
		b, ok := b.(*Binary)

		return ok && Similar(a.X, b.X) && Similar(a.Op, b.Op) &&
			Similar(a.Y, b.Y)

	case *Raw:
		b, ok := b.(*Raw)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}

		for i := range a.Items {
			if !Similar(a.Items[i], b.Items[i]) {
				return false
			}
		}

		return true

	case *Table:
		b, ok := b.(*Table)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}

		for i := range a.Fields {
			if !similarField(a.Fields[i], b.Fields[i]) {
				return false
			}
		}

		return true

	case *Field:
		b, ok := b.(*Field)

		return ok && similarField(a, b)

	case *File:
		b, ok := b.(*File)

		return ok && Similar(a.Body, b.Body)
	}

	return false
}

func similarField(a, b *Field) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case FieldNamed:
		if !Similar(a.Name, b.Name) {
			return false
		}
	case FieldKeyed:
		if !Similar(a.Key, b.Key) {
			return false
		}
	}

	return Similar(a.Value, b.Value)
}

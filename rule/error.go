package rule

import "github.com/ardnew/protofix/pkg"

// Predefined errors (sentinel values).
var (
	ErrUnknownRule   = pkg.NewError("unknown rule")
	ErrDuplicateRule = pkg.NewError("duplicate rule")
	ErrPanic         = pkg.NewError("rule panicked")
	ErrSpec          = pkg.NewError("invalid rule definition")
	ErrFilter        = pkg.NewError("invalid filter")
	ErrAction        = pkg.NewError("invalid action")
	ErrReadSpec      = pkg.NewError("failed to read rules")
)

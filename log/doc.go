// Package log provides leveled, structured logging on top of [log/slog].
//
// A [Logger] is made once with functional options and never changes:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"))
//
// Methods take typed [slog.Attr] values instead of alternating keys and
// values:
//
//	logger.Info("fixed", slog.String("prototype", name))
//
// [Logger.With] returns a Logger that adds attributes to every message, and
// the zero Logger discards everything, so components can hold one without
// checking whether logging was configured.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug]; the rest match [slog]. Levels print
// in upper case, so trace messages show "TRACE" rather than "DEBUG-4".
//
// # Formats
//
// [FormatText] and [FormatJSON] use the [slog] handlers. With
// [WithPretty] they are replaced by colorized handlers styled with lipgloss;
// color is dropped when the output is not a terminal.
//
// # Package-level logger
//
// The functions [Info], [Warn] and friends log through a package-level
// Logger that writes to standard error. [Config] reconfigures it.
package log

package cmd

import "github.com/ardnew/protofix/pkg"

// Predefined errors (sentinel values).
var (
	ErrYAMLMarshal  = pkg.NewError("marshal YAML")
	ErrWriteConfig  = pkg.NewError("write configuration file")
	ErrFileExists   = pkg.NewError("file exists (use --force to overwrite)")
	ErrUnformatted  = pkg.NewError("files are not formatted")
	ErrUnknownKey   = pkg.NewError("unknown locale key")
	ErrRunFailed    = pkg.NewError("run failed")
	ErrWriteMetrics = pkg.NewError("write metrics")
)

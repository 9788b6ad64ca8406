// Package cli contains the command line interface for protofix.
//
// # Usage
//
//	protofix [flags] run [paths...]
//	protofix watch [paths...]
//	protofix fmt [-w|-c] [paths...]
//	protofix locale [-c category] [keys...]
//	protofix rules [--enable=...] [--rules=file.yaml]
//	protofix init
//
// run is the default command. A path may be a mod (a directory holding
// info.json), a directory of mods, any other directory, or a Lua file.
//
// # Configuration
//
// Flags are also read from config.yaml in the configuration directory
// ($XDG_CONFIG_HOME/protofix on Linux). Top-level keys set global flags
// and flags shared by every command; a key named after a command holds
// that command's flags:
//
//	log-level: debug
//	locale-root: [/opt/factorio/data, ~/.factorio/mods]
//	run:
//	  enable: [recipe, beam]
//	  keep-going: true
//
// protofix init writes the current global flags to that file. Locale
// directories are also read from PROTOFIX_LOCALE_PATH, a list separated
// like PATH.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Every log line of a process carries the same random run attribute.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o protofix .
//
// The build then accepts:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/protofix/pprof, one sub-directory per run)
package cli

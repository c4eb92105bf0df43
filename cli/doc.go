// Package cli contains the command line interface for 1ls.
//
// # Usage
//
// The default command evaluates an expression against the input documents:
//
//	1ls '.users.filter(x => x.age >= 18).map(x => x.name)' < users.json
//	1ls -i events.ndjson --no-slurp '.type'
//	1ls -i config.toml -o yaml '.server'
//
// Other commands list the shortcut and builtin tables, expand or shorten an
// expression, start the interactive shell, or write a configuration file.
//
// # Configuration
//
// Flag defaults may be set in config.yaml under the user configuration
// directory (for example ~/.config/1ls/config.yaml), or in config.json
// beside it. Keys are flag names; see [resolveYAML] for the YAML layout.
// Command-line flags override config values. The init command writes the
// current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp layout (timeonly, rfc3339, kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o 1ls .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default ~/.cache/1ls/pprof)
package cli

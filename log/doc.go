// Package log provides a simplified logging interface based on [log/slog].
//
// Loggers are configured once, at creation, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339"))
//
// Attributes are [slog.Attr] values only; there is no key/value pair form.
//
//	logger.With(slog.String("file", name)).Debug("decoded input")
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below [LevelDebug] and
// is rendered as "TRACE". The default level is [LevelWarn], so a command
// line tool stays quiet unless asked.
//
// # Output Formats
//
// [FormatText] writes one line per record. When pretty output is enabled
// (the default) the line is colorized with github.com/fatih/color, which
// honors NO_COLOR and disables itself when the output is not a terminal.
// [FormatJSON] writes one JSON object per record.
//
// # Package Functions
//
// [Trace], [Debug], [Info], [Warn] and [Error] log through the logger
// installed with [SetDefault].
package log

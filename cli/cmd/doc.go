// Package cmd implements the 1ls subcommands: running a query, listing
// shortcuts and builtins, expanding and shortening expressions, writing a
// default configuration file and starting the interactive shell.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)

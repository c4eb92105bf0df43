package render

//go:generate go tool stringer --linecomment --type Format --output format_string.go

import (
	"iter"
	"strings"
)

// Format identifies an output encoding.
type Format int

const (
	FormatJSON  Format = iota // json
	FormatYAML                // yaml
	FormatCSV                 // csv
	FormatTable               // table
	FormatRaw                 // raw
)

// Formats returns an iterator over all output format names.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for f := FormatJSON; f <= FormatRaw; f++ {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named s, case-insensitively, and whether
// the name was recognized.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "yml" {
		return FormatYAML, true
	}

	for f := FormatJSON; f <= FormatRaw; f++ {
		if f.String() == s {
			return f, true
		}
	}

	return FormatJSON, false
}

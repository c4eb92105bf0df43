package ingest

//go:generate go tool stringer --linecomment --type Format --output format_string.go

import (
	"bytes"
	"encoding/json"
	"iter"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Format identifies an input encoding.
type Format int

const (
	FormatAuto   Format = iota // auto
	FormatJSON                 // json
	FormatNDJSON               // ndjson
	FormatYAML                 // yaml
	FormatTOML                 // toml
	FormatINI                  // ini
	FormatXML                  // xml
	FormatCSV                  // csv
	FormatTSV                  // tsv
	FormatJSON5                // json5
	FormatEnv                  // env
	FormatScript               // script
	FormatLines                // lines
	FormatText                 // text
)

// Formats returns an iterator over all format names.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for f := FormatAuto; f <= FormatText; f++ {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named s, case-insensitively. Unknown names
// yield [FormatAuto].
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "yml":
		return FormatYAML
	case "jsonl":
		return FormatNDJSON
	case "js", "ts", "mjs", "cjs":
		return FormatScript
	case "dotenv":
		return FormatEnv
	case "txt":
		return FormatText
	}

	for f := FormatAuto; f <= FormatText; f++ {
		if f.String() == s {
			return f
		}
	}

	return FormatAuto
}

// extensions maps file name extensions to formats.
var extensions = map[string]Format{
	".json":   FormatJSON,
	".ndjson": FormatNDJSON,
	".jsonl":  FormatNDJSON,
	".yaml":   FormatYAML,
	".yml":    FormatYAML,
	".toml":   FormatTOML,
	".ini":    FormatINI,
	".cfg":    FormatINI,
	".conf":   FormatINI,
	".xml":    FormatXML,
	".csv":    FormatCSV,
	".tsv":    FormatTSV,
	".json5":  FormatJSON5,
	".env":    FormatEnv,
	".js":     FormatScript,
	".mjs":    FormatScript,
	".cjs":    FormatScript,
	".ts":     FormatScript,
	".txt":    FormatLines,
	".log":    FormatLines,
}

var (
	reSection = regexp.MustCompile(`(?m)^\s*\[[^\]\n]+\]\s*$`)
	reEnvLine = regexp.MustCompile(`^(export\s+)?[A-Za-z_][A-Za-z0-9_]*=`)
	reYAMLKey = regexp.MustCompile(`(?m)^\s*(-\s|[^\s:#-][^:\n]*:(\s|$))`)
	reScript  = regexp.MustCompile(`export\s+default|module\.exports\s*=`)
)

// Detect determines the format of data. The file name extension decides
// when it is known; otherwise the content is sniffed.
func Detect(name string, data []byte) Format {
	base := filepath.Base(name)
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return FormatEnv
	}

	if f, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}

	return sniff(data)
}

// sniff guesses the format from content alone.
func sniff(data []byte) Format {
	text := bytes.TrimSpace(data)
	if len(text) == 0 {
		return FormatText
	}

	switch text[0] {
	case '{', '[':
		if json.Valid(text) {
			return FormatJSON
		}

		if allLines(text, json.Valid) {
			return FormatNDJSON
		}

		if reSection.Match(text) {
			return sniffSections(text)
		}

		return FormatJSON5
	case '<':
		return FormatXML
	}

	switch {
	case reScript.Match(text):
		return FormatScript
	case reSection.Match(text):
		return sniffSections(text)
	case allLines(text, func(line []byte) bool {
		return line[0] == '#' || reEnvLine.Match(line)
	}):
		return FormatEnv
	case bytes.HasPrefix(text, []byte("---")) || reYAMLKey.Match(text):
		return FormatYAML
	case delimited(text, '\t'):
		return FormatTSV
	case delimited(text, ','):
		return FormatCSV
	}

	return FormatLines
}

// sniffSections tells TOML from INI. Both use [section] headers; TOML is
// stricter, so anything it accepts is TOML.
func sniffSections(text []byte) Format {
	var v map[string]any
	if _, err := toml.Decode(string(text), &v); err == nil {
		return FormatTOML
	}

	return FormatINI
}

// allLines reports whether every non-blank line satisfies ok.
func allLines(text []byte, ok func([]byte) bool) bool {
	for line := range bytes.Lines(text) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 && !ok(line) {
			return false
		}
	}

	return true
}

// delimited reports whether text looks like a table: at least two lines
// with the same nonzero number of sep characters.
func delimited(text []byte, sep byte) bool {
	want, lines := -1, 0

	for line := range bytes.Lines(text) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		n := bytes.Count(line, []byte{sep})
		if n == 0 || (want >= 0 && n != want) {
			return false
		}

		want = n
		lines++
	}

	return lines >= 2
}

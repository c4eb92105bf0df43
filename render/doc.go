// Package render writes query results in a chosen output format.
//
// JSON is the default. It is indented unless [Options.Compact] is set and
// may be colorized with github.com/fatih/color. YAML keeps object member
// order through github.com/goccy/go-yaml. CSV and table output lay lists
// of objects out as rows, with the union of member names as the header;
// tables are drawn with github.com/charmbracelet/lipgloss/table.
//
// Raw output prints strings without quotes and lists one element per line,
// which suits piping results into other tools.
package render

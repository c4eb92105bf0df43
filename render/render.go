package render

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/onels/lang/value"
	"github.com/ardnew/onels/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrFormat = pkg.NewError("unsupported output format")
	ErrEncode = pkg.NewError("failed to encode output")
	ErrWrite  = pkg.NewError("failed to write output")
)

// DefaultIndent is the indent width used when [Options.Indent] is zero.
const DefaultIndent = 2

// Options controls how a value is written.
type Options struct {
	Format  Format
	Indent  int  // spaces per level; 0 means DefaultIndent
	Compact bool // single-line JSON
	Color   bool // ANSI colors regardless of the terminal
	Raw     bool // strings unquoted, lists one element per line
}

func (o Options) indent() string {
	if o.Compact {
		return ""
	}

	n := o.Indent
	if n <= 0 {
		n = DefaultIndent
	}

	return strings.Repeat(" ", n)
}

// Write encodes v to w. Non-empty output ends with a newline.
func Write(w io.Writer, v value.Value, opts Options) error {
	var (
		buf bytes.Buffer
		err error
	)

	switch opts.Format {
	case FormatJSON:
		if opts.Raw {
			writeRaw(&buf, v, opts)
		} else {
			writeJSON(&buf, v, opts)
		}
	case FormatRaw:
		writeRaw(&buf, v, opts)
	case FormatYAML:
		err = writeYAML(&buf, v, opts)
	case FormatCSV:
		err = writeCSV(&buf, v)
	case FormatTable:
		writeTable(&buf, v, opts)
	default:
		return ErrFormat.With(slog.String("format", opts.Format.String()))
	}

	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", opts.Format.String()))
	}

	if _, err := buf.WriteTo(w); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// String renders v with opts and returns the text without its trailing
// newline.
func String(v value.Value, opts Options) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, v, opts); err != nil {
		return "", err
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// writeRaw prints a string as is and a list one element per line. Other
// values, and list elements that are not strings, are written as JSON.
// Undefined writes nothing.
func writeRaw(buf *bytes.Buffer, v value.Value, opts Options) {
	switch v.Kind() {
	case value.KindUndefined, value.KindOmit:
		return
	case value.KindString:
		s, _ := v.AsString()
		buf.WriteString(s)
		buf.WriteByte('\n')
	case value.KindList:
		elems, _ := v.AsList()
		line := opts
		line.Compact = true

		for _, e := range elems {
			if s, ok := e.AsString(); ok {
				buf.WriteString(s)
				buf.WriteByte('\n')
			} else {
				writeJSON(buf, e, line)
			}
		}
	default:
		writeJSON(buf, v, opts)
	}
}

package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"

	"github.com/ardnew/onels/lang/value"
)

// yamlNative converts v into values go-yaml encodes in order: objects
// become MapSlice, integral numbers int64.
func yamlNative(v value.Value) any {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()

		return b
	case value.KindNumber:
		n, _ := v.AsNumber()
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}

		return n
	case value.KindString:
		s, _ := v.AsString()

		return s
	case value.KindList:
		elems, _ := v.AsList()
		out := make([]any, len(elems))

		for i, e := range elems {
			out[i] = yamlNative(e)
		}

		return out
	case value.KindObject:
		obj, _ := v.AsObject()
		out := make(yaml.MapSlice, 0, obj.Len())

		for k, e := range obj.All() {
			switch e.Kind() {
			case value.KindUndefined, value.KindFunc, value.KindOmit:
				continue
			}

			out = append(out, yaml.MapItem{Key: k, Value: yamlNative(e)})
		}

		return out
	default:
		return nil
	}
}

func writeYAML(buf *bytes.Buffer, v value.Value, opts Options) error {
	n := opts.Indent
	if n <= 0 {
		n = DefaultIndent
	}

	out, err := yaml.MarshalWithOptions(yamlNative(v),
		yaml.Indent(n),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return err
	}

	if opts.Color {
		out = highlightYAML(out)
	}

	buf.Write(bytes.TrimRight(out, "\n"))
	buf.WriteByte('\n')

	return nil
}

func ansi(attrs ...color.Attribute) func() *printer.Property {
	return func() *printer.Property {
		var seq bytes.Buffer

		for _, a := range attrs {
			fmt.Fprintf(&seq, "\x1b[%dm", a)
		}

		return &printer.Property{
			Prefix: seq.String(),
			Suffix: fmt.Sprintf("\x1b[%dm", color.Reset),
		}
	}
}

// highlightYAML colors encoded YAML with the same scheme as JSON output.
func highlightYAML(src []byte) []byte {
	p := printer.Printer{
		MapKey: ansi(color.FgBlue, color.Bold),
		String: ansi(color.FgGreen),
		Number: ansi(color.FgCyan),
		Bool:   ansi(color.FgYellow),
		Anchor: ansi(color.FgMagenta),
		Alias:  ansi(color.FgMagenta),
	}

	return []byte(p.PrintTokens(lexer.Tokenize(string(src))))
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/fatih/color"

	"github.com/ardnew/onels/ingest"
	"github.com/ardnew/onels/lang"
	"github.com/ardnew/onels/lang/value"
	"github.com/ardnew/onels/log"
	"github.com/ardnew/onels/render"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Query evaluates an expression against the input documents and writes the
// result.
type Query struct {
	Expr string `arg:"" optional:"" help:"Expression to evaluate (empty selects the whole input)"`

	Output  string `help:"Output format (${outputFormats})" short:"o" default:"json" enum:"${outputFormats}"`
	Indent  int    `help:"Indentation width"                                  default:"2"`
	Compact bool   `help:"Write JSON on a single line"        short:"c"`
	Raw     bool   `help:"Write strings unquoted and lists one element per line" short:"r"`
	Strict  bool   `help:"Fail on reading a property that does not exist"       short:"s"`
	Color   string `help:"Colorize output (auto, always, never)" default:"auto" enum:"auto,always,never"`
	Slurp   bool   `help:"Query each NDJSON record or text line as one list (--no-slurp queries them one at a time)" default:"true" negatable:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := ioFrom(ctx)
	logger := log.Default()

	prog, err := lang.Compile(q.Expr)
	if err != nil {
		return ErrCompile.Wrap(err).With(slog.String("expr", q.Expr))
	}

	logger.DebugContext(ctx, "compiled expression",
		slog.String("expr", prog.Source()),
		slog.String("expanded", prog.Expanded()),
	)

	format, ok := render.ParseFormat(q.Output)
	if !ok {
		return ErrOutputFormat.With(slog.String("format", q.Output))
	}

	docs, err := inputFrom(ctx).load(ctx, streams.In, logger)
	if err != nil {
		return err
	}

	opts := render.Options{
		Format:  format,
		Indent:  q.Indent,
		Compact: q.Compact,
		Color:   q.colorize(streams.Out),
		Raw:     q.Raw,
	}

	run := []lang.Option{
		lang.WithStrict(q.Strict),
		lang.WithDebug(debugSink(streams.Err, logger)),
	}

	for _, in := range q.inputs(docs) {
		start := time.Now()

		out, err := prog.Run(in, run...)
		if err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("expr", q.Expr))
		}

		logger.TraceContext(ctx, "evaluated expression",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("kind", value.TypeName(out)),
		)

		if err := render.Write(streams.Out, out, opts); err != nil {
			return err
		}
	}

	return nil
}

// inputs returns the values the expression runs against. Documents are
// always merged into one value; without slurping, each record of a
// line-oriented document is instead queried on its own, and the merged
// structured documents keep the position of the first of them.
func (q *Query) inputs(docs []document) []value.Value {
	if q.Slurp || len(docs) == 0 {
		return []value.Value{merge(docs)}
	}

	var (
		out   []value.Value
		whole []document
		at    = -1
	)

	for _, d := range docs {
		switch d.Format {
		case ingest.FormatNDJSON, ingest.FormatLines:
			elems, _ := d.Value.AsList()
			out = append(out, elems...)
		default:
			if at < 0 {
				at = len(out)
			}

			whole = append(whole, d)
		}
	}

	if at >= 0 {
		out = slices.Insert(out, at, merge(whole))
	}

	return out
}

// colorize resolves --color against the output stream. Automatic color is
// enabled only when writing to a terminal stdout.
func (q *Query) colorize(w io.Writer) bool {
	switch q.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	return w == io.Writer(os.Stdout) && !color.NoColor
}

// debugSink writes values passed through the debug builtin to w as compact
// JSON lines prefixed with their label.
func debugSink(w io.Writer, logger log.Logger) func(string, value.Value) {
	return func(label string, v value.Value) {
		text := string(value.JSON(v, ""))

		logger.Trace("debug", slog.String("label", label), slog.String("value", text))

		if label == "" {
			fmt.Fprintln(w, text)

			return
		}

		fmt.Fprintf(w, "%s: %s\n", label, text)
	}
}

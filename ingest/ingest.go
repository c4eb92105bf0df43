package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ardnew/onels/lang/value"
	"github.com/ardnew/onels/log"
	"github.com/ardnew/onels/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrFormat = pkg.NewError("unsupported format")
	ErrDecode = pkg.NewError("failed to decode input")
	ErrRead   = pkg.NewError("failed to read input")
)

// Option configures ingestion.
type Option func(*options)

type options struct {
	logger log.Logger
	name   string
}

// WithLogger sets the logger that receives decoding diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName sets the file name used for format detection and in errors.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

type decoder func(data []byte) (value.Value, error)

var decoders = map[Format]decoder{
	FormatJSON:   decodeJSON,
	FormatNDJSON: decodeNDJSON,
	FormatYAML:   decodeYAML,
	FormatTOML:   decodeTOML,
	FormatINI:    decodeINI,
	FormatXML:    decodeXML,
	FormatCSV:    decodeDelimited(','),
	FormatTSV:    decodeDelimited('\t'),
	FormatJSON5:  decodeJSON5,
	FormatEnv:    decodeEnv,
	FormatScript: decodeScript,
	FormatLines:  decodeLines,
	FormatText:   decodeText,
}

// Parse decodes data in the given format. [FormatAuto] detects the format
// first.
func Parse(data []byte, format Format, opts ...Option) (value.Value, error) {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.Background()

	if format == FormatAuto {
		format = Detect(o.name, data)

		o.logger.TraceContext(ctx, "detected format",
			slog.String("name", o.name),
			slog.String("format", format.String()),
		)
	}

	dec, ok := decoders[format]
	if !ok {
		return value.Undefined, ErrFormat.With(slog.String("format", format.String()))
	}

	start := time.Now()

	v, err := dec(data)
	if err != nil {
		return value.Undefined, ErrDecode.Wrap(err).With(
			slog.String("format", format.String()),
			slog.String("name", o.name),
		)
	}

	o.logger.DebugContext(ctx, "decoded input",
		slog.String("name", o.name),
		slog.String("format", format.String()),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return v, nil
}

// Read reads all of r and decodes it like [Parse].
func Read(r io.Reader, format Format, opts ...Option) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return value.Undefined, ErrRead.Wrap(err)
	}

	return Parse(data, format, opts...)
}

func decodeJSON(data []byte) (value.Value, error) {
	dec := value.NewDecoder(bytes.NewReader(data))

	var docs []value.Value

	for dec.More() {
		v, err := dec.Decode()
		if err != nil {
			return value.Undefined, err
		}

		docs = append(docs, v)
	}

	switch len(docs) {
	case 0:
		return value.Null, nil
	case 1:
		return docs[0], nil
	default:
		return value.List(docs...), nil
	}
}

func decodeNDJSON(data []byte) (value.Value, error) {
	out := []value.Value{}
	n := 0

	for line := range bytes.Lines(data) {
		n++

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		v, err := value.ParseJSON(string(line))
		if err != nil {
			return value.Undefined, fmt.Errorf("line %d: %w", n, err)
		}

		out = append(out, v)
	}

	return value.List(out...), nil
}

func decodeLines(data []byte) (value.Value, error) {
	text := strings.TrimRight(string(data), "\r\n")
	if text == "" {
		return value.List(), nil
	}

	lines := strings.Split(text, "\n")
	out := make([]value.Value, len(lines))

	for i, l := range lines {
		out[i] = value.String(strings.TrimSuffix(l, "\r"))
	}

	return value.List(out...), nil
}

func decodeText(data []byte) (value.Value, error) {
	return value.String(string(data)), nil
}

var errEmpty = errors.New("no content")

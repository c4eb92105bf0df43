package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/onels/ingest"
	"github.com/ardnew/onels/lang/value"
	"github.com/ardnew/onels/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// varFrom returns the kong variable name, or "" when unavailable.
func varFrom(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// IO holds the streams a command reads and writes. Nil fields fall back to
// the process streams.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type ioKey struct{}

// WithIO returns a new context.Context carrying the command streams.
func WithIO(ctx context.Context, streams IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

func ioFrom(ctx context.Context) IO {
	streams, _ := ctx.Value(ioKey{}).(IO)

	if streams.In == nil {
		streams.In = os.Stdin
	}

	if streams.Out == nil {
		streams.Out = os.Stdout
	}

	if streams.Err == nil {
		streams.Err = os.Stderr
	}

	return streams
}

// Input names the documents a command queries.
type Input struct {
	Paths  []string
	Format ingest.Format
}

type inputKey struct{}

// WithInput returns a new context.Context carrying the input files and
// the format used to decode them. An empty path list reads stdin.
func WithInput(ctx context.Context, paths []string, format ingest.Format) context.Context {
	return context.WithValue(ctx, inputKey{}, Input{Paths: paths, Format: format})
}

func inputFrom(ctx context.Context) Input {
	in, _ := ctx.Value(inputKey{}).(Input)

	return in
}

// document is one decoded input.
type document struct {
	Name   string
	Format ingest.Format
	Value  value.Value
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// load reads and decodes every input. Without paths, stdin is read unless
// it is a terminal, in which case no documents are returned.
func (in Input) load(ctx context.Context, stdin io.Reader, logger log.Logger) ([]document, error) {
	paths := uniquePaths(in.Paths)

	if len(in.Paths) == 0 {
		if interactive(stdin) {
			logger.DebugContext(ctx, "no input: stdin is a terminal")

			return nil, nil
		}

		paths = []string{stdinSource}
	}

	docs := make([]document, 0, len(paths))

	for _, path := range paths {
		doc, err := in.decode(ctx, path, stdin, logger)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func (in Input) decode(
	ctx context.Context,
	path string,
	stdin io.Reader,
	logger log.Logger,
) (document, error) {
	var (
		data []byte
		err  error
		name = path
	)

	if path == stdinSource {
		name = ""
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return document{}, ErrReadInput.Wrap(err).With(slog.String("file", path))
	}

	format := in.Format
	if format == ingest.FormatAuto {
		format = ingest.Detect(name, data)
	}

	logger.DebugContext(ctx, "reading input",
		slog.String("file", path),
		slog.String("format", format.String()),
		slog.Int("bytes", len(data)),
	)

	v, err := ingest.Parse(data, format, ingest.WithName(name), ingest.WithLogger(logger))
	if err != nil {
		return document{}, err
	}

	return document{Name: path, Format: format, Value: v}, nil
}

// merge combines documents into the single value a query runs against: the
// only document itself, a list of all of them, or null when there are none.
func merge(docs []document) value.Value {
	switch len(docs) {
	case 0:
		return value.Null
	case 1:
		return docs[0].Value
	}

	out := make([]value.Value, len(docs))
	for i, d := range docs {
		out[i] = d.Value
	}

	return value.List(out...)
}

// interactive reports whether r is a terminal.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths drops repeated references to the same file, comparing
// resolved device/inode pairs. All occurrences of "-" collapse into a
// single stdin entry placed last. Paths that cannot be resolved are kept
// so that reading them reports the error.
func uniquePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{})
	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			stdin = true

			continue
		}

		key, ok := pathKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, path)
	}

	if stdin {
		out = append(out, stdinSource)
	}

	return out
}

func pathKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

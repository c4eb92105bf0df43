package cmd

import (
	"context"
	"log/slog"
	"slices"

	"github.com/fatih/color"

	"github.com/ardnew/onels/cli/cmd/repl"
	"github.com/ardnew/onels/log"
	"github.com/ardnew/onels/render"
)

// Repl starts an interactive shell over the input documents.
type Repl struct {
	Strict bool `help:"Fail on reading a property that does not exist" short:"s"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default().With(slog.String("component", "repl"))

	// Stdin belongs to the terminal, so only named files are read.
	in := inputFrom(ctx)
	in.Paths = slices.DeleteFunc(slices.Clone(in.Paths), func(p string) bool {
		return p == stdinSource
	})

	var docs []document

	if len(in.Paths) > 0 {
		docs, err = in.load(ctx, nil, logger)
		if err != nil {
			return err
		}
	}

	return repl.Run(ctx, merge(docs), varFrom(ctx, CacheIdentifier), logger, repl.Options{
		Render: render.Options{Color: !color.NoColor},
		Strict: r.Strict,
	})
}

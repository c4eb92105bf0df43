package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/onels/lang/builtin"
	"github.com/ardnew/onels/lang/shortcut"
	"github.com/ardnew/onels/lang/value"
	"github.com/ardnew/onels/render"
)

// Shortcuts lists the abbreviated method and builtin names.
type Shortcuts struct {
	Category string `help:"Only list shortcuts in category (${shortcutCategories})" short:"C"`
	Output   string `help:"Output format (${outputFormats})" short:"o" default:"table" enum:"${outputFormats}"`
}

// Run executes the shortcuts command.
func (s *Shortcuts) Run(ctx context.Context) error {
	mappings := shortcut.All()

	if s.Category != "" {
		c, ok := shortcut.ParseCategory(s.Category)
		if !ok {
			return ErrCategory.With(slog.String("category", s.Category))
		}

		mappings = shortcut.ByCategory(c)
	}

	rows := make([]value.Value, len(mappings))

	for i, m := range mappings {
		rows[i] = value.FromObject(value.NewObject(4).
			Set("short", value.String(m.Short)).
			Set("full", value.String(m.Full)).
			Set("category", value.String(m.Category.String())).
			Set("description", value.String(m.Description)))
	}

	return writeList(ctx, s.Output, value.List(rows...))
}

// Builtins lists the builtin functions.
type Builtins struct {
	Group  string `help:"Only list builtins in group (list, object, misc, path, control)" short:"g"`
	Output string `help:"Output format (${outputFormats})" short:"o" default:"table" enum:"${outputFormats}"`
}

// Run executes the builtins command.
func (b *Builtins) Run(ctx context.Context) error {
	var rows []value.Value

	for _, d := range builtin.Docs() {
		if b.Group != "" && !strings.EqualFold(b.Group, string(d.Group)) {
			continue
		}

		rows = append(rows, value.FromObject(value.NewObject(4).
			Set("name", value.String(d.Name)).
			Set("usage", value.String(d.Usage)).
			Set("group", value.String(string(d.Group))).
			Set("description", value.String(d.Description))))
	}

	return writeList(ctx, b.Output, value.List(rows...))
}

func writeList(ctx context.Context, output string, v value.Value) error {
	format, ok := render.ParseFormat(output)
	if !ok {
		return ErrOutputFormat.With(slog.String("format", output))
	}

	return render.Write(ioFrom(ctx).Out, v, render.Options{Format: format})
}

// Expand prints an expression with every shortcut replaced by its full form.
type Expand struct {
	Expr string `arg:"" help:"Expression to expand"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(ioFrom(ctx).Out, shortcut.Expand(e.Expr))

	return err
}

// Shorten prints an expression with every full form replaced by its
// shortcut.
type Shorten struct {
	Expr string `arg:"" help:"Expression to shorten"`
}

// Run executes the shorten command.
func (s *Shorten) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(ioFrom(ctx).Out, shortcut.Shorten(s.Expr))

	return err
}

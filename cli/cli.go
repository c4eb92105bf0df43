package cli

import (
	"context"
	"iter"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/onels/cli/cmd"
	"github.com/ardnew/onels/ingest"
	"github.com/ardnew/onels/lang/shortcut"
	"github.com/ardnew/onels/pkg"
	"github.com/ardnew/onels/render"
)

// CLI is the top-level command-line interface for 1ls.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Input  []string `help:"Input file(s) or '-' for stdin" name:"input"  short:"i" type:"existingfile"`
	Format string   `help:"Input format (${inputFormats})" name:"format" short:"t" default:"auto" enum:"${inputFormats}"`

	Query     cmd.Query     `cmd:"" default:"withargs" help:"Evaluate an expression against the input"`
	Repl      cmd.Repl      `cmd:""                    help:"Explore the input interactively"`
	Shortcuts cmd.Shortcuts `cmd:""                    help:"List expression shortcuts"`
	Builtins  cmd.Builtins  `cmd:""                    help:"List builtin functions"`
	Expand    cmd.Expand    `cmd:""                    help:"Expand the shortcuts in an expression"`
	Shorten   cmd.Shorten   `cmd:""                    help:"Abbreviate an expression with shortcuts"`
	Init      cmd.Init      `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the 1ls CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// terminates early (for example after --help).
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version(),
		"inputFormats":       join(ingest.Formats()),
		"outputFormats":      join(render.Formats()),
		"shortcutCategories": categories(),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags apply before parsing so that parse errors honor them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, strings.TrimSuffix(configFilePath, ".yaml")+".json"),
		kong.Configuration(resolveYAML(ctx, configFilePath), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithInput(ctx, cli.Input, ingest.ParseFormat(cli.Format))

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode was selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}

func join(seq iter.Seq[string]) string {
	return strings.Join(slices.Collect(seq), ",")
}

func categories() string {
	names := make([]string, 0, len(shortcut.Categories()))
	for _, c := range shortcut.Categories() {
		names = append(names, c.String())
	}

	return strings.Join(names, ", ")
}

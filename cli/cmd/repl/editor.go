package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/onels/lang"
	"github.com/ardnew/onels/log"
)

const defaultEditor = "vi"

// editExprCommand hands the terminal to an external editor until the buffer
// holds an expression that compiles, the user empties it, or the user gives
// up. It satisfies [tea.ExecCommand].
type editExprCommand struct {
	expr    string
	ctxFunc func() context.Context
	logger  log.Logger

	stdin          io.Reader
	stdout, stderr io.Writer

	// edited is the accepted expression; empty when the buffer was cleared.
	edited string
}

func (c *editExprCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editExprCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editExprCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run returns [ErrEditDeclined] when the user refuses another attempt after
// a compile error.
func (c *editExprCommand) Run() error {
	ctx := c.ctxFunc()

	buf, err := newScratch(c.expr)
	if err != nil {
		return err
	}
	defer buf.discard()

	answers := bufio.NewScanner(c.stdin)

	for attempt := 1; ; attempt++ {
		if err := c.launch(ctx, buf.path); err != nil {
			return err
		}

		text, err := buf.read()
		if err != nil {
			return err
		}

		expr := joinLines(text)
		if expr == "" {
			return nil
		}

		_, cerr := lang.Compile(expr)
		c.logger.TraceContext(ctx, "edited expression",
			slog.Int("attempt", attempt),
			slog.Int("bytes", len(text)),
			slog.Bool("compiled", cerr == nil),
		)

		if cerr == nil {
			c.edited = expr

			return nil
		}

		fmt.Fprintf(c.stderr, "\nCompile error: %s\n", cerr)

		if !confirm(answers, c.stdout, "Re-edit? [Y/n] ") {
			return ErrEditDeclined
		}
	}
}

// launch runs $VISUAL or $EDITOR on path with the terminal attached.
func (c *editExprCommand) launch(ctx context.Context, path string) error {
	argv := editorCommand()

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	return cmd.Run()
}

// editorCommand splits the configured editor into argv, so values such as
// "code --wait" work.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if argv := strings.Fields(os.Getenv(env)); len(argv) > 0 {
			return argv
		}
	}

	return []string{defaultEditor}
}

// confirm prompts on w and reads one answer from s. Anything except an
// explicit no counts as yes; a closed input counts as no.
func confirm(s *bufio.Scanner, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)

	if !s.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(s.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// scratch is the private temp file the editor works on. The previous
// attempt's text stays in it between launches.
type scratch struct{ path string }

func newScratch(content string) (scratch, error) {
	f, err := os.CreateTemp("", "1ls-repl-*.txt")
	if err != nil {
		return scratch{}, err
	}

	s := scratch{path: f.Name()}

	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		s.discard()

		return scratch{}, err
	}

	return s, nil
}

func (s scratch) read() (string, error) {
	data, err := os.ReadFile(s.path)

	return string(data), err
}

func (s scratch) discard() { _ = os.Remove(s.path) }

// joinLines folds an edited expression onto a single input line.
func joinLines(s string) string {
	var parts []string

	for line := range strings.Lines(s) {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, " ")
}

package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Output  string   `name:"output" default:"json"`
	Indent  int      `name:"indent" default:"2"`
	Compact bool     `name:"compact"`
	Input   []string `name:"input"`
	Secret  string   `name:"secret" hidden:""`

	Init Init `cmd:""`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), kctx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: true\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: true\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			ctx := initContext(t, confPath)

			err := (&Init{Force: tt.force}).Run(ctx)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v got %v", tt.wantErr, err)
				}

				if !errors.Is(err, ErrWriteConfig) {
					t.Errorf("expected error %v got %v", ErrWriteConfig, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var conf map[string]any
			if err := yaml.Unmarshal(content, &conf); err != nil {
				t.Errorf("generated config is not valid YAML: %v", err)
			}

			if _, ok := conf["existing"]; ok {
				t.Error("expected existing config to be overwritten")
			}
		})
	}
}

// TestInitSettings tests that current flag values are written by name.
func TestInitSettings(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "config.yaml")
	ctx := initContext(t, confPath,
		"--output=yaml", "--compact", "--input=a.json", "--input=b.json", "--secret=x")

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatalf("Init.Run() unexpected error = %v", err)
	}

	content, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	output := string(content)

	if !strings.HasPrefix(output, "output: yaml\nindent: 2\ncompact: true\n") {
		t.Errorf("expected flags in declaration order, got:\n%s", output)
	}

	var conf struct {
		Output  string   `yaml:"output"`
		Indent  int      `yaml:"indent"`
		Compact bool     `yaml:"compact"`
		Input   []string `yaml:"input"`
	}

	if err := yaml.Unmarshal(content, &conf); err != nil {
		t.Fatalf("generated config is not valid YAML: %v", err)
	}

	if conf.Output != "yaml" || conf.Indent != 2 || !conf.Compact {
		t.Errorf("unexpected settings %+v", conf)
	}

	if len(conf.Input) != 2 || conf.Input[0] != "a.json" || conf.Input[1] != "b.json" {
		t.Errorf("expected input [a.json b.json] got %v", conf.Input)
	}

	for _, absent := range []string{"secret", "help", "force"} {
		if strings.Contains(output, absent) {
			t.Errorf("unexpected %q in config:\n%s", absent, output)
		}
	}
}

// TestInitWithInvalidPath tests init with an invalid file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	ctx := initContext(t, "/nonexistent/directory/config.yaml")

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("expected error %v got %v", ErrWriteConfig, err)
	}
}

type stringer string

func (s stringer) String() string { return "<" + string(s) + ">" }

// TestInitFlagValue tests the flagValue conversion for different types.
func TestInitFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool_true", true, true},
		{"bool_false", false, false},
		{"int_value", 42, 42},
		{"float_value", 3.14, 3.14},
		{"string_value", "test", "test"},
		{"empty_string", "", nil},
		{"empty_slice", []string{}, nil},
		{"stringer", stringer("x"), "<x>"},
		{"int_slice", []int{1, 2, 3}, "[1 2 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := flagValue(tt.in); got != tt.want {
				t.Errorf("expected %#v got %#v", tt.want, got)
			}
		})
	}

	got, ok := flagValue([]string{"a", "b"}).([]string)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected string slice passthrough, got %#v", got)
	}
}

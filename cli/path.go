package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/onels/pkg"
)

// baseConfig is the base name of the YAML configuration file. The JSON
// configuration file, if any, shares the name with a ".json" suffix.
const baseConfig = "config.yaml"

var defaultDirMode os.FileMode = 0o700

var basePrefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d+$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^go_build_`), ""},             // GoLand run configurations
	{regexp.MustCompile(`^\.+`), ""},                   // hidden executables
}

// basePrefix returns the name of the directory holding 1ls configuration
// and cache files: the executable base name with its extension removed and
// [basePrefixRules] applied. An empty result falls back to [pkg.Name].
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		for _, rule := range basePrefixRules {
			id = rule.rex.ReplaceAllString(id, rule.rep)
		}

		if id == "" {
			return pkg.Name
		}

		return id
	},
)

// userDir joins [basePrefix] to the directory returned by base, falling
// back to fallback under the home directory, then to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir holds transient files such as the REPL history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return ErrRuntimeDir.Wrap(err).With(slog.String("dir", dir))
		}
	}

	return nil
}

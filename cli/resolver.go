package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/onels/log"
)

// resolveYAML returns a [kong.ConfigurationLoader] for YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML(ctx, path), path)
//
// Keys are flag names. Nested mappings are joined to their parent key with
// a hyphen, so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Sequences set repeatable
// flags such as --input. A file that fails to decode is reported at warn
// level and ignored, leaving every flag at its default.
//
// Command-line flags override config file values.
func resolveYAML(ctx context.Context, path string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc yaml.MapSlice

		if err := yaml.NewDecoder(r, yaml.UseOrderedMap()).Decode(&doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring configuration file",
					slog.Any("error", ErrConfig.Wrap(err).With(slog.String("file", path))),
				)
			}

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

func (c config) flatten(prefix string, doc yaml.MapSlice) {
	for _, item := range doc {
		key := strings.ReplaceAll(fmt.Sprint(item.Key), "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := item.Value.(yaml.MapSlice); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = flagText(item.Value)
	}
}

// flagText converts a decoded YAML value to the form kong decodes flags
// from: scalars as strings, sequences element-wise.
func flagText(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string, bool:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagText(e)
		}

		return out
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[strings.ReplaceAll(flag.Name, "_", "-")]; ok {
		return v, nil
	}

	return nil, nil
}

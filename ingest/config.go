package ingest

import (
	"bytes"
	"maps"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	"github.com/ardnew/onels/lang/value"
)

// decodeINI maps keys of the unnamed section to top-level members and every
// named section to a nested object.
func decodeINI(data []byte) (value.Value, error) {
	f, err := ini.Load(data)
	if err != nil {
		return value.Undefined, err
	}

	root := value.NewObject()

	for _, sec := range f.Sections() {
		target := root
		if sec.Name() != ini.DefaultSection {
			target = value.NewObject(len(sec.Keys()))
		}

		for _, k := range sec.Keys() {
			target.Set(k.Name(), scalar(k.String()))
		}

		if target != root {
			root.Set(sec.Name(), value.FromObject(target))
		}
	}

	return value.FromObject(root), nil
}

// decodeEnv reads KEY=value lines. Members keep the order of the file.
func decodeEnv(data []byte) (value.Value, error) {
	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return value.Undefined, err
	}

	var keys []string

	for line := range bytes.Lines(data) {
		s := strings.TrimSpace(string(line))
		s = strings.TrimSpace(strings.TrimPrefix(s, "export "))

		key, _, ok := strings.Cut(s, "=")
		if !ok {
			key, _, ok = strings.Cut(s, ":")
		}

		key = strings.TrimSpace(key)

		if _, found := env[key]; ok && found && !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}

	for _, k := range slices.Sorted(maps.Keys(env)) {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}

	obj := value.NewObject(len(keys))
	for _, k := range keys {
		obj.Set(k, scalar(env[k]))
	}

	return value.FromObject(obj), nil
}

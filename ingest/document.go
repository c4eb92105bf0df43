package ingest

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/onels/lang/value"
)

// decodeYAML keeps mapping order. A stream of several documents becomes a
// list of them.
func decodeYAML(data []byte) (value.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.UseOrderedMap())

	var docs []value.Value

	for {
		var doc any

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return value.Undefined, err
		}

		docs = append(docs, yamlValue(doc))
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

func yamlValue(v any) value.Value {
	switch t := v.(type) {
	case yaml.MapSlice:
		obj := value.NewObject(len(t))
		for _, item := range t {
			obj.Set(fmt.Sprint(item.Key), yamlValue(item.Value))
		}

		return value.FromObject(obj)
	case []any:
		out := make([]value.Value, len(t))
		for i, e := range t {
			out[i] = yamlValue(e)
		}

		return value.List(out...)
	default:
		return value.FromNative(t)
	}
}

// decodeTOML orders table members the way the document lists them.
func decodeTOML(data []byte) (value.Value, error) {
	var doc map[string]any

	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return value.Undefined, err
	}

	rank := make(map[string]int)
	for i, key := range md.Keys() {
		path := strings.Join(key, "\x00")
		if _, ok := rank[path]; !ok {
			rank[path] = i
		}
	}

	return tomlValue(doc, nil, rank), nil
}

func tomlValue(v any, path []string, rank map[string]int) value.Value {
	switch t := v.(type) {
	case map[string]any:
		order := func(k string) int {
			if r, ok := rank[strings.Join(append(slices.Clone(path), k), "\x00")]; ok {
				return r
			}

			return math.MaxInt
		}

		keys := slices.SortedFunc(maps.Keys(t), func(a, b string) int {
			return cmp.Or(cmp.Compare(order(a), order(b)), cmp.Compare(a, b))
		})

		obj := value.NewObject(len(keys))
		for _, k := range keys {
			obj.Set(k, tomlValue(t[k], append(slices.Clone(path), k), rank))
		}

		return value.FromObject(obj)
	case []map[string]any:
		out := make([]value.Value, len(t))
		for i, e := range t {
			out[i] = tomlValue(e, path, rank)
		}

		return value.List(out...)
	case []any:
		out := make([]value.Value, len(t))
		for i, e := range t {
			out[i] = tomlValue(e, path, rank)
		}

		return value.List(out...)
	default:
		return value.FromNative(t)
	}
}

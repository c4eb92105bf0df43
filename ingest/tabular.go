package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ardnew/onels/lang/value"
)

var reNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

// scalar types an untyped text cell. Empty cells and "null" are null,
// true and false are booleans, decimal numbers without leading zeros are
// numbers; everything else stays a string.
func scalar(s string) value.Value {
	switch strings.TrimSpace(s) {
	case "", "null":
		return value.Null
	case "true":
		return value.True
	case "false":
		return value.False
	}

	if t := strings.TrimSpace(s); reNumber.MatchString(t) {
		if n, err := strconv.ParseFloat(t, 64); err == nil {
			return value.Number(n)
		}
	}

	return value.String(s)
}

// decodeDelimited reads a table whose first row names the columns. Each
// following row becomes an object. Short rows omit their missing columns.
func decodeDelimited(sep rune) decoder {
	return func(data []byte) (value.Value, error) {
		r := csv.NewReader(bytes.NewReader(data))
		r.Comma = sep
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.TrimLeadingSpace = true

		header, err := r.Read()
		if errors.Is(err, io.EOF) {
			return value.List(), nil
		}

		if err != nil {
			return value.Undefined, err
		}

		header = uniqueColumns(header)
		out := []value.Value{}

		for {
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				break
			}

			if err != nil {
				return value.Undefined, err
			}

			obj := value.NewObject(len(header))

			for i, name := range header {
				if i < len(row) {
					obj.Set(name, scalar(row[i]))
				}
			}

			out = append(out, value.FromObject(obj))
		}

		return value.List(out...), nil
	}
}

// uniqueColumns names blank columns by position and suffixes repeated
// names so no cell is lost.
func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = "column" + strconv.Itoa(i+1)
		}

		if n := seen[h]; n > 0 {
			seen[h]++
			h += "_" + strconv.Itoa(n+1)
		} else {
			seen[h] = 1
		}

		out[i] = h
	}

	return out
}

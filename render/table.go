package render

import (
	"bytes"
	"encoding/csv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/ardnew/onels/lang/value"
)

// tabulate lays v out as rows of text cells.
//
//   - a list of objects: one row per object, columns are the union of keys
//     in first-seen order
//   - a list of lists: one row per inner list, no header
//   - any other list: a single "value" column
//   - an object: "key" and "value" columns
//   - a scalar: a single cell under "value"
func tabulate(v value.Value) (header []string, rows [][]string) {
	switch v.Kind() {
	case value.KindList:
		elems, _ := v.AsList()
		if len(elems) == 0 {
			return nil, nil
		}

		switch {
		case all(elems, value.KindObject):
			return objectRows(elems)
		case all(elems, value.KindList):
			for _, e := range elems {
				inner, _ := e.AsList()
				row := make([]string, len(inner))

				for i, c := range inner {
					row[i] = cell(c)
				}

				rows = append(rows, row)
			}

			return nil, rows
		default:
			for _, e := range elems {
				rows = append(rows, []string{cell(e)})
			}

			return []string{"value"}, rows
		}
	case value.KindObject:
		obj, _ := v.AsObject()
		for k, e := range obj.All() {
			rows = append(rows, []string{k, cell(e)})
		}

		return []string{"key", "value"}, rows
	case value.KindUndefined, value.KindOmit:
		return nil, nil
	default:
		return []string{"value"}, [][]string{{cell(v)}}
	}
}

func all(elems []value.Value, k value.Kind) bool {
	for _, e := range elems {
		if !e.Is(k) {
			return false
		}
	}

	return true
}

func objectRows(elems []value.Value) (header []string, rows [][]string) {
	column := make(map[string]int)

	for _, e := range elems {
		obj, _ := e.AsObject()
		for _, k := range obj.Keys() {
			if _, ok := column[k]; !ok {
				column[k] = len(header)
				header = append(header, k)
			}
		}
	}

	for _, e := range elems {
		obj, _ := e.AsObject()
		row := make([]string, len(header))

		for k, c := range obj.All() {
			row[column[k]] = cell(c)
		}

		rows = append(rows, row)
	}

	return header, rows
}

// cell formats a value for a single table cell. Strings are unquoted,
// nullish values are empty and containers are compact JSON.
func cell(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()

		return s
	case value.KindUndefined, value.KindNull, value.KindOmit:
		return ""
	case value.KindList, value.KindObject:
		return string(value.JSON(v, ""))
	default:
		return value.ToString(v)
	}
}

func writeCSV(buf *bytes.Buffer, v value.Value) error {
	header, rows := tabulate(v)

	w := csv.NewWriter(buf)

	if header != nil {
		if err := w.Write(header); err != nil {
			return err
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return err
	}

	return w.Error()
}

func writeTable(buf *bytes.Buffer, v value.Value, opts Options) {
	header, rows := tabulate(v)
	if header == nil && rows == nil {
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(header...).
		Rows(rows...)

	if opts.Color {
		r := lipgloss.NewRenderer(buf)
		r.SetColorProfile(termenv.ANSI256)

		headerStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
		cellStyle := r.NewStyle().Padding(0, 1)

		t = t.BorderStyle(r.NewStyle().Foreground(lipgloss.Color("8"))).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}

				return cellStyle
			})
	} else {
		plain := lipgloss.NewStyle().Padding(0, 1)

		t = t.StyleFunc(func(int, int) lipgloss.Style { return plain })
	}

	buf.WriteString(t.String())
	buf.WriteByte('\n')
}

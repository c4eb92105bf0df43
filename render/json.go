package render

import (
	"bytes"

	"github.com/fatih/color"

	"github.com/ardnew/onels/lang/value"
)

// palette colors JSON tokens. A nil color writes the token plain.
type palette struct {
	key, str, num, lit, null *color.Color
}

func newPalette(enable bool) palette {
	if !enable {
		return palette{}
	}

	p := palette{
		key:  color.New(color.FgBlue, color.Bold),
		str:  color.New(color.FgGreen),
		num:  color.New(color.FgCyan),
		lit:  color.New(color.FgYellow),
		null: color.New(color.FgHiBlack),
	}

	for _, c := range []*color.Color{p.key, p.str, p.num, p.lit, p.null} {
		c.EnableColor()
	}

	return p
}

func paint(buf *bytes.Buffer, c *color.Color, token []byte) {
	if c == nil {
		buf.Write(token)

		return
	}

	buf.WriteString(c.Sprint(string(token)))
}

// writeJSON writes v followed by a newline. Without color the output is
// exactly [value.JSON].
func writeJSON(buf *bytes.Buffer, v value.Value, opts Options) {
	if !opts.Color {
		buf.Write(value.JSON(v, opts.indent()))
		buf.WriteByte('\n')

		return
	}

	enc := jsonEncoder{buf: buf, indent: opts.indent(), pal: newPalette(true)}
	enc.value(v, "")
	buf.WriteByte('\n')
}

type jsonEncoder struct {
	buf    *bytes.Buffer
	indent string
	pal    palette
}

func (e *jsonEncoder) newline(prefix string) {
	if e.indent == "" {
		return
	}

	e.buf.WriteByte('\n')
	e.buf.WriteString(prefix)
}

func (e *jsonEncoder) value(v value.Value, prefix string) {
	switch v.Kind() {
	case value.KindString:
		paint(e.buf, e.pal.str, value.JSON(v, ""))
	case value.KindNumber:
		paint(e.buf, e.pal.num, value.JSON(v, ""))
	case value.KindBool:
		paint(e.buf, e.pal.lit, value.JSON(v, ""))
	case value.KindList:
		e.list(v, prefix)
	case value.KindObject:
		e.object(v, prefix)
	default:
		paint(e.buf, e.pal.null, []byte("null"))
	}
}

func (e *jsonEncoder) list(v value.Value, prefix string) {
	elems, _ := v.AsList()
	if len(elems) == 0 {
		e.buf.WriteString("[]")

		return
	}

	inner := prefix + e.indent

	e.buf.WriteByte('[')

	for i, el := range elems {
		if i > 0 {
			e.buf.WriteByte(',')
		}

		e.newline(inner)
		e.value(el, inner)
	}

	e.newline(prefix)
	e.buf.WriteByte(']')
}

func (e *jsonEncoder) object(v value.Value, prefix string) {
	obj, _ := v.AsObject()
	inner := prefix + e.indent
	count := 0

	e.buf.WriteByte('{')

	for k, el := range obj.All() {
		switch el.Kind() {
		case value.KindUndefined, value.KindFunc, value.KindOmit:
			continue
		}

		if count > 0 {
			e.buf.WriteByte(',')
		}

		e.newline(inner)
		paint(e.buf, e.pal.key, value.JSON(value.String(k), ""))
		e.buf.WriteByte(':')

		if e.indent != "" {
			e.buf.WriteByte(' ')
		}

		e.value(el, inner)

		count++
	}

	if count > 0 {
		e.newline(prefix)
	}

	e.buf.WriteByte('}')
}

package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
)

// MarshalJSON implements json.Marshaler. Object member order is preserved.
// Values with no JSON form (undefined, functions, omit) follow
// JSON.stringify: dropped from objects, null inside lists and at the top.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	appendJSON(&buf, v, "", "")

	return buf.Bytes(), nil
}

// JSON encodes v with the given indent unit. An empty indent produces
// compact output.
func JSON(v Value, indent string) []byte {
	var buf bytes.Buffer

	appendJSON(&buf, v, indent, "")

	return buf.Bytes()
}

// jsonless reports whether v has no JSON representation.
func jsonless(v Value) bool {
	switch v.kind {
	case KindUndefined, KindFunc, KindOmit:
		return true
	case KindNull, KindBool, KindNumber, KindString, KindList, KindObject:
		return false
	default:
		return true
	}
}

func appendJSON(buf *bytes.Buffer, v Value, indent, prefix string) {
	switch v.kind {
	case KindUndefined, KindNull, KindFunc, KindOmit:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(FormatNumber(v.n))
		}
	case KindString:
		appendQuoted(buf, v.s)
	case KindList:
		if len(v.list) == 0 {
			buf.WriteString("[]")

			return
		}

		inner := prefix + indent

		buf.WriteByte('[')

		for i, e := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}

			newline(buf, indent, inner)
			appendJSON(buf, e, indent, inner)
		}

		newline(buf, indent, prefix)
		buf.WriteByte(']')
	case KindObject:
		inner := prefix + indent
		count := 0

		buf.WriteByte('{')

		for k, e := range v.obj.All() {
			if jsonless(e) {
				continue
			}

			if count > 0 {
				buf.WriteByte(',')
			}

			newline(buf, indent, inner)
			appendQuoted(buf, k)
			buf.WriteByte(':')

			if indent != "" {
				buf.WriteByte(' ')
			}

			appendJSON(buf, e, indent, inner)

			count++
		}

		if count > 0 {
			newline(buf, indent, prefix)
		}

		buf.WriteByte('}')
	}
}

func newline(buf *bytes.Buffer, indent, prefix string) {
	if indent == "" {
		return
	}

	buf.WriteByte('\n')
	buf.WriteString(prefix)
}

func appendQuoted(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	// Encoding a string cannot fail.
	_ = enc.Encode(s)

	buf.Truncate(buf.Len() - 1) // trailing newline from Encode
}

// ErrJSONSyntax is returned when JSON input is malformed.
var ErrJSONSyntax = errors.New("invalid JSON")

// Decoder reads a stream of JSON values, preserving object member order.
type Decoder struct {
	dec *json.Decoder
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	return &Decoder{dec: dec}
}

// More reports whether another value is available.
func (d *Decoder) More() bool { return d.dec.More() }

// Decode reads the next value from the stream.
func (d *Decoder) Decode() (Value, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return Undefined, err
	}

	return d.value(tok)
}

func (d *Decoder) value(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(parseNumber(string(t))), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return d.list()
		case '{':
			return d.object()
		}
	}

	return Undefined, ErrJSONSyntax
}

func (d *Decoder) list() (Value, error) {
	elems := []Value{}

	for d.dec.More() {
		v, err := d.Decode()
		if err != nil {
			return Undefined, err
		}

		elems = append(elems, v)
	}

	// closing ']'
	if _, err := d.dec.Token(); err != nil {
		return Undefined, err
	}

	return List(elems...), nil
}

func (d *Decoder) object() (Value, error) {
	obj := NewObject()

	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return Undefined, err
		}

		key, ok := tok.(string)
		if !ok {
			return Undefined, ErrJSONSyntax
		}

		v, err := d.Decode()
		if err != nil {
			return Undefined, err
		}

		obj.Set(key, v)
	}

	// closing '}'
	if _, err := d.dec.Token(); err != nil {
		return Undefined, err
	}

	return FromObject(obj), nil
}

// ParseJSON decodes exactly one JSON value from s.
func ParseJSON(s string) (Value, error) {
	d := NewDecoder(strings.NewReader(s))

	v, err := d.Decode()
	if err != nil {
		return Undefined, err
	}

	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		return Undefined, ErrJSONSyntax
	}

	return v, nil
}

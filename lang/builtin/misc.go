package builtin

import (
	"math"

	"github.com/ardnew/onels/lang/value"
)

var miscDefs = []*Def{
	{Name: "type", Usage: "type()", Description: "Type name of the input", Impl: fnType},
	{Name: "not", Usage: "not()", Description: "Logical negation of the input", Impl: fnNot},
	{Name: "isEmpty", Usage: "isEmpty()", Description: "Whether the input is nullish or has no elements", Impl: fnIsEmpty},
	{Name: "isNil", Usage: "isNil()", Description: "Whether the input is null or undefined", Impl: fnIsNil},
	{Name: "default", Usage: "default(v)", Description: "The input, or v when the input is nullish", Impl: fnDefault},
	{Name: "tostring", Usage: "tostring()", Description: "Strings unchanged, everything else as JSON", Impl: fnToString},
	{Name: "tonumber", Usage: "tonumber()", Description: "Numeric value of the input", Impl: fnToNumber},
	{Name: "tojson", Usage: "tojson()", Description: "Compact JSON text of the input", Impl: fnToJSON},
	{Name: "fromjson", Usage: "fromjson()", Description: "Value parsed from JSON text", Impl: fnFromJSON},
}

func fnType(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return value.String(value.TypeName(in)), nil
}

func fnNot(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return value.Bool(!value.Truthy(in)), nil
}

func fnIsEmpty(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return value.Bool(in.IsNullish() || in.Len() == 0), nil
}

func fnIsNil(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return value.Bool(in.IsNullish()), nil
}

func fnDefault(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	if in.IsNullish() {
		return arg(args, 0), nil
	}

	return in, nil
}

func fnToString(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	switch in.Kind() {
	case value.KindString:
		return in, nil
	case value.KindList, value.KindObject:
		return value.String(string(value.JSON(in, ""))), nil
	case value.KindUndefined, value.KindNull, value.KindBool, value.KindNumber,
		value.KindFunc, value.KindOmit:
		return value.String(value.ToString(in)), nil
	default:
		return value.String(value.ToString(in)), nil
	}
}

// fnToNumber converts the input; values with no numeric form are
// undefined.
func fnToNumber(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	n := value.ToNumber(in)
	if math.IsNaN(n) {
		return value.Undefined, nil
	}

	return value.Number(n), nil
}

func fnToJSON(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return value.String(string(value.JSON(in, ""))), nil
}

func fnFromJSON(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	s, ok := in.AsString()
	if !ok {
		return value.Undefined, nil
	}

	v, err := value.ParseJSON(s)
	if err != nil {
		return value.Undefined, nil //nolint:nilerr
	}

	return v, nil
}

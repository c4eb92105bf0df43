package builtin

import (
	"github.com/ardnew/onels/lang/value"
)

var controlDefs = []*Def{
	{Name: "select", Usage: "select(f)", Description: "The input when f holds, otherwise no output", Impl: fnSelect},
	{Name: "empty", Usage: "empty()", Description: "No output", Impl: fnEmpty},
	{Name: "error", Usage: "error(msg?)", Description: "Abort evaluation with a message", Impl: fnError},
	{Name: "debug", Usage: "debug(label?)", Description: "Report the input to the debug sink and pass it on", Impl: fnDebug},
}

// fnSelect keeps the input when the predicate holds. The predicate is
// either a function of the input or an already evaluated condition.
func fnSelect(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	pred := arg(args, 0)

	var ok bool

	if fn, isFunc := pred.AsFunc(); isFunc {
		v, err := fn.Call(in)
		if err != nil {
			return value.Undefined, err
		}

		ok = value.Truthy(v)
	} else {
		ok = value.Truthy(pred)
	}

	if !ok {
		return value.Omit, nil
	}

	return in, nil
}

func fnEmpty(_ *Context, _ value.Value, _ []value.Value) (value.Value, error) {
	return value.Omit, nil
}

func fnError(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	msg := in
	if len(args) > 0 {
		msg = args[0]
	}

	text, ok := msg.AsString()
	if !ok {
		text = string(value.JSON(msg, ""))
	}

	return value.Undefined, &UserError{Message: text}
}

func fnDebug(ctx *Context, in value.Value, args []value.Value) (value.Value, error) {
	if ctx != nil && ctx.Debug != nil {
		label := "debug"
		if len(args) > 0 {
			label = value.ToString(args[0])
		}

		ctx.Debug(label, in)
	}

	return in, nil
}

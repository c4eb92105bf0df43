package lang

import "github.com/ardnew/onels/lang/value"

// Option configures an evaluation.
type Option func(*options)

type options struct {
	strict bool
	debug  func(label string, v value.Value)
}

// WithStrict makes reading a property that does not exist an
// [UndefinedPropertyError] instead of undefined.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithDebug sets the sink for values passed through the debug builtin.
// Without it those values are discarded.
func WithDebug(fn func(label string, v value.Value)) Option {
	return func(o *options) {
		o.debug = fn
	}
}

func applyOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

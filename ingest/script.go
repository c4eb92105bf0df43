package ingest

import (
	"regexp"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/onels/lang/value"
)

var reExport = regexp.MustCompile(`(?:export\s+default|module\.exports\s*=)\s*`)

// scriptEnv binds the JavaScript names expr does not know.
var scriptEnv = map[string]any{
	"null":      nil,
	"undefined": nil,
}

// decodeScript evaluates the literal a script module exports. Only the
// text after the export statement is read; a terminating semicolon is
// dropped. Without an export statement the whole file is the literal.
func decodeScript(data []byte) (value.Value, error) {
	src := string(data)

	if loc := reExport.FindStringIndex(src); loc != nil {
		src = src[loc[1]:]
	}

	src = strings.TrimSuffix(strings.TrimSpace(src), ";")
	if strings.TrimSpace(src) == "" {
		return value.Undefined, errEmpty
	}

	out, err := expr.Eval(src, scriptEnv)
	if err != nil {
		return value.Undefined, err
	}

	return value.FromNative(out), nil
}

package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // called name, including any receiver path (".users.map")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// isNameRune reports whether r may appear in a called name.
func isNameRune(r rune) bool {
	return r == '.' || r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// detectFunctionCall reports the call whose argument list encloses the
// cursor, if any, and which argument the cursor is in.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := openParen(input, cursor)
	if open < 0 {
		return functionCall{}
	}

	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isNameRune(r) {
			break
		}

		start -= size
	}

	name := strings.TrimSpace(input[start:open])
	if name == "" {
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: argIndex(input[open+1 : cursor]),
		inCall:   true,
	}
}

// argIndex counts the top-level commas in a partial argument list.
func argIndex(args string) int {
	n, depth := 0, 0

	for _, r := range args {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}

	return n
}

// openParen returns the byte offset of the unclosed '(' enclosing cursor,
// or -1.
func openParen(input string, cursor int) int {
	depth := 0

	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return i
			}

			depth--
		}
	}

	return -1
}

// getSignature returns the usage of the builtin called as funcName and its
// parameter names. Method calls on a receiver have no signature. Returns an
// empty string if the function is not a builtin.
func getSignature(funcName string) (signature string, params []string) {
	if strings.Contains(funcName, ".") {
		return "", nil
	}

	doc, ok := resolveBuiltin(funcName)
	if !ok {
		return "", nil
	}

	return doc.Usage, usageParams(doc.Usage)
}

// usageParams extracts the parameter names from a usage string of the form
// "name(a, b?)".
func usageParams(usage string) []string {
	open := strings.Index(usage, "(")
	closing := strings.LastIndex(usage, ")")

	if open == -1 || closing <= open {
		return nil
	}

	inner := strings.TrimSpace(usage[open+1 : closing])
	if inner == "" {
		return nil
	}

	params := strings.Split(inner, ",")
	for i, p := range params {
		params[i] = strings.TrimSpace(p)
	}

	return params
}

// isVariadic reports whether the usage parameter p accepts any number of
// arguments ("lists..." or "...").
func isVariadic(p string) bool {
	return strings.HasSuffix(p, "...") || strings.HasPrefix(p, "...")
}

// renderSignatureHint renders signature with the parameter for argument
// current emphasized. A variadic parameter stays emphasized for every later
// argument.
func renderSignatureHint(signature string, params []string, current int) string {
	if signature == "" {
		return ""
	}

	name, _, ok := strings.Cut(signature, "(")
	if !ok {
		return signatureStyle.Render(signature)
	}

	if len(params) == 0 {
		return signatureNameStyle.Render(name) + signatureStyle.Render("()")
	}

	rendered := make([]string, len(params))

	for i, p := range params {
		style := signatureStyle
		if current == i || (current > i && isVariadic(p)) {
			style = currentParamStyle
		}

		rendered[i] = style.Render(p)
	}

	return signatureNameStyle.Render(name) +
		signatureStyle.Render("(") +
		strings.Join(rendered, signatureSeparatorStyle.Render(", ")) +
		signatureStyle.Render(")")
}

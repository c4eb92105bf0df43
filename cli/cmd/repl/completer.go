package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/onels/lang"
	"github.com/ardnew/onels/lang/builtin"
	"github.com/ardnew/onels/lang/shortcut"
	"github.com/ardnew/onels/lang/value"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "keys", "edit", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace, the member-access dot, and the
// operator and punctuation characters of the expression language.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around the cursor and its byte offsets in
// input. The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	// Every boundary rune is a single byte.
	start = strings.LastIndexFunc(input[:cursor], isWordBoundary) + 1

	end = len(input)
	if i := strings.IndexFunc(input[cursor:], isWordBoundary); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// memberAccess reports whether the word starting at wordStart follows a
// member-access dot.
func memberAccess(input string, wordStart int) bool {
	return strings.HasSuffix(input[:wordStart], ".")
}

// parentPath returns the path expression leading up to the dot before the
// current word, considering only the contiguous member-access chain. For
// input ".a + .users[0].na" with the word "na", the parent path is
// ".users[0]". Bracketed index expressions are kept whole. Returns "" for
// top-level words and for members of the input itself.
func parentPath(input string, wordStart int) string {
	if !memberAccess(input, wordStart) {
		return ""
	}

	prefix := input[:wordStart-1]
	end := len(prefix)
	pos := end
	depth := 0

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])

		switch {
		case r == ']':
			depth++
		case r == '[':
			if depth == 0 {
				return strings.TrimSpace(prefix[pos:end])
			}

			depth--
		case depth > 0, r == '.', r == '?':
		case isWordBoundary(r):
			return strings.TrimSpace(prefix[pos:end])
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:end])
}

// memberCandidates returns the completions after a dot: the keys of the
// value the parent path selects, the native methods of its kind, and their
// shortcuts.
func memberCandidates(data value.Value, parent string) []string {
	v, err := lang.Evaluate(parent, data)
	if err != nil {
		return nil
	}

	var names []string

	if obj, ok := v.AsObject(); ok {
		names = append(names, obj.Keys()...)
	}

	methods := lang.Methods(v.Kind())
	names = append(names, methods...)

	for _, m := range shortcut.Methods() {
		if slices.Contains(methods, strings.TrimPrefix(m.Full, ".")) {
			names = append(names, strings.TrimPrefix(m.Short, "."))
		}
	}

	return names
}

// topLevelCandidates returns the builtin names and builtin shortcuts.
func topLevelCandidates() []string {
	names := builtin.Names()

	for _, m := range shortcut.Builtins() {
		names = append(names, m.Short)
	}

	return names
}

// computeMatches ranks the candidates for the word at the cursor, best
// first. An empty word yields no matches, except directly after a member
// dot where every member is listed for browsing.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	candidates, browse := m.completionCandidates(input, wordStart)

	switch {
	case len(candidates) == 0:
		return nil, nil, wordStart, wordEnd
	case word != "":
		return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
	case browse:
		return unranked(candidates), candidates, wordStart, wordEnd
	default:
		return nil, nil, wordStart, wordEnd
	}
}

// completionCandidates returns the names that may complete the word
// starting at wordStart, and whether they are listed even before anything
// is typed.
func (m model) completionCandidates(input string, wordStart int) ([]string, bool) {
	switch {
	case m.mode == modeCtrl:
		return ctrlCommands, false
	case memberAccess(input, wordStart):
		return memberCandidates(m.data, parentPath(input, wordStart)), true
	default:
		return topLevelCandidates(), false
	}
}

func unranked(candidates []string) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches
}

var (
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedMatchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
)

// renderCandidateBar lays the matches out on one line no wider than width,
// ending with "..." when some do not fit. The candidate at selected is
// highlighted while tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	more := sep + hintStyle.Render("...")
	parts := make([]string, 0, len(matches))
	used := 0

	for i, match := range matches {
		part := renderCandidate(match, tabActive && i == selected)

		w := lipgloss.Width(part)
		if i > 0 {
			w += len(sep)

			if used+w+lipgloss.Width(more) > width {
				return strings.Join(parts, sep) + more
			}
		}

		parts = append(parts, part)
		used += w
	}

	return strings.Join(parts, sep)
}

// renderCandidate renders a candidate with its fuzzy-matched runes
// emphasized. Functions get a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	plain, emphasis := suggestionStyle, matchStyle
	if selected {
		plain, emphasis = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	next := 0

	for i, r := range match.Str {
		style := plain

		if next < len(match.MatchedIndexes) && match.MatchedIndexes[next] == i {
			style = emphasis
			next++
		}

		b.WriteString(style.Render(string(r)))
	}

	if isFunction(match.Str) {
		b.WriteString(plain.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is a builtin or a builtin shortcut.
func isFunction(name string) bool {
	_, ok := resolveBuiltin(name)

	return ok
}

// resolveBuiltin returns the documentation of the builtin named name,
// following builtin-call shortcuts.
func resolveBuiltin(name string) (builtin.Doc, bool) {
	for _, m := range shortcut.Builtins() {
		if m.Short == name {
			name = m.Full

			break
		}
	}

	docs := builtin.Docs()

	i := slices.IndexFunc(docs, func(d builtin.Doc) bool { return d.Name == name })
	if i < 0 {
		return builtin.Doc{}, false
	}

	return docs[i], true
}

// formatPreview generates a short preview of a value.
func formatPreview(v value.Value, limit int) string {
	return truncate(string(value.JSON(v, "")), limit)
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	if limit > 3 && utf8.RuneCountInString(s) > limit {
		r := []rune(s)

		return string(r[:limit-3]) + "..."
	}

	return s
}

package shortcut

//go:generate go tool stringer --linecomment --type Category --output category_string.go

import (
	"cmp"
	"slices"
	"strings"
)

// Category groups shortcuts for display.
type Category uint8

const (
	CategoryArray   Category = iota // array
	CategoryObject                  // object
	CategoryString                  // string
	CategoryOther                   // other
	CategoryBuiltin                 // builtin
)

// ParseCategory returns the category named s.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(s)

	for _, c := range Categories() {
		if c.String() == s {
			return c, true
		}
	}

	return 0, false
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryArray, CategoryObject, CategoryString, CategoryOther, CategoryBuiltin,
	}
}

// Mapping pairs an abbreviated form with the canonical text it stands for.
//
// Method shortcuts include the leading dot (".mp" for ".map"). Builtin-call
// shortcuts are bare names and only apply directly before an argument list
// ("hd()" for "head()").
type Mapping struct {
	Short       string
	Full        string
	Description string
	Category    Category
}

var methods = []Mapping{
	{".mp", ".map", "Transform each element", CategoryArray},
	{".flt", ".filter", "Keep elements matching a predicate", CategoryArray},
	{".rd", ".reduce", "Fold elements into a single value", CategoryArray},
	{".fnd", ".find", "First element matching a predicate", CategoryArray},
	{".fndIdx", ".findIndex", "Index of the first matching element", CategoryArray},
	{".sm", ".some", "Whether any element matches", CategoryArray},
	{".evr", ".every", "Whether all elements match", CategoryArray},
	{".srt", ".sort", "Sort elements", CategoryArray},
	{".rvs", ".reverse", "Reverse element order", CategoryArray},
	{".jn", ".join", "Join elements into a string", CategoryArray},
	{".slc", ".slice", "Extract a range of elements", CategoryArray},
	{".incl", ".includes", "Whether a value is present", CategoryArray},
	{".idx", ".indexOf", "Index of a value", CategoryArray},
	{".fltMap", ".flatMap", "Map then flatten one level", CategoryArray},
	{".psh", ".push", "Append elements", CategoryArray},
	{".pp", ".pop", "Remove the last element", CategoryArray},
	{".shft", ".shift", "Remove the first element", CategoryArray},
	{".unshft", ".unshift", "Prepend elements", CategoryArray},

	{".kys", ".{keys}", "Object keys", CategoryObject},
	{".vls", ".{values}", "Object values", CategoryObject},
	{".ents", ".{entries}", "Object entries as [key, value] pairs", CategoryObject},
	{".len", ".{length}", "Element or key count", CategoryObject},

	{".lc", ".toLowerCase", "Convert to lower case", CategoryString},
	{".uc", ".toUpperCase", "Convert to upper case", CategoryString},
	{".trm", ".trim", "Strip surrounding whitespace", CategoryString},
	{".trmS", ".trimStart", "Strip leading whitespace", CategoryString},
	{".trmE", ".trimEnd", "Strip trailing whitespace", CategoryString},
	{".splt", ".split", "Split into substrings", CategoryString},
	{".rpl", ".replace", "Replace the first occurrence", CategoryString},
	{".rplAll", ".replaceAll", "Replace every occurrence", CategoryString},
	{".pdS", ".padStart", "Pad at the start", CategoryString},
	{".pdE", ".padEnd", "Pad at the end", CategoryString},
	{".stw", ".startsWith", "Whether the string has a prefix", CategoryString},
	{".edw", ".endsWith", "Whether the string has a suffix", CategoryString},
	{".sbs", ".substring", "Extract a substring", CategoryString},
	{".chr", ".charAt", "Character at an index", CategoryString},
	{".cc", ".concat", "Concatenate values", CategoryString},
	{".rpt", ".repeat", "Repeat the string", CategoryString},

	{".tStr", ".toString", "Convert to a string", CategoryOther},
	{".tFix", ".toFixed", "Format a number with fixed decimals", CategoryOther},
}

var builtins = []Mapping{
	{"hd", "head", "First element", CategoryBuiltin},
	{"lst", "last", "Last element", CategoryBuiltin},
	{"tl", "tail", "All but the first element", CategoryBuiltin},
	{"tk", "take", "First n elements", CategoryBuiltin},
	{"drp", "drop", "All but the first n elements", CategoryBuiltin},
	{"unq", "uniq", "Remove duplicates", CategoryBuiltin},
	{"unqBy", "uniqBy", "Remove duplicates by key", CategoryBuiltin},
	{"fltn", "flatten", "Flatten nested lists", CategoryBuiltin},
	{"chnk", "chunk", "Split into fixed-size groups", CategoryBuiltin},
	{"cmpct", "compact", "Remove falsy elements", CategoryBuiltin},
	{"plk", "pluck", "Collect a member from each element", CategoryBuiltin},
	{"grpBy", "groupBy", "Group elements by key", CategoryBuiltin},
	{"cntBy", "countBy", "Count elements by key", CategoryBuiltin},
	{"srtBy", "sortBy", "Stable sort by key", CategoryBuiltin},
	{"prtn", "partition", "Split by predicate", CategoryBuiltin},
	{"avg", "mean", "Arithmetic mean", CategoryBuiltin},
	{"mrg", "merge", "Shallow merge objects", CategoryBuiltin},
	{"dpMrg", "deepMerge", "Recursive merge objects", CategoryBuiltin},
	{"frPrs", "fromPairs", "Object from [key, value] pairs", CategoryBuiltin},
	{"toPrs", "toPairs", "Object to [key, value] pairs", CategoryBuiltin},
	{"gp", "getpath", "Read the value at a path", CategoryBuiltin},
	{"sp", "setpath", "Copy with the value at a path replaced", CategoryBuiltin},
	{"sel", "select", "Keep the input when a predicate holds", CategoryBuiltin},
	{"rng", "range", "Arithmetic sequence", CategoryBuiltin},
}

// Lookup tables, built once and never modified.
var (
	methodExpand   = index(methods, func(m Mapping) (string, string) { return m.Short, m.Full })
	methodShorten  = index(methods, func(m Mapping) (string, string) { return m.Full, m.Short })
	builtinExpand  = index(builtins, func(m Mapping) (string, string) { return m.Short, m.Full })
	builtinShorten = index(builtins, func(m Mapping) (string, string) { return m.Full, m.Short })
)

func index(ms []Mapping, kv func(Mapping) (string, string)) map[string]string {
	out := make(map[string]string, len(ms))

	for _, m := range ms {
		k, v := kv(m)
		out[k] = v
	}

	return out
}

// byLength orders mappings longest full form first, then by short form.
func byLength(a, b Mapping) int {
	if c := cmp.Compare(len(b.Full), len(a.Full)); c != 0 {
		return c
	}

	return cmp.Compare(a.Short, b.Short)
}

// Methods returns the method and object-operation shortcuts, longest full
// form first.
func Methods() []Mapping {
	out := slices.Clone(methods)
	slices.SortStableFunc(out, byLength)

	return out
}

// Builtins returns the builtin-call shortcuts, longest full form first.
func Builtins() []Mapping {
	out := slices.Clone(builtins)
	slices.SortStableFunc(out, byLength)

	return out
}

// All returns every shortcut grouped by category in display order.
func All() []Mapping {
	out := make([]Mapping, 0, len(methods)+len(builtins))
	out = append(out, methods...)
	out = append(out, builtins...)

	slices.SortStableFunc(out, func(a, b Mapping) int {
		return cmp.Compare(a.Category, b.Category)
	})

	return out
}

// ByCategory returns the shortcuts in category c.
func ByCategory(c Category) []Mapping {
	var out []Mapping

	for _, m := range All() {
		if m.Category == c {
			out = append(out, m)
		}
	}

	return out
}

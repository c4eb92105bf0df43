package shortcut

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "implicit comparison",
			input: ".filter(.age > 30)",
			want:  ".filter(x => x.age > 30)",
		},
		{
			name:  "implicit logical",
			input: ".filter(.active && .verified)",
			want:  ".filter(x => x.active && x.verified)",
		},
		{
			name:  "method shortcuts",
			input: ".flt(x => x.age > 25).mp(x => x.name)",
			want:  ".filter(x => x.age > 25).map(x => x.name)",
		},
		{
			name:  "shortcut with implicit argument",
			input: ".mp(.name)",
			want:  ".map(x => x.name)",
		},
		{
			name:  "object operation",
			input: ".users.kys",
			want:  ".users.{keys}",
		},
		{
			name:  "length",
			input: ".len",
			want:  ".{length}",
		},
		{
			name:  "builtin call",
			input: "hd()",
			want:  "head()",
		},
		{
			name:  "builtin call as method",
			input: ".items.srtBy(.price)",
			want:  ".items.sortBy(x => x.price)",
		},
		{
			name:  "builtin name without call",
			input: ".hd",
			want:  ".hd",
		},
		{
			name:  "no substring match",
			input: ".template.mpx",
			want:  ".template.mpx",
		},
		{
			name:  "string literal untouched",
			input: `.name == ".mp(.a)"`,
			want:  `.name == ".mp(.a)"`,
		},
		{
			name:  "operand before bare property",
			input: ".filter(5 < .age)",
			want:  ".filter(x => 5 < x.age)",
		},
		{
			name:  "negated property",
			input: ".filter(!.done)",
			want:  ".filter(x => !x.done)",
		},
		{
			name:  "grouped properties",
			input: ".filter((.a + .b) > 2)",
			want:  ".filter(x => (x.a + x.b) > 2)",
		},
		{
			name:  "nested callbacks",
			input: ".map(.tags.filter(.active))",
			want:  ".map(x => x.tags.filter(x => x.active))",
		},
		{
			name:  "member chain keeps receiver",
			input: ".map(.a.b)",
			want:  ".map(x => x.a.b)",
		},
		{
			name:  "pipe arguments untouched",
			input: "pipe(.a, .b)",
			want:  "pipe(.a, .b)",
		},
		{
			name:  "grouping untouched",
			input: "(.a + .b) * 2",
			want:  "(.a + .b) * 2",
		},
		{
			name:  "arithmetic only untouched",
			input: ".map(1 + .a)",
			want:  ".map(1 + .a)",
		},
		{
			name:  "existing arrow untouched",
			input: ".filter(u => u.age > 30)",
			want:  ".filter(u => u.age > 30)",
		},
		{
			name:  "coalesce fallback",
			input: `.map(.name ?? "none")`,
			want:  `.map(x => x.name ?? "none")`,
		},
		{
			name:  "parameter name taken",
			input: ".filter(x.a > 1 || .b)",
			want:  ".filter(y => x.a > 1 || y.b)",
		},
		{
			name:  "parameter names taken",
			input: ".map(.a + x + y + z == x1)",
			want:  ".map(x2 => x2.a + x + y + z == x1)",
		},
		{
			name:  "member named like parameter",
			input: ".filter(.x > 1)",
			want:  ".filter(x => x.x > 1)",
		},
		{
			name:  "unclosed call",
			input: ".filter(.a",
			want:  ".filter(x => x.a",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "implicit contraction",
			input: ".filter(x => x.age > 30)",
			want:  ".flt(.age > 30)",
		},
		{
			name:  "logical contraction",
			input: ".filter(x => x.active && x.verified)",
			want:  ".flt(.active && .verified)",
		},
		{
			name:  "parameter used bare",
			input: ".map(x => x * 2)",
			want:  ".mp(x => x * 2)",
		},
		{
			name:  "body that would not re-expand",
			input: ".map(x => 1 + x.a)",
			want:  ".mp(x => 1 + x.a)",
		},
		{
			name:  "other identifier in body",
			input: ".filter(x => x.a > limit)",
			want:  ".flt(x => x.a > limit)",
		},
		{
			name:  "keyword in body",
			input: ".filter(x => x.a === true)",
			want:  ".flt(.a === true)",
		},
		{
			name:  "object operation",
			input: ".users.{keys}",
			want:  ".users.kys",
		},
		{
			name:  "builtin call",
			input: `getpath(["a"])`,
			want:  `gp(["a"])`,
		},
		{
			name:  "two parameters",
			input: ".reduce((acc, x) => acc + x, 0)",
			want:  ".rd((acc, x) => acc + x, 0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shorten(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRoundTrip_Table(t *testing.T) {
	for _, m := range Methods() {
		t.Run(m.Short, func(t *testing.T) {
			if got := Shorten(Expand(m.Short)); got != m.Short {
				t.Errorf("shorten(expand(%q)): expected %q, got %q", m.Short, m.Short, got)
			}

			if got := Expand(Shorten(m.Full)); got != m.Full {
				t.Errorf("expand(shorten(%q)): expected %q, got %q", m.Full, m.Full, got)
			}
		})
	}

	for _, m := range Builtins() {
		t.Run(m.Short, func(t *testing.T) {
			short, full := m.Short+"()", m.Full+"()"

			if got := Shorten(Expand(short)); got != short {
				t.Errorf("shorten(expand(%q)): expected %q, got %q", short, short, got)
			}

			if got := Expand(Shorten(full)); got != full {
				t.Errorf("expand(shorten(%q)): expected %q, got %q", full, full, got)
			}
		})
	}
}

func TestRoundTrip_Expressions(t *testing.T) {
	shorts := []string{
		".flt(.age > 30).mp(.name)",
		".users.kys.len",
		".items.srtBy(.price).tk(3)",
		`.name.lc.stw("a")`,
		".mp(x => x * 2).rd((a, b) => a + b, 0)",
	}

	for _, s := range shorts {
		t.Run(s, func(t *testing.T) {
			if got := Shorten(Expand(s)); got != s {
				t.Errorf("expected %q, got %q", s, got)
			}
		})
	}

	fulls := []string{
		".filter(x => x.age > 30).map(x => x.name)",
		".items.sortBy(x => x.price).take(3)",
		".map(x => x.tags.filter(x => x.active))",
	}

	for _, f := range fulls {
		t.Run(f, func(t *testing.T) {
			if got := Expand(Shorten(f)); got != f {
				t.Errorf("expected %q, got %q", f, got)
			}
		})
	}
}

func TestExpand_Idempotent(t *testing.T) {
	inputs := []string{
		".filter(.age > 30)",
		".map(.tags.filter(.active && .x))",
		".flt(.a).mp(.b).srt()",
		"hd().kys",
		`.a.rpl("x", "y")`,
		".filter((.a + .b) > 2)",
		".filter(.a",
		".filter(x.a > 1 || .b)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := Expand(input)
			if twice := Expand(once); twice != once {
				t.Errorf("expected %q, got %q", once, twice)
			}
		})
	}
}

func TestExpand_DeepNesting(t *testing.T) {
	const depth = 20000

	// An empty want only checks that expansion finishes and is stable.
	tests := []struct {
		name, input, want string
	}{
		{
			name:  "unclosed calls",
			input: strings.Repeat(".map(", depth),
			want:  strings.Repeat(".map(", depth),
		},
		{
			name:  "unclosed implicit calls",
			input: strings.Repeat(".filter(.a > 1", depth),
		},
		{
			name:  "nested implicit",
			input: strings.Repeat(".filter(.a > 1 && ", depth) + "true" + strings.Repeat(")", depth),
			want: ".filter(x => x.a > 1 && " +
				strings.Repeat("x.filter(x => x.a > 1 && ", depth-1) + "true" + strings.Repeat(")", depth),
		},
		{
			name:  "nested groups",
			input: ".filter(" + strings.Repeat("(", depth) + ".a" + strings.Repeat(")", depth) + " > 1)",
			want:  ".filter(x => " + strings.Repeat("(", depth) + "x.a" + strings.Repeat(")", depth) + " > 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan [2]string, 1)

			go func() {
				once := Expand(tt.input)
				done <- [2]string{once, Expand(once)}
			}()

			select {
			case got := <-done:
				if tt.want != "" && got[0] != tt.want {
					t.Errorf("expected %d bytes, got %d bytes", len(tt.want), len(got[0]))
				}

				if got[1] != got[0] {
					t.Error("expected a second expansion to change nothing")
				}
			case <-time.After(5 * time.Second):
				t.Fatal("expansion did not finish")
			}
		})
	}
}

func TestTables_Disjoint(t *testing.T) {
	shorts := map[string]string{}
	fulls := map[string]string{}

	for _, m := range All() {
		short := strings.TrimPrefix(m.Short, ".")
		full := strings.TrimPrefix(m.Full, ".")

		if prev, ok := shorts[short]; ok {
			t.Errorf("short form %q used by %q and %q", short, prev, m.Full)
		}

		if prev, ok := fulls[full]; ok {
			t.Errorf("full form %q used by %q and %q", full, prev, m.Short)
		}

		shorts[short] = m.Full
		fulls[full] = m.Short
	}

	for short := range shorts {
		if _, ok := fulls[short]; ok {
			t.Errorf("short form %q is also a full form", short)
		}
	}
}

func TestCategories(t *testing.T) {
	total := 0

	for _, c := range Categories() {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Errorf("ParseCategory(%q): expected %v, got %v", c.String(), c, got)
		}

		total += len(ByCategory(c))
	}

	if total != len(All()) {
		t.Errorf("expected %d categorized shortcuts, got %d", len(All()), total)
	}

	if _, ok := ParseCategory("bogus"); ok {
		t.Error("expected bogus category to be rejected")
	}
}

func FuzzExpand(f *testing.F) {
	f.Add(".filter(.age > 30)")
	f.Add(".mp(.a.flt(.b))")
	f.Add(`"unterminated .mp(`)
	f.Add("((((")
	f.Add(").flt(")
	f.Add(".flt(x.a > 1 || .b)")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		once := Expand(input)
		if twice := Expand(once); twice != once {
			t.Errorf("expand is not idempotent on %q: %q then %q", input, once, twice)
		}
	})
}

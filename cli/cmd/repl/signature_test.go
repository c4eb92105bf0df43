package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no function call", ".users", 6, "", 0, false},
		{"first arg", "take(", 5, "take", 0, true},
		{"first arg with value", "take(1", 6, "take", 0, true},
		{"second arg", "pick(.a,", 8, "pick", 1, true},
		{"method call", ".users.map(x", 12, ".users.map", 0, true},
		{"nested call inner", "pipe(take(1", 11, "take", 0, true},
		{"nested call outer", "pipe(take(1), ", 14, "pipe", 1, true},
		{"array argument", `pick(["a", "b"], `, 17, "pick", 1, true},
		{"closed call", "take(1)", 7, "", 0, false},
		{"grouping paren", ".a + (", 6, "", 0, false},
		{"cursor past end", "drop(", 50, "drop", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.inCall != tt.wantInCall {
				t.Fatalf("expected inCall %v got %v", tt.wantInCall, got.inCall)
			}

			if got.name != tt.wantName {
				t.Errorf("expected name %q got %q", tt.wantName, got.name)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("expected argIndex %d got %d", tt.wantIndex, got.argIndex)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name          string
		funcName      string
		wantSignature string
		wantParams    []string
	}{
		{"no params", "head", "head()", nil},
		{"one param", "take", "take(n)", []string{"n"}},
		{"optional param", "flatten", "flatten(depth?)", []string{"depth?"}},
		{"variadic", "zip", "zip(lists...)", []string{"lists..."}},
		{"shortcut", "hd", "head()", nil},
		{"evaluator builtin", "pipe", "pipe(f, g, ...)", []string{"f", "g", "..."}},
		{"method", ".users.map", "", nil},
		{"unknown", "nope", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSig, gotParams := getSignature(tt.funcName)

			if gotSig != tt.wantSignature {
				t.Errorf("expected signature %q got %q", tt.wantSignature, gotSig)
			}

			if !slices.Equal(gotParams, tt.wantParams) {
				t.Errorf("expected params %q got %q", tt.wantParams, gotParams)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		params    []string
		argIndex  int
		contains  []string
	}{
		{"empty", "", nil, 0, nil},
		{"no params", "head()", nil, 0, []string{"head", "()"}},
		{"first param", "pick(keys)", []string{"keys"}, 0, []string{"pick", "keys"}},
		{"variadic", "zip(lists...)", []string{"lists..."}, 3, []string{"zip", "lists..."}},
		{"no paren", "oops", nil, 0, []string{"oops"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.signature, tt.params, tt.argIndex)

			if tt.signature == "" && got != "" {
				t.Errorf("expected empty hint, got %q", got)
			}

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in hint %q", want, got)
				}
			}
		})
	}
}

func TestIsVariadic(t *testing.T) {
	for p, want := range map[string]bool{
		"lists...": true,
		"...":      true,
		"...rest":  true,
		"n":        false,
		"depth?":   false,
	} {
		if got := isVariadic(p); got != want {
			t.Errorf("isVariadic(%q): expected %v got %v", p, want, got)
		}
	}
}

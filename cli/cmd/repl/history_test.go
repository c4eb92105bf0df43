package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{".users", modeEval},
		{"keys", modeCtrl},
		{".users", modeEval}, // repeat of last eval is moved, file rewritten
		{".users", modeEval}, // consecutive duplicate is skipped
		{"  ", modeEval},    // blank is ignored
		{".title", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []HistoryEntry{
		{"keys", modeCtrl},
		{".users", modeEval},
		{".title", modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "C:keys\nE:.users\nE:.title\n" {
		t.Errorf("unexpected history file %q", got)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, loaded.Entries()); diff != "" {
		t.Errorf("loaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_LoadUnprefixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte(".a\n\nC:quit\nE:.b\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{
		{".a", modeEval},
		{"quit", modeCtrl},
		{".b", modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Missing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "none", baseHistory))

	if err := h.Load(); err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("expected empty history, got %d", h.Len())
	}

	if _, err := h.At(0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestHistory_Bounded(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	var b strings.Builder
	for i := range maxHistory + 5 {
		fmt.Fprintf(&b, "E:.n%d\n", i)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != maxHistory {
		t.Fatalf("expected %d entries, got %d", maxHistory, h.Len())
	}

	if e, _ := h.At(0); e.Line != ".n5" {
		t.Errorf("expected oldest entry .n5, got %q", e.Line)
	}

	if err := h.Add(".next", modeEval); err != nil {
		t.Fatal(err)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(h.Entries(), reloaded.Entries()); diff != "" {
		t.Errorf("file out of sync with memory (-mem +file):\n%s", diff)
	}

	if e, _ := reloaded.At(0); e.Line != ".n6" {
		t.Errorf("expected oldest entry .n6 after overflow, got %q", e.Line)
	}
}

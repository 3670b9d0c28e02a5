package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestNewHistoryDefault(t *testing.T) {
	h := NewHistory(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("expected default max %d, got %d", DefaultMaxEntries, h.MaxEntries())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("new history should be empty")
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(10)

	h.Push("Insert", "")
	// buffer is now "hi"

	snap, err := h.Undo("hi")
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if snap.Text != "" {
		t.Errorf("undo text = %q, want empty", snap.Text)
	}
	if !h.CanRedo() {
		t.Fatal("redo should be available after undo")
	}

	snap, err = h.Redo("")
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if snap.Text != "hi" {
		t.Errorf("redo text = %q, want %q", snap.Text, "hi")
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts after redo: undo=%d redo=%d", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryEmptyErrors(t *testing.T) {
	h := NewHistory(10)

	if _, err := h.Undo("x"); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if _, err := h.Redo("x"); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestHistoryPushClearsRedo(t *testing.T) {
	h := NewHistory(10)
	h.Push("a", "")
	h.Push("b", "a")
	if _, err := h.Undo("ab"); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo")
	}

	h.Push("c", "a")
	if h.CanRedo() {
		t.Error("push should clear redo stack")
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Push(fmt.Sprintf("edit %d", i), fmt.Sprintf("text %d", i))
	}

	if h.UndoCount() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.UndoCount())
	}

	var got []string
	for h.CanUndo() {
		snap, err := h.Undo("current")
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, snap.Description)
	}
	want := []string{"edit 4", "edit 3", "edit 2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("retained entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryRedoRespectsBound(t *testing.T) {
	h := NewHistory(2)
	h.Push("a", "0")
	h.Push("b", "1")
	if _, err := h.Undo("2"); err != nil {
		t.Fatal(err)
	}
	h.SetMaxEntries(1)
	if _, err := h.Redo("1"); err != nil {
		t.Fatal(err)
	}
	if h.UndoCount() != 1 {
		t.Errorf("undo stack exceeded bound: %d", h.UndoCount())
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(10)
	h.Push("a", "")
	h.Push("b", "a")
	if _, err := h.Undo("ab"); err != nil {
		t.Fatal(err)
	}
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("clear should empty both stacks")
	}
}

func TestHistoryRedoCarriesLabel(t *testing.T) {
	h := NewHistory(10)
	h.Push("Indent", "x")
	if _, err := h.Undo("  x"); err != nil {
		t.Fatal(err)
	}
	snap, err := h.Redo("x")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Description != "Indent" || snap.Text != "  x" {
		t.Errorf("redo entry = %+v", snap)
	}
	if next, ok := h.PeekUndo(); !ok || next.Description != "Indent" || next.Text != "x" {
		t.Errorf("undo entry after redo = %+v, %v", next, ok)
	}
}

func TestHistoryPushAfterUndoClearsRedo(t *testing.T) {
	h := NewHistory(10)
	h.Push("a", "")
	if _, err := h.Undo("a"); err != nil {
		t.Fatal(err)
	}
	h.Push("b", "")
	if h.CanRedo() {
		t.Error("push after undo should clear the redo stack")
	}
}

func TestPropertyHistoryBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 20).Draw(t, "limit")
		n := rapid.IntRange(0, 60).Draw(t, "pushes")

		h := NewHistory(limit)
		for i := 0; i < n; i++ {
			h.Push("edit", fmt.Sprint(i))
			if h.UndoCount() > limit {
				t.Fatalf("undo stack grew to %d beyond %d", h.UndoCount(), limit)
			}
		}

		// The most recent pushes are the ones retained.
		for i := n - 1; i >= 0 && i >= n-limit; i-- {
			snap, err := h.Undo("cur")
			if err != nil {
				t.Fatalf("undo %d: %v", i, err)
			}
			if snap.Text != fmt.Sprint(i) {
				t.Fatalf("undo returned %q, want %q", snap.Text, fmt.Sprint(i))
			}
		}
		if h.CanUndo() {
			t.Fatal("more entries retained than the bound allows")
		}
	})
}

func TestPropertyUndoRedoInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		texts := rapid.SliceOfN(rapid.StringMatching(`[a-z\n]{0,8}`), 1, 10).Draw(t, "texts")

		// Simulate a buffer moving through texts, pushing the prior state.
		h := NewHistory(len(texts) + 1)
		cur := ""
		for _, next := range texts {
			h.Push("edit", cur)
			cur = next
		}

		undos := rapid.IntRange(1, len(texts)).Draw(t, "undos")
		states := []string{cur}
		for i := 0; i < undos; i++ {
			snap, err := h.Undo(cur)
			if err != nil {
				t.Fatalf("undo: %v", err)
			}
			cur = snap.Text
			states = append(states, cur)
		}

		for i := undos - 1; i >= 0; i-- {
			snap, err := h.Redo(cur)
			if err != nil {
				t.Fatalf("redo: %v", err)
			}
			cur = snap.Text
			if cur != states[i] {
				t.Fatalf("redo restored %q, want %q", cur, states[i])
			}
		}
	})
}

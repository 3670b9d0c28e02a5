package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...WatcherOption) *Watcher {
	t.Helper()
	w, err := NewWatcher(opts...)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func expectNoEvent(t *testing.T, w *Watcher, d time.Duration) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event %s on %s", ev.Op, ev.Path)
	case <-time.After(d):
	}
}

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpCreate | OpWrite, "create|write"},
		{0, "none"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_Write(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.toml", "a")

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeFile(t, dir, "settings.toml", "b")

	ev := waitEvent(t, w)
	if ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}
	if !ev.Op.Has(OpWrite) {
		t.Errorf("event op = %s, want write", ev.Op)
	}
	if ev.Time.IsZero() {
		t.Error("event time not set")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "slate.json", "{}")

	w := newTestWatcher(t, WithDebounce(150*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		writeFile(t, dir, "slate.json", `{"build_command": "make"}`)
	}

	waitEvent(t, w)
	expectNoEvent(t, w, 400*time.Millisecond)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "slate.json", "{}")

	w := newTestWatcher(t, WithDebounce(0))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "other.txt", "x")
	expectNoEvent(t, w, 200*time.Millisecond)
}

func TestWatcher_CreateAndReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slate.json")

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatalf("watching a file that does not exist yet: %v", err)
	}

	writeFile(t, dir, "slate.json", "{}")
	if ev := waitEvent(t, w); !ev.Op.Has(OpCreate) {
		t.Errorf("event op = %s, want create", ev.Op)
	}

	// Editors often save by writing a temporary file and renaming it.
	tmp := writeFile(t, dir, "slate.json.tmp", `{"format_on_save": true}`)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, w); ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}
}

func TestWatcher_Unwatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.toml", "")
	b := writeFile(t, dir, "b.toml", "")

	w := newTestWatcher(t, WithDebounce(0))
	for _, p := range []string{a, b, a} {
		if err := w.Watch(p); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(w.WatchedFiles()); n != 2 {
		t.Errorf("WatchedFiles() has %d entries, want 2", n)
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "a.toml", "x")
	expectNoEvent(t, w, 200*time.Millisecond)

	writeFile(t, dir, "b.toml", "x")
	if ev := waitEvent(t, w); ev.Path != b {
		t.Errorf("event path = %q, want %q", ev.Path, b)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "slate.json")); err == nil {
		t.Error("Watch() in a missing directory should fail")
	}
}

func TestWatcher_Close(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.toml", "")

	w, err := NewWatcher(WithDebounce(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "settings.toml", "x")

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() should be closed")
	}
	if err := w.Watch(path); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close error = %v, want ErrWatcherClosed", err)
	}
}

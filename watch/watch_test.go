package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcher_Relevant(t *testing.T) {
	w := New(WithSkipDirs("graphics"))

	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "a/data.lua", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a/data.lua", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "a/data.lua", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "a/data.lua", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "a/info.json", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "a/.data.lua", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		if got := w.relevant(tt.ev); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}

	if !w.skipped("graphics") || !w.skipped(".git") || w.skipped("prototypes") {
		t.Error("unexpected skipped directories")
	}
}

func TestWatcher_Watch(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "graphics"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batches := make(chan []string, 16)
	done := make(chan error, 1)

	w := New(WithInterval(20*time.Millisecond), WithSkipDirs("graphics"))

	go func() {
		done <- w.Watch(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		}, root)
	}()

	name := filepath.Join(root, "data.lua")
	skip := filepath.Join(root, "graphics", "x.lua")

	// Write until the watcher, which starts asynchronously, reports the file.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	var got []string

loop:
	for {
		select {
		case got = <-batches:
			break loop
		case <-tick.C:
			if err := os.WriteFile(skip, []byte("x = 1"), 0o644); err != nil {
				t.Fatal(err)
			}

			if err := os.WriteFile(name, []byte("x = 1"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for events")
		}
	}

	if !slices.Equal(got, []string{name}) {
		t.Errorf("expected %v, got %v", []string{name}, got)
	}

	cancel()

	if err := <-done; err != nil {
		t.Errorf("expected nil error after cancel, got %v", err)
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	err := New().Watch(context.Background(), func(context.Context, []string) {},
		filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected an error for a missing root")
	}
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mahyarmirrashed/setbackground/internal/excluder"
	"gopkg.in/fsnotify.v1"
)

func newTestWatcher(t *testing.T, patterns ...string) *Watcher {
	t.Helper()
	ex, err := excluder.New(patterns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &Watcher{ex: ex, wake: make(chan struct{}, 1)}
}

func woke(w *Watcher) bool {
	select {
	case <-w.Wake():
		return true
	default:
		return false
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"created image", fsnotify.Event{Name: "/p/a.jpg", Op: fsnotify.Create}, true},
		{"renamed image", fsnotify.Event{Name: "/p/a.png", Op: fsnotify.Rename}, true},
		{"written image", fsnotify.Event{Name: "/p/a.jpg", Op: fsnotify.Write}, false},
		{"created text", fsnotify.Event{Name: "/p/a.txt", Op: fsnotify.Create}, false},
		{"excluded image", fsnotify.Event{Name: "/p/skip.jpg", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(t, "skip.*")
			w.handle(tt.event)
			if got := woke(w); got != tt.want {
				t.Fatalf("woke = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandle_CoalescesBursts(t *testing.T) {
	w := newTestWatcher(t)
	for i := 0; i < 5; i++ {
		w.handle(fsnotify.Event{Name: "/p/a.jpg", Op: fsnotify.Create})
	}
	if !woke(w) {
		t.Fatal("expected a wake")
	}
	if woke(w) {
		t.Fatal("expected bursts to collapse into one wake")
	}
}

func TestRun_WakesOnCreatedImage(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{root}, nil)
	if err != nil {
		t.Skipf("directory watching unavailable: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "a.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Wake():
	case <-time.After(5 * time.Second):
		t.Fatal("no wake after creating an image")
	}
}

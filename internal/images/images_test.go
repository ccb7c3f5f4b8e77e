package images

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/mahyarmirrashed/setbackground/internal/excluder"
)

func TestFind_OnlyNonImages(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "photo.jpeg"))
	touch(t, filepath.Join(root, "photo.JPG"))
	touch(t, filepath.Join(root, "sub", "clip.gif"))

	if got := Find(root); len(got) != 0 {
		t.Fatalf("expected no images, got %v", got)
	}
}

func TestFind_Recursive(t *testing.T) {
	root := t.TempDir()
	want := []string{
		filepath.Join(root, "a.jpg"),
		filepath.Join(root, "b.png"),
		filepath.Join(root, "x", "c.jpg"),
		filepath.Join(root, "x", "y", "z", "d.png"),
	}
	for _, p := range want {
		touch(t, p)
	}
	touch(t, filepath.Join(root, "x", "readme.md"))
	if err := os.MkdirAll(filepath.Join(root, "empty.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := Find(root)
	sort.Strings(got)
	sort.Strings(want)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, p := range got {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("returned path %s does not exist: %v", p, err)
		}
		if !IsImage(p) {
			t.Errorf("returned path %s is not an image", p)
		}
	}
}

func TestFind_MissingRoot(t *testing.T) {
	if got := Find(filepath.Join(t.TempDir(), "nope")); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestFind_SymlinkCycle(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "sub", "a.jpg"))
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got := Find(root)
	if len(got) != 1 {
		t.Fatalf("expected 1 image, got %v", got)
	}
}

func TestFind_FollowsLinkedDirectory(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	touch(t, filepath.Join(other, "linked.png"))
	if err := os.Symlink(other, filepath.Join(root, "more")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got := Find(root)
	want := filepath.Join(root, "more", "linked.png")
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %v, want [%s]", got, want)
	}
}

func TestLocator_Exclude(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.jpg"))
	touch(t, filepath.Join(root, "skip.png"))
	touch(t, filepath.Join(root, "raw", "inside.jpg"))

	ex, err := excluder.New([]string{"skip.*", "raw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := (&Locator{Exclude: ex}).Find(root)
	want := filepath.Join(root, "keep.jpg")
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %v, want [%s]", got, want)
	}
}

func TestIsImage(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":     true,
		"a.png":     true,
		"a.jpg.bak": false,
		"a.PNG":     false,
		"a.jpeg":    false,
		"jpg":       false,
	}
	for name, want := range tests {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

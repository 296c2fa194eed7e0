package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "spam/1.txt", "buy now")
	writeFile(t, root, "spam/offer.html", "<p>cheap</p>")
	writeFile(t, root, "ham/2.txt", "lunch")
	writeFile(t, root, "ham/image.png", "\x89PNG")
	writeFile(t, root, ".git/config", "[core]")
	writeFile(t, root, "ham/drafts/3.txt", "draft")

	w := NewWalker(
		[]string{"**/*.txt", "**/*.html"},
		[]string{"**/.git/**", "**/drafts/**"},
	)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.RelPath)
		if !filepath.IsAbs(f.Path) {
			t.Errorf("expected absolute path, got %s", f.Path)
		}
	}
	expected := []string{"ham/2.txt", "spam/1.txt", "spam/offer.html"}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("walked files mismatch (-want +got):\n%s", diff)
	}
}

func TestWalker_DefaultIncludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b/c.bin", "x")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "a/b/c.bin" {
		t.Errorf("expected a/b/c.bin, got %+v", files)
	}
	if files[0].Size != 1 {
		t.Errorf("expected size 1, got %d", files[0].Size)
	}
}

func TestWalker_MissingRoot(t *testing.T) {
	if _, err := NewWalker(nil, nil).Walk(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}

package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountDigestFiles(t *testing.T) {
	sep := strings.Repeat("=", 48)
	digest := strings.Join([]string{
		sep, "File: a.py", sep, "content a",
		sep, "File: b.py", sep, "content b",
	}, "\n")

	if got := countDigestFiles(digest); got != 2 {
		t.Errorf("countDigestFiles = %d, want 2", got)
	}
}

func TestCountDigestFilesFallback(t *testing.T) {
	digest := "File: a.py\nsomething\nFile: b.py\nsomething else\nFile: c.py\n"
	if got := countDigestFiles(digest); got != 3 {
		t.Errorf("countDigestFiles = %d, want 3", got)
	}
}

func TestDotfileSupplement(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.pyc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	workflows := filepath.Join(dir, ".github", "workflows")
	if err := os.MkdirAll(workflows, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(workflows, "ci.yml"), []byte("on: push\n"), 0644); err != nil {
		t.Fatal(err)
	}

	supplement := dotfileSupplement(dir)

	if !strings.Contains(supplement, "File: .gitignore") {
		t.Error("supplement missing .gitignore")
	}
	if !strings.Contains(supplement, "*.pyc") {
		t.Error("supplement missing .gitignore content")
	}
	if !strings.Contains(supplement, "File: .github/workflows/ci.yml") {
		t.Error("supplement missing workflow file")
	}
}

func TestDotfileSupplementEmptyRepo(t *testing.T) {
	if got := dotfileSupplement(t.TempDir()); got != "" {
		t.Errorf("expected empty supplement, got %q", got)
	}
}

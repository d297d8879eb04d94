package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsRender(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("game.win", map[string]any{"Winner": "X"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "X wins." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestMissingTemplateKeyIsError(t *testing.T) {
	c := MustDefault()
	if _, err := c.Render("game.win", map[string]any{}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("expected template not found")
	}
	if got := c.Text("no.such.key", nil); got != "no.such.key" {
		t.Fatalf("Text fallback: %q", got)
	}
}

func TestOverrideDirReplacesKey(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("game:\n  draw: \"Match nul.\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("game.draw", nil); got != "Match nul." {
		t.Fatalf("override not applied: %q", got)
	}
	// untouched keys keep defaults
	if got := c.Text("game.prompt", nil); got == "game.prompt" {
		t.Fatalf("default lost")
	}
}

func TestOverrideDuplicateKeysRejected(t *testing.T) {
	dir := t.TempDir()
	body := []byte("game:\n  draw: \"x\"\n")
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yml"), body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestNonStringLeafRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("game:\n  draw: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected unsupported value error")
	}
}

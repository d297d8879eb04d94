package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.log")
	logger, err := Build(Options{Level: "debug", Format: "json", ToFile: true, FilePath: path})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Info("workflow_complete")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"workflow_complete"`) {
		t.Fatalf("unexpected log contents: %s", raw)
	}
}

func TestBuildWithoutSinksIsNop(t *testing.T) {
	logger, err := Build(Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if logger.Core().Enabled(0) {
		t.Fatalf("expected nop logger")
	}
}

func TestReplaceRestores(t *testing.T) {
	before := L()
	restore := Replace(nil)
	if L() == before {
		t.Fatalf("logger not replaced")
	}
	restore()
	if L() != before {
		t.Fatalf("logger not restored")
	}
}

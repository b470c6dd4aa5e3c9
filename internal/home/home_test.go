package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-folio")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-folio" {
			t.Errorf("expected path /tmp/test-folio, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-folio")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"OutputPath", dir.OutputPath(), "/tmp/test-folio/output"},
		{"ConfigPath", dir.ConfigPath(), "/tmp/test-folio/config.yaml"},
		{"LedgerPath", dir.LedgerPath(), "/tmp/test-folio/ledger.db"},
		{"ResolveOutput default", dir.ResolveOutput(""), "/tmp/test-folio/output"},
		{"ResolveOutput explicit", dir.ResolveOutput("/data/out"), "/data/out"},
		{"ResolveLedger default", dir.ResolveLedger(""), "/tmp/test-folio/ledger.db"},
		{"ResolveLedger explicit", dir.ResolveLedger("/data/runs.db"), "/data/runs.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}

func TestDir_EnsureExists(t *testing.T) {
	dir, err := New(filepath.Join(t.TempDir(), "folio-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("expected directory to not exist initially")
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if !dir.Exists() {
		t.Error("expected directory to exist after EnsureExists")
	}
	if _, err := os.Stat(dir.OutputPath()); err != nil {
		t.Errorf("expected output directory: %v", err)
	}
	if dir.ConfigExists() {
		t.Error("expected no config file")
	}
}

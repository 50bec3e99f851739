package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadInitialConfig_CreatesDefault(t *testing.T) {
	dir := t.TempDir()

	content, err := LoadInitialConfig(dir)
	if err != nil {
		t.Fatalf("LoadInitialConfig failed: %v", err)
	}
	if content != "{}" {
		t.Errorf("Expected {}, got %q", content)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".lockdfg"))
	if err != nil {
		t.Fatalf("Expected .lockdfg to be created: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected file content {}, got %q", data)
	}
}

func TestSaveAndLoadInitialConfig(t *testing.T) {
	dir := t.TempDir()
	content := `{"theme":"dark","fontSize":14}`

	if err := SaveInitialConfig(dir, content); err != nil {
		t.Fatalf("SaveInitialConfig failed: %v", err)
	}

	got, err := LoadInitialConfig(dir)
	if err != nil {
		t.Fatalf("LoadInitialConfig failed: %v", err)
	}
	if got != content {
		t.Errorf("Expected %q, got %q", content, got)
	}
}

func TestLoadInitialConfig_MissingDir(t *testing.T) {
	_, err := LoadInitialConfig(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("Expected error for a missing directory")
	}
}

package workspace

import (
	"path/filepath"
	"testing"
)

func TestMarker(t *testing.T) {
	dir := t.TempDir()

	ok, err := HasMarker(dir)
	if err != nil || ok {
		t.Fatalf("Expected no marker, got %t, %v", ok, err)
	}

	if err := EnsureMarker(dir); err != nil {
		t.Fatalf("EnsureMarker failed: %v", err)
	}
	if err := EnsureMarker(dir); err != nil {
		t.Fatalf("EnsureMarker should be idempotent: %v", err)
	}

	ok, err = HasMarker(dir)
	if err != nil || !ok {
		t.Fatalf("Expected marker, got %t, %v", ok, err)
	}
}

func TestEnsureMarker_OnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	writeTestFile(t, file, "")
	if err := EnsureMarker(file); err == nil {
		t.Fatal("Expected error when the target is a file")
	}
}

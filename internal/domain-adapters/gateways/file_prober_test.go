package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileFinder_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "lib.dll")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	finder := NewFileFinder()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"missing file", filepath.Join(tmpDir, "missing.dll"), false},
		{"directory", tmpDir, false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := finder.Exists(tt.path); got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileFinder_FindReplacement(t *testing.T) {
	tmpDir := t.TempDir()
	dirA := filepath.Join(tmpDir, "a")
	dirB := filepath.Join(tmpDir, "b")
	dirC := filepath.Join(tmpDir, "c")
	for _, d := range []string{dirA, dirB, dirC} {
		if err := os.MkdirAll(d, 0750); err != nil {
			t.Fatal(err)
		}
	}
	// dirA has a directory with the module's name, which must not match
	if err := os.MkdirAll(filepath.Join(dirA, "lib.dll"), 0750); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{dirB, dirC} {
		if err := os.WriteFile(filepath.Join(d, "lib.dll"), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	finder := NewFileFinder()

	got, ok := finder.FindReplacement([]string{dirA, dirB, dirC}, "lib.dll")
	if !ok {
		t.Fatal("FindReplacement() found nothing")
	}
	if want := filepath.Join(dirB, "lib.dll"); got != want {
		t.Errorf("FindReplacement() = %q, want %q", got, want)
	}

	if _, ok := finder.FindReplacement([]string{dirA}, "lib.dll"); ok {
		t.Error("FindReplacement() should not match a directory")
	}
	if _, ok := finder.FindReplacement(nil, "lib.dll"); ok {
		t.Error("FindReplacement() with no search dirs should find nothing")
	}
}

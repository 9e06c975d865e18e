package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_WriteReadGlob(t *testing.T) {
	fs := OSFileSystem{}
	dir := t.TempDir()

	for _, name := range []string{"fig_1_combined.png", "fig_2_combined.png", "fig_1.png"} {
		if err := fs.WriteFile(filepath.Join(dir, name), []byte("png"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	data, err := fs.ReadFile(filepath.Join(dir, "fig_1.png"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("unexpected content %q", data)
	}

	matches, err := fs.Glob(filepath.Join(dir, "fig_*_combined.png"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 combined figures, got %d: %v", len(matches), matches)
	}
}

func TestOSFileSystem_MkdirAll(t *testing.T) {
	fs := OSFileSystem{}
	nested := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := fs.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if !fs.Exists(nested) {
		t.Error("expected nested dir to exist")
	}
	// Repeating on an existing directory must not fail.
	if err := fs.MkdirAll(nested, 0755); err != nil {
		t.Errorf("MkdirAll on existing dir: %v", err)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	content := []byte("token,score\nabc,0.9\n")
	if err := mfs.WriteFile("/results/scores.csv", content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := mfs.ReadFile("/results/scores.csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("content mismatch: got %q", data)
	}
}

func TestMemoryFileSystem_ReadNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if _, err := mfs.ReadFile("/nope.csv"); err == nil {
		t.Error("expected error reading nonexistent file")
	}
}

func TestMemoryFileSystem_CreateAndWrite(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/fig_1_combined.png")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := w.Write([]byte("first")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte(" second")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := mfs.ReadFile("/out/fig_1_combined.png")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "first second" {
		t.Errorf("content mismatch: got %q", data)
	}
}

func TestMemoryFileSystem_MkdirAllAndStat(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/exp/figures/run1", 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	for _, dir := range []string{"/exp", "/exp/figures", "/exp/figures/run1"} {
		info, err := mfs.Stat(dir)
		if err != nil {
			t.Fatalf("Stat(%s): %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}
}

func TestMemoryFileSystem_StatFile(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.WriteFile("/f.txt", []byte("12345"), 0600); err != nil {
		t.Fatal(err)
	}

	info, err := mfs.Stat("/f.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("Size = %d, want 5", info.Size())
	}
	if info.Mode() != os.FileMode(0600) {
		t.Errorf("Mode = %v, want 0600", info.Mode())
	}
	if info.IsDir() {
		t.Error("file reported as directory")
	}
}

func TestMemoryFileSystem_StatNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if _, err := mfs.Stat("/missing"); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestMemoryFileSystem_Glob(t *testing.T) {
	mfs := NewMemoryFileSystem()
	for _, name := range []string{
		"/out/fig_2_combined.png",
		"/out/fig_1_combined.png",
		"/out/fig_1.png",
		"/other/fig_3_combined.png",
	} {
		if err := mfs.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	matches, err := mfs.Glob("/out/fig_*_combined.png")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	want := []string{"/out/fig_1_combined.png", "/out/fig_2_combined.png"}
	if len(matches) != len(want) {
		t.Fatalf("got %v, want %v", matches, want)
	}
	for i := range want {
		if matches[i] != want[i] {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i], want[i])
		}
	}
}

func TestMemoryFileSystem_Exists(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if mfs.Exists("/nope") {
		t.Error("empty filesystem should not contain /nope")
	}
	if err := mfs.WriteFile("/yes", []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}
	if !mfs.Exists("/yes") {
		t.Error("expected /yes to exist")
	}
	if err := mfs.MkdirAll("/dir", 0755); err != nil {
		t.Fatal(err)
	}
	if !mfs.Exists("/dir") {
		t.Error("expected /dir to exist")
	}
}

func TestMemoryFileSystem_PathCleaning(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.WriteFile("/a//b/../b/file.txt", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !mfs.Exists("/a/b/file.txt") {
		t.Error("path was not cleaned on write")
	}
}

package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.flac")
	dst := filepath.Join(dir, "dst.flac")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o600); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("mtime not preserved: got %v, want %v", info.ModTime(), mtime)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Fatalf("mode not preserved: got %o", info.Mode().Perm())
	}
}

func TestCopyFile_SameFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.wav")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, src); !errors.Is(err, ErrSameFile) {
		t.Fatalf("expected ErrSameFile, got %v", err)
	}
	got, _ := os.ReadFile(src)
	if string(got) != "data" {
		t.Fatalf("source was clobbered: %q", got)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyInto(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "song.flac")
	if err := os.WriteFile(src, []byte("pcm"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := CopyInto(src, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if dst != filepath.Join(outDir, "song.flac") {
		t.Fatalf("unexpected destination %s", dst)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain after copy: %v", err)
	}
}

func TestMoveInto(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "song.flac")
	if err := os.WriteFile(src, []byte("pcm"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := MoveInto(src, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source should be gone after move, stat err: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "pcm" {
		t.Fatalf("destination content wrong: %q, %v", got, err)
	}
}

func TestMoveInto_DestinationExists(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "song.flac")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(outDir, "song.flac")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := MoveInto(src, outDir); err == nil {
		t.Fatal("expected error when destination exists")
	}
	got, _ := os.ReadFile(existing)
	if string(got) != "old" {
		t.Fatalf("existing destination was overwritten: %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain after failed move: %v", err)
	}
}

func TestMoveInto_SameDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.flac")
	if err := os.WriteFile(src, []byte("pcm"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := MoveInto(src, dir); !errors.Is(err, ErrSameFile) {
		t.Fatalf("expected ErrSameFile, got %v", err)
	}
}

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/folio/internal/checksum"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("[\n  {}\n]\n")
	if err := s.Write("resources-cache.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("resources-cache.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("src/content/resources-cache.json", []byte("[]\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("src/content/resources-cache.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "[]\n" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteFileMode(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("cache.json", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(s.Root(), "cache.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestList(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("til/b.md", []byte("b"))
	_ = s.Write("til/sub/a.md", []byte("a"))
	_ = s.Write("til/readme.txt", []byte("not md"))
	_ = s.Write("other.md", []byte("outside dir"))

	items, err := s.List("til", ".md")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Path != "til/b.md" || items[1].Path != "til/sub/a.md" {
		t.Errorf("paths = %s, %s", items[0].Path, items[1].Path)
	}
	if items[0].Checksum != checksum.Sum([]byte("b")) {
		t.Errorf("checksum = %s", items[0].Checksum)
	}
}

func TestList_MissingDir(t *testing.T) {
	s := tempRoot(t)
	items, err := s.List("til", ".md")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if _, err := s.Abs(p); err == nil {
			t.Errorf("expected error resolving %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("atomic.json", []byte("original"))

	if err := s.Write("atomic.json", []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.json")
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, tempPattern))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "folio-test-*")
	_ = f.Close()
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

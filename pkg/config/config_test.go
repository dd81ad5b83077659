package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "folio")
	p := writeFile(t, t.TempDir(), "c.yaml", "name: ${SAMPLE_NAME}\ncount: 2\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "folio" || s.Count != 2 {
		t.Errorf("s = %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, t.TempDir(), "c.yaml", "count: -1\n")
	var s sample
	err := Load(p, &s)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Count: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("defaults changed: %+v", s)
	}

	s.Count = -5
	if err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &s); err == nil {
		t.Error("defaults should still be validated")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &s); err == nil {
		t.Error("Load should fail on a missing file")
	}
}

func TestLoadEnvFiles_Layering(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, ".env", "FOLIO_LAYER=base\nFOLIO_BASE_ONLY=yes\nFOLIO_PRESET=from-file\n")
	dev := writeFile(t, dir, ".env.development.local", "FOLIO_LAYER=dev\n")
	local := writeFile(t, dir, ".env.local", "FOLIO_LAYER=local\n")

	t.Setenv("FOLIO_PRESET", "from-shell")
	t.Setenv("FOLIO_LAYER", "")
	t.Setenv("FOLIO_BASE_ONLY", "")
	os.Unsetenv("FOLIO_LAYER")
	os.Unsetenv("FOLIO_BASE_ONLY")

	if err := LoadEnvFiles(base, dev, filepath.Join(dir, "missing"), local); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv("FOLIO_LAYER"); got != "local" {
		t.Errorf("FOLIO_LAYER = %q, want local", got)
	}
	if got := os.Getenv("FOLIO_BASE_ONLY"); got != "yes" {
		t.Errorf("FOLIO_BASE_ONLY = %q", got)
	}
	if got := os.Getenv("FOLIO_PRESET"); got != "from-shell" {
		t.Errorf("base file must not override the shell: %q", got)
	}
}

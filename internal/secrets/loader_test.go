package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key")
	if err := os.WriteFile(file, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("JOBMATCH_TEST_SECRET", "from-env")

	got, err := Load(Source{Name: "key", File: file, Value: "inline", Env: "JOBMATCH_TEST_SECRET"})
	if err != nil || got != "from-file" {
		t.Fatalf("expected file secret, got %q (%v)", got, err)
	}

	got, err = Load(Source{Name: "key", Value: " inline ", Env: "JOBMATCH_TEST_SECRET"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline secret, got %q (%v)", got, err)
	}

	got, err = Load(Source{Name: "key", Env: "JOBMATCH_TEST_SECRET"})
	if err != nil || got != "from-env" {
		t.Fatalf("expected env secret, got %q (%v)", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	if _, err := Load(Source{Name: "key", File: empty}); err == nil {
		t.Fatalf("expected error for empty file")
	}
	if _, err := Load(Source{Name: "key", File: filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(Source{Name: "key"}); err == nil {
		t.Fatalf("expected error when nothing configured")
	}
}

func TestOptional(t *testing.T) {
	got, err := Optional(Source{Name: "gemini api key"})
	if err != nil || got != "" {
		t.Fatalf("expected empty secret without error, got %q (%v)", got, err)
	}

	if _, err := Optional(Source{Name: "gemini api key", File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected error for configured but missing file")
	}
}

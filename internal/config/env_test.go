package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestString(t *testing.T) {
	t.Setenv("SKILLGATE_TEST_STR", "value")
	if got := String("SKILLGATE_TEST_STR", "fallback"); got != "value" {
		t.Errorf("String = %q", got)
	}
	if got := String("SKILLGATE_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("String fallback = %q", got)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("SKILLGATE_TEST_DUR", "45s")
	if got := Duration("SKILLGATE_TEST_DUR", time.Second); got != 45*time.Second {
		t.Errorf("Duration = %s", got)
	}
	t.Setenv("SKILLGATE_TEST_DUR", "not-a-duration")
	if got := Duration("SKILLGATE_TEST_DUR", 5*time.Second); got != 5*time.Second {
		t.Errorf("malformed duration must fall back, got %s", got)
	}
	if got := Duration("SKILLGATE_TEST_DUR_UNSET", 2*time.Second); got != 2*time.Second {
		t.Errorf("unset duration must fall back, got %s", got)
	}
}

func TestLoadEnv_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SKILLGATE_TEST_LOADED=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKILLGATE_TEST_LOADED", "")
	os.Unsetenv("SKILLGATE_TEST_LOADED")

	LoadEnv(path)
	if got := os.Getenv("SKILLGATE_TEST_LOADED"); got != "yes" {
		t.Errorf("expected loaded env value, got %q", got)
	}
}

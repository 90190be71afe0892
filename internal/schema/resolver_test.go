package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSkillDoc(t *testing.T, dir, skill, content string) string {
	t.Helper()
	skillDir := filepath.Join(dir, skill)
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(skillDir, "SKILL.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(t.TempDir())
	if _, err := r.Resolve("missing-skill"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_StrategyFallback(t *testing.T) {
	dir := t.TempDir()

	// Frontmatter without parameter bodies must fall through to the
	// table strategy.
	writeSkillDoc(t, dir, "fallthrough", `---
scripts:
  - actions:
      - name: add-expense
---
| Action | Required Flags |
|---|---|
| `+"`add-expense`"+` | `+"`--amount`"+` |
`)
	r := NewResolver(dir)
	result, err := r.Resolve("fallthrough")
	if err != nil {
		t.Fatal(err)
	}
	action := result.Actions["add-expense"]
	if action == nil || len(action.Required) != 1 {
		t.Fatalf("expected table-parsed schema, got %+v", result.Actions)
	}
	if result.Source != SourceDoc {
		t.Errorf("expected source %q, got %q", SourceDoc, result.Source)
	}
}

func TestResolve_EmptyDocYieldsEmptyResult(t *testing.T) {
	dir := t.TempDir()
	writeSkillDoc(t, dir, "bare", "# A skill with no commands\n\nJust prose.\n")

	r := NewResolver(dir)
	result, err := r.Resolve("bare")
	if err != nil {
		t.Fatalf("documented skill must not return an error: %v", err)
	}
	if result == nil || !result.Empty() {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestResolve_CacheHitReturnsSameResult(t *testing.T) {
	dir := t.TempDir()
	writeSkillDoc(t, dir, "cached", "```\nadd-note --text hello\n```\n")

	r := NewResolver(dir)
	first, err := r.Resolve("cached")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve("cached")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("unchanged mtime must return the cached result")
	}
}

func TestResolve_MtimeTouchForcesReparse(t *testing.T) {
	dir := t.TempDir()
	path := writeSkillDoc(t, dir, "touched", "```\nadd-note --text hello\n```\n")

	r := NewResolver(dir)
	first, err := r.Resolve("touched")
	if err != nil {
		t.Fatal(err)
	}

	// Same bytes, newer mtime: the cache keys on mtime alone.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve("touched")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("touched file must be re-parsed")
	}
}

func TestResolve_EditedDocPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeSkillDoc(t, dir, "edited", "```\nadd-note --text hello\n```\n")

	r := NewResolver(dir)
	if _, err := r.Resolve("edited"); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("```\nadd-note --text hi --tag x\n```\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	result, err := r.Resolve("edited")
	if err != nil {
		t.Fatal(err)
	}
	action := result.Actions["add-note"]
	if action == nil || len(action.Required) != 2 {
		t.Errorf("expected updated schema with 2 flags, got %+v", action)
	}
}

func TestInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeSkillDoc(t, dir, "inv", "```\nadd-note --text hello\n```\n")

	r := NewResolver(dir)
	first, err := r.Resolve("inv")
	if err != nil {
		t.Fatal(err)
	}
	r.Invalidate("inv")
	second, err := r.Resolve("inv")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("invalidated skill must be re-parsed")
	}
}

func TestDocPath(t *testing.T) {
	r := NewResolver("/srv/skills")
	want := filepath.Join("/srv/skills", "erpclaw-selling", "SKILL.md")
	if got := r.DocPath("erpclaw-selling"); got != want {
		t.Errorf("DocPath = %q, want %q", got, want)
	}
}

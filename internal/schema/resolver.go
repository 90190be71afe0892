package schema

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SourceDoc and SourceProbe identify which discovery path produced a
// Result. The HTTP layer keys its cache hints on this.
const (
	SourceDoc   = "skill.md"
	SourceProbe = "probe"
)

// ErrNotFound is returned by Resolve when a skill has no documentation
// file at all — distinct from documentation that exists but yields no
// parseable actions.
var ErrNotFound = errors.New("schema: documentation not found")

// document is the documentation source handed to parsing strategies.
type document struct {
	content string // full file text
	body    string // text after the frontmatter block
}

// strategy is one discovery approach. ok=false means "nothing usable here,
// try the next one"; the final strategy in the chain always returns ok=true
// so the chain terminates even when a documented skill has no parseable
// action metadata.
type strategy interface {
	name() string
	parse(doc document) (*Result, bool)
}

type cacheEntry struct {
	mtime  time.Time
	result *Result
}

// Resolver discovers action schemas from per-skill documentation files,
// trying strategies in fixed precedence: structured frontmatter, prose
// tables, code-block examples. Results are cached against the
// documentation file's modification time; touching the file forces a
// re-parse even when the bytes are unchanged.
//
// Concurrency: safe for concurrent use; the cache is guarded by mu.
type Resolver struct {
	skillsDir  string
	docFile    string
	strategies []strategy

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewResolver creates a Resolver over <skillsDir>/<skill>/SKILL.md files.
func NewResolver(skillsDir string) *Resolver {
	return &Resolver{
		skillsDir:  skillsDir,
		docFile:    "SKILL.md",
		strategies: []strategy{frontmatterStrategy{}, tableStrategy{}, exampleStrategy{}},
		cache:      map[string]cacheEntry{},
	}
}

// DocPath returns the documentation file path for a skill.
func (r *Resolver) DocPath(skill string) string {
	return filepath.Join(r.skillsDir, skill, r.docFile)
}

// Resolve returns the action schema for a skill, reading documentation
// only when the cached entry is stale. ErrNotFound means no documentation
// file exists; a documented skill with nothing parseable yields an empty
// (non-nil) Result instead, so one broken spec never blocks the catalog.
func (r *Resolver) Resolve(skill string) (*Result, error) {
	path := r.DocPath(skill)
	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrNotFound
	}
	mtime := info.ModTime()

	r.mu.Lock()
	if entry, ok := r.cache[skill]; ok && entry.mtime.Equal(mtime) {
		r.mu.Unlock()
		return entry.result, nil
	}
	r.mu.Unlock()

	result := r.parseDoc(skill, path)
	result.Source = SourceDoc

	r.mu.Lock()
	r.cache[skill] = cacheEntry{mtime: mtime, result: result}
	r.mu.Unlock()
	return result, nil
}

// Invalidate drops the cached entry for a skill.
func (r *Resolver) Invalidate(skill string) {
	r.mu.Lock()
	delete(r.cache, skill)
	r.mu.Unlock()
}

// parseDoc reads the documentation file and runs the strategy chain.
// Read failures degrade to an empty result — malformed or unreadable
// documentation for one skill must not break discovery for any other.
func (r *Resolver) parseDoc(skill, path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[Resolver] %s: read %s: %v", skill, path, err)
		return NewResult()
	}

	content := string(data)
	_, body, _ := SplitFrontmatter(content)
	doc := document{content: content, body: body}

	for _, s := range r.strategies {
		if result, ok := s.parse(doc); ok {
			log.Printf("[Resolver] %s: %d action(s) via %s", skill, len(result.Actions), s.name())
			return result
		}
	}
	// Unreachable while the example strategy terminates the chain.
	return NewResult()
}

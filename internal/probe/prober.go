// Package probe discovers action parameters at runtime, as a last resort
// for skills whose documentation yields no schema. Each mutation-shaped
// action is invoked once with no arguments and its validation error is
// mined for required parameter names.
package probe

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/skillgate/skillgate/internal/schema"
)

// Executor is the execution collaborator the prober invokes actions
// through. Satisfied by *runner.Runner.
type Executor interface {
	Execute(ctx context.Context, skill, action string, params map[string]any) map[string]any
}

// probePrefixes select the actions worth probing: only mutation-shaped
// actions need data-entry forms. Everything else is recorded with empty
// parameter lists.
var probePrefixes = []string{
	"add-", "create-", "update-", "generate-", "compute-", "setup-", "seed-",
}

const maxConcurrentProbes = 5

type probeEntry struct {
	result *schema.Result
	at     time.Time
}

// Prober runs argless probes against a skill's actions and caches the
// outcome per skill.
//
// Probing assumes mutation-shaped actions validate their parameters before
// performing any mutation, so an empty-argument invocation fails cleanly
// without side effects. That is a convention of skill authorship, not a
// guarantee enforced here.
type Prober struct {
	exec       Executor
	extractors []HintExtractor
	ttl        time.Duration

	mu    sync.Mutex
	cache map[string]probeEntry
}

// New creates a Prober. ttl 0 means probe results never expire for the
// lifetime of the process.
func New(exec Executor, ttl time.Duration) *Prober {
	return &Prober{
		exec:       exec,
		extractors: DefaultExtractors(),
		ttl:        ttl,
		cache:      map[string]probeEntry{},
	}
}

// Probe resolves a schema for the given action names by probing. At most
// five probes run concurrently; an individual probe failure contributes an
// action with whatever it matched rather than aborting the batch.
//
// Probes are detached from the caller's cancellation: an abandoned request
// lets in-flight probes finish and warm the cache for the next caller.
func (p *Prober) Probe(ctx context.Context, skill string, actions []string) *schema.Result {
	p.mu.Lock()
	if entry, ok := p.cache[skill]; ok {
		if p.ttl <= 0 || time.Since(entry.at) < p.ttl {
			p.mu.Unlock()
			return entry.result
		}
		delete(p.cache, skill)
	}
	p.mu.Unlock()

	var mutations, others []string
	for _, a := range actions {
		if isProbeable(a) {
			mutations = append(mutations, a)
		} else {
			others = append(others, a)
		}
	}

	probeCtx := context.WithoutCancel(ctx)
	required := make([][]schema.Field, len(mutations))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentProbes)
	for i, action := range mutations {
		wg.Add(1)
		go func(i int, action string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			required[i] = p.probeOne(probeCtx, skill, action)
		}(i, action)
	}
	wg.Wait()

	result := schema.NewResult()
	result.Source = schema.SourceProbe
	groups := newGroupTracker()

	for i, action := range mutations {
		fields := required[i]
		if fields == nil {
			fields = []schema.Field{}
		}
		addAction(result, groups, action, fields)
	}
	for _, action := range others {
		addAction(result, groups, action, []schema.Field{})
	}
	result.Groups = groups.list()

	p.mu.Lock()
	p.cache[skill] = probeEntry{result: result, at: time.Now()}
	p.mu.Unlock()

	log.Printf("[Probe] %s: probed %d action(s), %d passthrough", skill, len(mutations), len(others))
	return result
}

// Invalidate drops the cached probe result for a skill.
func (p *Prober) Invalidate(skill string) {
	p.mu.Lock()
	delete(p.cache, skill)
	p.mu.Unlock()
}

// probeOne invokes one action with no arguments and extracts required
// parameter names from the error text. Type inference is name-only.
func (p *Prober) probeOne(ctx context.Context, skill, action string) []schema.Field {
	result := p.exec.Execute(ctx, skill, action, map[string]any{})

	msg, _ := result["message"].(string)
	if msg == "" {
		msg, _ = result["error"].(string)
	}

	var names []string
	for _, ex := range p.extractors {
		if names = ex.Extract(msg); len(names) > 0 {
			break
		}
	}

	fields := []schema.Field{}
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimRight(strings.TrimSpace(name), ",")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		field := schema.Infer(name, schema.Hints{})
		field.Required = true
		fields = append(fields, field)
	}
	return fields
}

func isProbeable(action string) bool {
	for _, prefix := range probePrefixes {
		if strings.HasPrefix(action, prefix) {
			return true
		}
	}
	return false
}

// tracker keeps entity groups in first-seen order.
type tracker struct {
	order []string
	byKey map[string][]string
}

func newGroupTracker() *tracker {
	return &tracker{byKey: map[string][]string{}}
}

func (t *tracker) add(group, action string) {
	if _, ok := t.byKey[group]; !ok {
		t.order = append(t.order, group)
	}
	t.byKey[group] = append(t.byKey[group], action)
}

func (t *tracker) list() []schema.EntityGroup {
	out := make([]schema.EntityGroup, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, schema.EntityGroup{Name: name, Actions: t.byKey[name]})
	}
	return out
}

func addAction(result *schema.Result, groups *tracker, action string, required []schema.Field) {
	a := &schema.Action{
		ActionType: schema.ActionTypeOf(action),
		Required:   required,
		Optional:   []schema.Field{},
	}
	if group := schema.DeriveEntityGroup(action); group != "" {
		a.EntityGroup = group
		groups.add(group, action)
	}
	result.Actions[action] = a
}

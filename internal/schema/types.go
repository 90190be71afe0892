package schema

// Field type identifiers emitted by the inference engine. The frontend
// form renderer switches on these to pick an input widget.
const (
	TypeText         = "text"
	TypeNumber       = "number"
	TypeCurrency     = "currency"
	TypePercent      = "percent"
	TypeDate         = "date"
	TypeTime         = "time"
	TypeEmail        = "email"
	TypePhone        = "phone"
	TypeTextarea     = "textarea"
	TypeBoolean      = "boolean"
	TypeSelect       = "select"
	TypeJSON         = "json"
	TypeEntityLookup = "entity-lookup"
)

// Option is a single choice of a select field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field describes one action parameter in renderer terms.
// Name is the raw identifier the execution layer expects (sent back as a
// --{name} CLI flag), Label is derived for display.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []Option `json:"options,omitempty"`
	Default     string   `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Step        float64  `json:"step,omitempty"`
	Min         float64  `json:"min,omitempty"`

	// Entity lookup metadata (Type == TypeEntityLookup only).
	// LookupSkill is empty for same-skill lookups.
	LookupSkill        string `json:"lookup_skill,omitempty"`
	LookupAction       string `json:"lookup_action,omitempty"`
	LookupValueField   string `json:"lookup_value_field,omitempty"`
	LookupDisplayField string `json:"lookup_display_field,omitempty"`
}

// Action is the discovered schema of one invocable action.
// A field name never appears in both Required and Optional.
type Action struct {
	ActionType  string  `json:"action_type"`
	Required    []Field `json:"required"`
	Optional    []Field `json:"optional"`
	EntityGroup string  `json:"entity_group,omitempty"`
	Description string  `json:"description,omitempty"`
}

// EntityGroup clusters actions operating on the same record type, in
// first-seen order. An action belongs to at most one group.
type EntityGroup struct {
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

// Result is a full parsed schema for one skill. Source records which
// discovery strategy produced it ("skill.md" or "probe") so the HTTP layer
// can attach appropriate cache hints.
type Result struct {
	Actions map[string]*Action `json:"actions"`
	Groups  []EntityGroup      `json:"entity_groups"`
	Source  string             `json:"-"`
}

// NewResult returns an empty, non-nil Result.
func NewResult() *Result {
	return &Result{Actions: map[string]*Action{}, Groups: []EntityGroup{}}
}

// Empty reports whether no actions were discovered.
func (r *Result) Empty() bool { return r == nil || len(r.Actions) == 0 }

// groupTracker accumulates entity group membership in first-seen order.
type groupTracker struct {
	order []string
	seen  map[string][]string
}

func newGroupTracker() *groupTracker {
	return &groupTracker{seen: map[string][]string{}}
}

func (g *groupTracker) add(group, action string) {
	if _, ok := g.seen[group]; !ok {
		g.order = append(g.order, group)
	}
	g.seen[group] = append(g.seen[group], action)
}

func (g *groupTracker) groups() []EntityGroup {
	out := make([]EntityGroup, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, EntityGroup{Name: name, Actions: g.seen[name]})
	}
	return out
}

package schema

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter is the declarative header of a documentation file. Only the
// script action lists matter here; other metadata keys are ignored.
type frontmatter struct {
	Scripts []frontmatterScript `yaml:"scripts"`
}

type frontmatterScript struct {
	Actions []frontmatterAction `yaml:"actions"`
}

type frontmatterAction struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Body        []frontmatterParam `yaml:"body"`
}

type frontmatterParam struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
}

// SplitFrontmatter separates a leading "---"-delimited block from the prose
// body. The closing marker must sit at the start of a line, so "---" inside
// a comment like "# --- Status ---" does not terminate the block early.
// ok is false when the content carries no frontmatter at all.
func SplitFrontmatter(content string) (front, body string, ok bool) {
	if !strings.HasPrefix(content, "---") {
		return "", content, false
	}
	pos := 3
	for {
		idx := strings.Index(content[pos:], "---")
		if idx < 0 {
			return "", content, false
		}
		idx += pos
		if content[idx-1] == '\n' {
			return content[3:idx], content[idx+3:], true
		}
		pos = idx + 3
	}
}

// frontmatterStrategy parses the declarative action list in the
// frontmatter block. It signals "try next strategy" unless at least one
// action carries a non-empty parameter array, so skills that merely list
// action names do not end up with all-optional schemas.
type frontmatterStrategy struct{}

func (frontmatterStrategy) name() string { return "frontmatter" }

func (frontmatterStrategy) parse(doc document) (*Result, bool) {
	front, _, ok := SplitFrontmatter(doc.content)
	if !ok {
		return nil, false
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return nil, false
	}
	if len(fm.Scripts) == 0 {
		return nil, false
	}

	result := NewResult()
	groups := newGroupTracker()
	hasBodyParams := false

	for _, script := range fm.Scripts {
		for _, def := range script.Actions {
			if def.Name == "" {
				continue
			}
			if len(def.Body) > 0 {
				hasBodyParams = true
			}

			action := &Action{
				ActionType:  ActionTypeOf(def.Name),
				Required:    []Field{},
				Optional:    []Field{},
				Description: def.Description,
			}
			for _, p := range def.Body {
				if p.Name == "" {
					continue
				}
				declared := p.Type
				if declared == "" {
					declared = "string"
				}
				field := Infer(p.Name, Hints{DeclaredType: declared, Description: p.Description})
				field.Required = p.Required
				if p.Required {
					action.Required = append(action.Required, field)
				} else {
					action.Optional = append(action.Optional, field)
				}
			}

			if group := DeriveEntityGroup(def.Name); group != "" {
				action.EntityGroup = group
				groups.add(group, def.Name)
			}
			result.Actions[def.Name] = action
		}
	}

	if !hasBodyParams {
		return nil, false
	}
	result.Groups = groups.groups()
	return result, true
}

// FrontmatterActions extracts just the action names from a documentation
// file's frontmatter. Used as a discovery fallback when the execution
// collaborator cannot enumerate actions itself.
func FrontmatterActions(content string) []string {
	front, _, ok := SplitFrontmatter(content)
	if !ok {
		return nil
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return nil
	}
	var names []string
	for _, script := range fm.Scripts {
		for _, def := range script.Actions {
			if def.Name != "" {
				names = append(names, def.Name)
			}
		}
	}
	return names
}

// Package catalog enumerates installed skills and their documentation
// metadata. A skill is any directory under the skills root containing a
// SKILL.md file.
package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skillgate/skillgate/internal/schema"
)

const docFile = "SKILL.md"

// prefixCategories maps known skill-family name prefixes to a default
// category for skills whose frontmatter declares none.
var prefixCategories = map[string]string{
	"auditclaw": "compliance",
}

// Meta is the catalog entry for one installed skill.
type Meta struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tier        int      `json:"tier,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Requires    []string `json:"requires,omitempty"`
}

// docMeta is the frontmatter metadata block of a SKILL.md file.
type docMeta struct {
	Description string   `yaml:"description"`
	Version     string   `yaml:"version"`
	Category    string   `yaml:"category"`
	Tier        int      `yaml:"tier"`
	Tags        []string `yaml:"tags"`
	Requires    []string `yaml:"requires"`
}

// Catalog lists skills under a single skills directory.
type Catalog struct {
	skillsDir string
}

// New creates a Catalog rooted at skillsDir.
func New(skillsDir string) *Catalog {
	return &Catalog{skillsDir: skillsDir}
}

// List scans the skills directory and returns metadata for every skill
// that carries a documentation file. Directories without one are silently
// skipped; a skill with unreadable or malformed frontmatter still appears
// with its name only.
func (c *Catalog) List() []Meta {
	entries, err := os.ReadDir(c.skillsDir)
	if err != nil {
		return []Meta{}
	}

	skills := []Meta{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		data, err := os.ReadFile(filepath.Join(c.skillsDir, name, docFile))
		if err != nil {
			continue
		}

		meta := Meta{Name: name}
		if front, _, ok := schema.SplitFrontmatter(string(data)); ok {
			var dm docMeta
			if yaml.Unmarshal([]byte(front), &dm) == nil {
				meta.Description = dm.Description
				meta.Version = dm.Version
				meta.Category = dm.Category
				meta.Tier = dm.Tier
				meta.Tags = dm.Tags
				meta.Requires = dm.Requires
			}
		}
		if meta.Category == "" {
			if prefix, _, ok := strings.Cut(name, "-"); ok {
				meta.Category = prefixCategories[prefix]
			}
		}
		skills = append(skills, meta)
	}
	return skills
}

// Actions returns the action names declared in a skill's frontmatter.
// Used as a discovery fallback when the execution collaborator cannot
// enumerate actions itself.
func (c *Catalog) Actions(skill string) []string {
	data, err := os.ReadFile(filepath.Join(c.skillsDir, skill, docFile))
	if err != nil {
		return nil
	}
	return schema.FrontmatterActions(string(data))
}

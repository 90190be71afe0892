package schema

import (
	"regexp"
	"strings"
)

// headingDenylist holds section headings that look like entity groups but
// are documentation boilerplate, not record types.
var headingDenylist = map[string]bool{
	"quick command reference":          true,
	"key concepts":                     true,
	"confirmation requirements":        true,
	"proactive suggestions":            true,
	"inter-skill coordination":         true,
	"response formatting":              true,
	"error recovery":                   true,
	"sub-skills":                       true,
	"essential commands":               true,
	"skill activation triggers":        true,
	"setup (first use only)":           true,
	"the draft-submit-cancel lifecycle": true,
}

var (
	headingRe   = regexp.MustCompile(`^###\s+(.+?)(?:\s*\(\d+\s*actions?\))?\s*$`)
	separatorRe = regexp.MustCompile(`^[-:]+$`)

	// `--flag-name` (hint) — the hint may be a default, a type note, or a
	// pipe-separated enum.
	backtickFlagRe = regexp.MustCompile("^`([^`]+)`" + `\s*(?:\(([^)]+)\))?`)
	bareFlagRe     = regexp.MustCompile(`^--(\S+)\s*(?:\(([^)]+)\))?`)
)

// tableStrategy scans the prose body for pipe-delimited action tables:
//
//	| Action | Required Flags | Optional Flags |
//	| add-customer | `--name` | `--type` (individual\|company) |
//
// Section headings feed entity groups. Signals "try next strategy" when no
// action rows are found.
type tableStrategy struct{}

func (tableStrategy) name() string { return "tables" }

func (tableStrategy) parse(doc document) (*Result, bool) {
	result := NewResult()
	groups := newGroupTracker()

	currentGroup := ""
	inActionTable := false

	for _, line := range strings.Split(doc.body, "\n") {
		stripped := strings.TrimSpace(line)

		if m := headingRe.FindStringSubmatch(stripped); m != nil {
			name := strings.TrimSpace(m[1])
			inActionTable = false
			if headingDenylist[strings.ToLower(name)] {
				continue
			}
			currentGroup = name
			continue
		}

		if strings.HasPrefix(stripped, "|") && strings.HasSuffix(stripped, "|") {
			cells := splitTableRow(stripped)

			if len(cells) >= 2 && isActionTableHeader(cells) {
				inActionTable = true
				continue
			}
			if isSeparatorRow(cells) {
				continue
			}

			if inActionTable && len(cells) >= 2 {
				actionName := stripBackticks(cells[0])
				if actionName == "" || strings.HasPrefix(actionName, "-") {
					continue
				}

				action := &Action{
					ActionType: ActionTypeOf(actionName),
					Required:   parseFlagCell(cells[1], true),
					Optional:   []Field{},
				}
				optCell := ""
				if len(cells) > 2 {
					optCell = cells[2]
				}
				seen := map[string]bool{}
				for _, f := range action.Required {
					seen[f.Name] = true
				}
				for _, f := range parseFlagCell(optCell, false) {
					if !seen[f.Name] {
						action.Optional = append(action.Optional, f)
					}
				}

				if currentGroup != "" {
					action.EntityGroup = currentGroup
					groups.add(currentGroup, actionName)
				}
				result.Actions[actionName] = action
			}
			continue
		}

		// Any other non-empty, non-heading line terminates the table.
		if stripped != "" && !strings.HasPrefix(stripped, "#") {
			inActionTable = false
		}
	}

	if result.Empty() {
		return nil, false
	}
	result.Groups = groups.groups()
	return result, true
}

// splitTableRow splits a |-delimited row into trimmed cells. Escaped
// pipes (\|) inside cells — used by enum hints like (warn\|stop) — are
// protected before splitting and restored afterwards.
func splitTableRow(row string) []string {
	const marker = "\x00"
	safe := strings.ReplaceAll(row, `\|`, marker)
	raw := strings.Split(safe, "|")
	if len(raw) < 2 {
		return nil
	}
	cells := make([]string, 0, len(raw)-2)
	for _, c := range raw[1 : len(raw)-1] {
		cells = append(cells, strings.ReplaceAll(strings.TrimSpace(c), marker, "|"))
	}
	return cells
}

func isActionTableHeader(cells []string) bool {
	if !strings.Contains(strings.ToLower(cells[0]), "action") {
		return false
	}
	for _, c := range cells {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "flag") || strings.Contains(lower, "required") {
			return true
		}
	}
	return false
}

func isSeparatorRow(cells []string) bool {
	any := false
	for _, c := range cells {
		if c == "" {
			continue
		}
		if !separatorRe.MatchString(c) {
			return false
		}
		any = true
	}
	return any
}

func stripBackticks(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "`"))
}

// parseFlagCell parses a comma-separated flag cell into fields.
func parseFlagCell(cell string, required bool) []Field {
	cell = strings.TrimSpace(cell)
	fields := []Field{}
	if cell == "" || cell == "(none)" {
		return fields
	}

	for _, part := range splitFlagCell(cell) {
		part = strings.TrimSpace(part)
		if part == "" || part == "(none)" {
			continue
		}
		name, hint, enumOpts := parseFlagSyntax(part)
		name = strings.TrimSpace(strings.TrimLeft(strings.Trim(name, "`"), "-"))
		if name == "" || name == "none" {
			continue
		}
		field := Infer(name, Hints{Value: hint, Enum: enumOpts})
		field.Required = required
		fields = append(fields, field)
	}
	return fields
}

// splitFlagCell splits on commas that begin a new backtick-quoted flag, so
// commas inside parenthesized hints survive. Cells without any backtick
// syntax fall back to a plain comma split.
func splitFlagCell(cell string) []string {
	if !strings.Contains(cell, "`") {
		return strings.Split(cell, ",")
	}
	var parts []string
	start := 0
	for i := 0; i < len(cell); i++ {
		if cell[i] != ',' {
			continue
		}
		j := i + 1
		for j < len(cell) && (cell[j] == ' ' || cell[j] == '\t') {
			j++
		}
		if j < len(cell) && cell[j] == '`' {
			parts = append(parts, cell[start:i])
			start = j
			i = j - 1
		}
	}
	return append(parts, cell[start:])
}

// parseFlagSyntax pulls the flag name and parenthesized hint out of one
// cell entry. A pipe-separated hint is an enum; anything else is returned
// raw for the inference engine to interpret (default literal, JSON note).
func parseFlagSyntax(raw string) (name, hint string, enumOpts []string) {
	raw = strings.TrimSpace(raw)
	m := backtickFlagRe.FindStringSubmatch(raw)
	if m == nil {
		m = bareFlagRe.FindStringSubmatch(raw)
	}
	if m == nil {
		return strings.TrimLeft(raw, "-"), "", nil
	}
	name = strings.TrimLeft(m[1], "-")
	hint = m[2]
	if hint != "" {
		if strings.Contains(hint, "|") && !strings.HasPrefix(strings.ToUpper(hint), "JSON") {
			for _, v := range strings.Split(hint, "|") {
				if v = strings.TrimSpace(v); v != "" {
					enumOpts = append(enumOpts, v)
				}
			}
			hint = ""
		}
	}
	return name, hint, enumOpts
}

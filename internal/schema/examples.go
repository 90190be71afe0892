package schema

import (
	"regexp"
	"sort"
	"strings"
)

var (
	actionLineRe = regexp.MustCompile(
		`^((?:add|create|update|list|get|submit|cancel|delete|generate|compute` +
			`|seed|setup|validate)-[\w-]+)\s*(.*)`)
	flagTokenRe = regexp.MustCompile(`--[a-zA-Z][\w-]*`)
	dateValueRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// exampleStrategy extracts schemas from literal command lines inside
// fenced code blocks:
//
//	```
//	add-customer --name "Test" --type individual --company-id <id>
//	add-customer --name "Other"
//	```
//
// A flag present in every example of an action is required; a flag present
// in only some is optional. This is the last documentation strategy and
// always yields a result, possibly with no actions at all.
type exampleStrategy struct{}

func (exampleStrategy) name() string { return "examples" }

func (exampleStrategy) parse(doc document) (*Result, bool) {
	// action → one flag map per observed example
	observed := map[string][]map[string]string{}
	var order []string
	inCode := false

	for _, line := range strings.Split(doc.body, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "```") {
			inCode = !inCode
			continue
		}
		if !inCode || stripped == "" {
			continue
		}
		m := actionLineRe.FindStringSubmatch(stripped)
		if m == nil {
			continue
		}
		name := m[1]
		if _, ok := observed[name]; !ok {
			order = append(order, name)
		}
		observed[name] = append(observed[name], extractCommandFlags(m[2]))
	}

	result := NewResult()
	groups := newGroupTracker()

	for _, actionName := range order {
		examples := observed[actionName]

		all := map[string]bool{}
		for _, ex := range examples {
			for flag := range ex {
				all[flag] = true
			}
		}
		requiredSet := map[string]bool{}
		for flag := range all {
			requiredSet[flag] = true
			for _, ex := range examples {
				if _, ok := ex[flag]; !ok {
					requiredSet[flag] = false
					break
				}
			}
		}

		action := &Action{
			ActionType: ActionTypeOf(actionName),
			Required:   []Field{},
			Optional:   []Field{},
		}
		for _, flag := range sortedKeys(all) {
			field := inferFromExample(flag, firstValue(examples, flag))
			field.Required = requiredSet[flag]
			if field.Required {
				action.Required = append(action.Required, field)
			} else {
				action.Optional = append(action.Optional, field)
			}
		}

		if group := DeriveEntityGroup(actionName); group != "" {
			action.EntityGroup = group
			groups.add(group, actionName)
		}
		result.Actions[actionName] = action
	}

	result.Groups = groups.groups()
	return result, true
}

// extractCommandFlags parses "--flag value" pairs out of one command line.
// Quoted values are unwrapped; <placeholder> values count as flag presence
// with no concrete hint.
func extractCommandFlags(rest string) map[string]string {
	flags := map[string]string{}
	locs := flagTokenRe.FindAllStringIndex(rest, -1)
	for i, loc := range locs {
		name := rest[loc[0]+2 : loc[1]]
		end := len(rest)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := strings.TrimSpace(rest[loc[1]:end])
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		if strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">") {
			value = ""
		}
		flags[name] = value
	}
	return flags
}

// inferFromExample infers a field from a flag name plus an example value.
// A date-shaped value forces the date type even when the name alone would
// infer something else; only JSON-shaped and numeric values are forwarded
// as hints, so free-text sample values never become defaults.
func inferFromExample(name, value string) Field {
	clean := strings.Trim(value, `'"`)
	switch {
	case clean == "":
		return Infer(name, Hints{})
	case strings.HasPrefix(clean, "[") || strings.HasPrefix(clean, "{") ||
		strings.Contains(clean, "..."):
		return Infer(name, Hints{Value: clean})
	case (clean == "0" || clean == "1" || clean == "true" || clean == "false") &&
		hasBoolPrefix(strings.ReplaceAll(name, "_", "-")):
		// 0/1 sample for a boolean-ish name is not a numeric hint.
		return Infer(name, Hints{})
	case dateValueRe.MatchString(clean):
		field := Infer(name, Hints{})
		field.Type = TypeDate
		return field
	case numericRe.MatchString(clean):
		return Infer(name, Hints{Value: clean})
	}
	return Infer(name, Hints{})
}

func firstValue(examples []map[string]string, flag string) string {
	for _, ex := range examples {
		if v := ex[flag]; v != "" {
			return v
		}
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package schema

import (
	"regexp"
	"strings"
)

// crossSkillLookups maps entity names to the skill that owns their list
// action. A parameter like company-id always resolves against the owning
// skill, regardless of which skill declares the parameter.
var crossSkillLookups = map[string]struct{ skill, action string }{
	"company":       {"erpclaw-setup", "list-companies"},
	"account":       {"erpclaw-gl", "list-accounts"},
	"fiscal-year":   {"erpclaw-gl", "list-fiscal-years"},
	"cost-center":   {"erpclaw-gl", "list-cost-centers"},
	"item":          {"erpclaw-inventory", "list-items"},
	"warehouse":     {"erpclaw-inventory", "list-warehouses"},
	"customer":      {"erpclaw-selling", "list-customers"},
	"supplier":      {"erpclaw-buying", "list-suppliers"},
	"employee":      {"erpclaw-hr", "list-employees"},
	"department":    {"erpclaw-hr", "list-departments"},
	"designation":   {"erpclaw-hr", "list-designations"},
	"tax-template":  {"erpclaw-tax", "list-tax-templates"},
	"payment-terms": {"erpclaw-setup", "list-payment-terms"},
	"holiday-list":  {"erpclaw-hr", "list-holiday-lists"},
}

// currencyNames are parameter names that always denote money.
var currencyNames = map[string]bool{
	"amount": true, "paid-amount": true, "received-amount": true,
	"total": true, "grand-total": true, "net-total": true,
	"base-amount": true, "outstanding-amount": true, "credit-limit": true,
	"budget-amount": true, "rate": true, "standard-rate": true,
	"base-total": true,
}

// textareaNames are parameter names that get a multi-line input.
var textareaNames = map[string]bool{
	"remarks": true, "description": true, "notes": true,
	"reason": true, "address": true, "terms": true,
}

// dateNames are canonical date parameter names without a -date suffix.
var dateNames = map[string]bool{
	"date": true, "valid-till": true, "from-date": true, "to-date": true,
	"effective-from": true, "effective-to": true,
	"period-start": true, "period-end": true,
	"valid-from": true, "valid-to": true,
}

var numericRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Hints carries the optional evidence available to Infer. Zero value means
// name-only inference.
type Hints struct {
	DeclaredType string   // declared spec type: string|integer|float|number|boolean|json|object|array
	Value        string   // example or default literal ("" = none)
	Enum         []string // explicit enumerated options
	Description  string   // free-text description, scanned for enum patterns
}

// Infer maps a parameter name plus whatever hints are available to a Field.
// Required is left false; the caller owns that flag. Precedence is fixed:
// enum > json > entity lookup > declared numeric > date/time > currency >
// rate/quantity > textarea > email/phone > boolean > text.
func Infer(name string, h Hints) Field {
	kebab := strings.ReplaceAll(name, "_", "-")
	f := Field{Name: name, Label: nameToLabel(kebab)}
	if h.Description != "" {
		f.Description = h.Description
	}

	// Rule 1: enumerated options, explicit or parsed from the description.
	// A description enum wins even over an explicit declared type.
	opts := h.Enum
	if len(opts) == 0 {
		opts = parseEnumFromDescription(h.Description)
	}
	if len(opts) > 0 {
		f.Type = TypeSelect
		for _, o := range opts {
			f.Options = append(f.Options, Option{
				Label: nameToLabel(strings.ReplaceAll(o, "_", "-")),
				Value: o,
			})
		}
		return f
	}

	// Rule 2: JSON-shaped values, a literal JSON annotation, or declared
	// structured types.
	val := strings.Trim(h.Value, `'"`)
	if strings.EqualFold(val, "json") ||
		strings.HasPrefix(val, "[") || strings.HasPrefix(val, "{") || strings.Contains(val, "...") {
		f.Type = TypeJSON
		return f
	}
	switch h.DeclaredType {
	case "json", "object", "array":
		f.Type = TypeJSON
		return f
	case "boolean":
		f.Type = TypeBoolean
		return f
	}

	// Rule 4 is checked ahead of the numeric rules on purpose: an -id
	// parameter is an entity reference even when its declared type is
	// numeric (integer surrogate keys are still lookups).
	if strings.HasSuffix(kebab, "-id") {
		entity := strings.TrimSuffix(kebab, "-id")
		f.Type = TypeEntityLookup
		f.Label = nameToLabel(entity)
		if x, ok := crossSkillLookups[entity]; ok {
			f.LookupSkill = x.skill
			f.LookupAction = x.action
		} else {
			// Same-skill guess; always non-empty even when the target
			// skill cannot be resolved.
			f.LookupAction = "list-" + Pluralize(entity)
		}
		return f
	}

	// Rule 3: declared numeric types.
	switch h.DeclaredType {
	case "integer":
		if isCurrencyName(kebab, false) {
			f.Type = TypeCurrency
		} else {
			f.Type = TypeNumber
			f.Step = 1
		}
		return f
	case "float", "number":
		if isCurrencyName(kebab, true) {
			f.Type = TypeCurrency
		} else {
			f.Type = TypeNumber
			f.Step = 0.01
		}
		return f
	}

	// A numeric value hint acts as a default and settles number vs currency.
	if val != "" && numericRe.MatchString(val) {
		if isCurrencyName(kebab, true) {
			f.Type = TypeCurrency
		} else {
			f.Type = TypeNumber
		}
		f.Default = val
		return f
	}
	// Any other short, word-like value is carried as a default literal
	// (e.g. "USD", "moving_average") and inference continues on the name.
	if val != "" && val != "none" && len(val) < 30 && !strings.Contains(val, " ") {
		f.Default = val
	}

	// Rule 5: date and time names.
	if strings.HasSuffix(kebab, "-date") || dateNames[kebab] {
		f.Type = TypeDate
		return f
	}
	if strings.HasSuffix(kebab, "-time") || kebab == "start-time" || kebab == "end-time" {
		f.Type = TypeTime
		return f
	}

	// Rule 6: currency names without a declared numeric type.
	if currencyNames[kebab] || strings.HasSuffix(kebab, "-amount") || strings.HasSuffix(kebab, "-total") {
		f.Type = TypeCurrency
		return f
	}

	// Rule 7: rates and quantities.
	if strings.HasSuffix(kebab, "-rate") ||
		kebab == "exchange-rate" || kebab == "qty" || kebab == "quantity" ||
		kebab == "limit" || kebab == "offset" {
		f.Type = TypeNumber
		return f
	}

	// Rule 8: long-text fields.
	if textareaNames[kebab] || strings.HasSuffix(kebab, "-remarks") ||
		strings.HasSuffix(kebab, "-notes") || strings.HasSuffix(kebab, "-description") {
		f.Type = TypeTextarea
		return f
	}

	// Rule 9: email and phone.
	if kebab == "email" || strings.HasSuffix(kebab, "-email") {
		f.Type = TypeEmail
		return f
	}
	if kebab == "phone" || strings.HasSuffix(kebab, "-phone") {
		f.Type = TypePhone
		return f
	}

	// Rule 10: boolean-ish prefixes.
	if hasBoolPrefix(kebab) {
		f.Type = TypeBoolean
		return f
	}

	f.Type = TypeText
	return f
}

// isCurrencyName reports whether a kebab-case name denotes money.
// Declared-float parameters additionally treat -rate/-price suffixes as
// currency (an hourly-rate declared as float is a money column).
func isCurrencyName(kebab string, floatDeclared bool) bool {
	if currencyNames[kebab] ||
		strings.HasSuffix(kebab, "-amount") || strings.HasSuffix(kebab, "-total") {
		return true
	}
	if floatDeclared &&
		(strings.HasSuffix(kebab, "-rate") || strings.HasSuffix(kebab, "-price")) {
		return true
	}
	return false
}

func hasBoolPrefix(kebab string) bool {
	for _, p := range []string{"is-", "has-", "enable-", "exempt-"} {
		if strings.HasPrefix(kebab, p) {
			return true
		}
	}
	return false
}

// nameToLabel converts a kebab-case name to a Title Case label:
// "paid-from-account" → "Paid From Account".
func nameToLabel(kebab string) string {
	words := strings.Split(kebab, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Pluralize derives the plural entity segment used in guessed list action
// names. It is deliberately tiny and deterministic so that every discovery
// strategy and the storage introspector agree on the same guess.
func Pluralize(entity string) string {
	kebab := strings.ReplaceAll(entity, "_", "-")
	switch {
	case strings.HasSuffix(kebab, "y"):
		return kebab[:len(kebab)-1] + "ies"
	case strings.HasSuffix(kebab, "s"), strings.HasSuffix(kebab, "x"),
		strings.HasSuffix(kebab, "ch"):
		return kebab + "es"
	default:
		return kebab + "s"
	}
}

var enumDescRes = []*regexp.Regexp{
	// "Type: room, equipment, vehicle, or space"
	regexp.MustCompile(`(?i)(?:type|filter|status|purpose|method|mode|category|kind):\s*(.+)`),
	// "Filter by status: draft, confirmed, completed, cancelled"
	regexp.MustCompile(`(?i)filter by \w+:\s*(.+)`),
	// "Purpose: meeting, event, training, personal, other"
	regexp.MustCompile(`(?i)^\w+:\s*(.+)$`),
}

var orAndRe = regexp.MustCompile(`\s+(?:or|and)\s+`)

// parseEnumFromDescription extracts enumerated values from a free-text
// field description like "Type: room, equipment, vehicle, or space".
// Returns nil unless at least two short single-word values are found.
func parseEnumFromDescription(desc string) []string {
	if desc == "" {
		return nil
	}
	for _, re := range enumDescRes {
		m := re.FindStringSubmatch(desc)
		if m == nil {
			continue
		}
		raw := strings.TrimRight(strings.TrimSpace(m[1]), ".")
		raw = orAndRe.ReplaceAllString(raw, ", ")
		var vals []string
		for _, v := range strings.Split(raw, ",") {
			v = strings.Trim(strings.TrimSpace(v), `'"`)
			if v != "" {
				vals = append(vals, v)
			}
		}
		if len(vals) < 2 {
			continue
		}
		ok := true
		for _, v := range vals {
			if len(v) >= 30 || strings.Contains(v, " ") {
				ok = false
				break
			}
		}
		if ok {
			return vals
		}
	}
	return nil
}

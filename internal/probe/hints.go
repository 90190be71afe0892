package probe

import (
	"regexp"
	"strings"
)

// HintExtractor pulls required-parameter names out of a skill's free-text
// validation error. Extractors are tried in order; the first one that
// matches wins. Error text is an untyped side channel, so each known skill
// convention is its own small, independently testable strategy.
type HintExtractor interface {
	Name() string
	Extract(msg string) []string
}

// DefaultExtractors covers the three error conventions seen across skills.
func DefaultExtractors() []HintExtractor {
	return []HintExtractor{
		flagIsRequired{},
		requiredFlagList{},
		missingParameters{},
	}
}

// flagIsRequired matches "--name is required".
type flagIsRequired struct{}

var flagIsRequiredRe = regexp.MustCompile(`--(\S+)\s+is\s+required`)

func (flagIsRequired) Name() string { return "flag-is-required" }

func (flagIsRequired) Extract(msg string) []string {
	var names []string
	for _, m := range flagIsRequiredRe.FindAllStringSubmatch(msg, -1) {
		names = append(names, m[1])
	}
	return names
}

// requiredFlagList matches argparse-style
// "the following arguments are required: --name, --type".
type requiredFlagList struct{}

var (
	requiredListRe = regexp.MustCompile(`required:\s*(.+)`)
	flagNameRe     = regexp.MustCompile(`--(\S+)`)
)

func (requiredFlagList) Name() string { return "required-flag-list" }

func (requiredFlagList) Extract(msg string) []string {
	m := requiredListRe.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	var names []string
	for _, f := range flagNameRe.FindAllStringSubmatch(m[1], -1) {
		names = append(names, strings.TrimRight(f[1], ","))
	}
	return names
}

// missingParameters matches "Missing required parameter(s): name, type"
// where names carry no -- prefix.
type missingParameters struct{}

var missingRe = regexp.MustCompile(`(?i)missing.*?(?:parameter|argument)s?:?\s*(.+)`)

func (missingParameters) Name() string { return "missing-parameters" }

func (missingParameters) Extract(msg string) []string {
	m := missingRe.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	var names []string
	for _, p := range strings.Split(m[1], ",") {
		p = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(p), "-"))
		if p != "" && len(p) < 30 {
			names = append(names, p)
		}
	}
	return names
}

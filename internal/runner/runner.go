// Package runner executes skill actions as subprocesses and normalizes
// their JSON output into a status envelope. It is the single execution
// path shared by the HTTP pass-through routes and the live prober.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DiscoverAction is the pseudo-action used to enumerate a skill's actions.
// Skills that validate --action against a closed set reject it, and the
// rejection carries the full action list.
const DiscoverAction = "__discover__"

const (
	entryScript    = "db_query.py"
	defaultTimeout = 30 * time.Second
	maxStderrLen   = 500
)

var (
	choicesRe  = regexp.MustCompile(`choose from (.+)\)`)
	jsonLineRe = regexp.MustCompile(`^\{.*\}$`)
)

// Runner invokes skill scripts under <skillsDir>/<skill>/scripts/.
type Runner struct {
	skillsDir string
	timeout   time.Duration
}

// New creates a Runner. timeout <= 0 selects the 30s default.
func New(skillsDir string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Runner{skillsDir: skillsDir, timeout: timeout}
}

// scriptPath resolves the entry script for a skill, or "" if absent.
func (r *Runner) scriptPath(skill string) string {
	script := filepath.Join(r.skillsDir, skill, "scripts", entryScript)
	if _, err := os.Stat(script); err != nil {
		return ""
	}
	return script
}

// BuildArgs converts an action plus a parameter map into a CLI argument
// list. Booleans become "1" (true) or are omitted (false) since skill
// scripts use value-based boolean flags, not presence flags. Keys starting
// with "_" are gateway-internal and never forwarded.
func BuildArgs(action string, params map[string]any) []string {
	args := []string{"--action", action}
	for key, value := range params {
		if strings.HasPrefix(key, "_") {
			continue
		}
		flag := "--" + key
		switch v := value.(type) {
		case nil:
			continue
		case bool:
			if v {
				args = append(args, flag, "1")
			}
		case string:
			switch strings.ToLower(v) {
			case "true":
				args = append(args, flag, "1")
			case "false":
				// omitted: absence means false
			default:
				if strings.TrimSpace(v) != "" {
					args = append(args, flag, v)
				}
			}
		default:
			s := fmt.Sprintf("%v", v)
			if strings.TrimSpace(s) != "" {
				args = append(args, flag, s)
			}
		}
	}
	return args
}

// Execute runs one action and returns the decoded status envelope. It
// never returns an error: every failure mode is folded into a
// {"status": "error", "message": ...} map so callers (and probers reading
// error text) have a single shape to deal with.
func (r *Runner) Execute(ctx context.Context, skill, action string, params map[string]any) map[string]any {
	script := r.scriptPath(skill)
	if script == "" {
		return errMap("Skill not found: " + skill)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "python3", append([]string{script}, BuildArgs(action, params)...)...)
	cmd.Dir = filepath.Dir(script)
	cmd.Env = append(os.Environ(), "PYTHONPATH="+pythonPath(filepath.Dir(script)))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return errMap(fmt.Sprintf("Action timed out (%ds)", int(r.timeout.Seconds())))
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return r.decodeStderr(stderr.String(), runErr)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		return errMap("Invalid JSON: " + truncate(output, 200))
	}
	if _, ok := result["_ui"]; !ok {
		if ui := autoUI(action, result); ui != nil {
			result["_ui"] = ui
		}
	}
	return result
}

// decodeStderr recovers a usable envelope from a skill that produced no
// stdout. Argparse choice errors are mined for the action list; otherwise
// the last JSON-looking stderr line wins; otherwise the raw text is
// returned truncated.
func (r *Runner) decodeStderr(errText string, runErr error) map[string]any {
	errText = strings.TrimSpace(errText)

	if strings.Contains(errText, "error: argument --action: invalid choice:") {
		msg := "Invalid action"
		for _, line := range strings.Split(errText, "\n") {
			if strings.Contains(line, "error: argument --action:") {
				if _, after, ok := strings.Cut(line, "error: "); ok {
					msg = after
				}
				break
			}
		}
		if m := choicesRe.FindStringSubmatch(errText); m != nil {
			var actions []any
			for _, a := range strings.Split(m[1], ",") {
				if a = strings.Trim(strings.TrimSpace(a), "'"); a != "" {
					actions = append(actions, a)
				}
			}
			return map[string]any{"status": "error", "message": msg, "available_actions": actions}
		}
		return errMap(msg)
	}

	// Some skills write their JSON envelope to stderr.
	lines := strings.Split(errText, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !jsonLineRe.MatchString(line) {
			continue
		}
		var result map[string]any
		if err := json.Unmarshal([]byte(line), &result); err == nil {
			return result
		}
	}

	if errText == "" {
		if runErr != nil {
			return errMap("Subprocess error: " + runErr.Error())
		}
		return errMap("No output from skill")
	}
	return errMap(truncate(errText, maxStderrLen))
}

// Discover enumerates a skill's actions via the __discover__ pseudo-action.
// Falls back to parsing "Available actions: a, b" suggestion text when the
// response carries no structured action list.
func (r *Runner) Discover(ctx context.Context, skill string) []string {
	result := r.Execute(ctx, skill, DiscoverAction, nil)

	if actions := stringList(result["available_actions"]); len(actions) > 0 {
		return actions
	}
	if actions := stringList(result["available"]); len(actions) > 0 {
		return actions
	}

	suggestion, _ := result["suggestion"].(string)
	if suggestion == "" {
		suggestion, _ = result["message"].(string)
	}
	lower := strings.ToLower(suggestion)
	if idx := strings.Index(lower, "available actions:"); idx >= 0 {
		raw := suggestion[idx+len("available actions:"):]
		var actions []string
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, a)
			}
		}
		if len(actions) > 0 {
			return actions
		}
	}

	log.Printf("[Runner] %s: action discovery failed", skill)
	return nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func pythonPath(scriptDir string) string {
	paths := []string{scriptDir}
	if existing := os.Getenv("PYTHONPATH"); existing != "" {
		paths = append(paths, existing)
	}
	return strings.Join(paths, string(os.PathListSeparator))
}

func errMap(msg string) map[string]any {
	return map[string]any{"status": "error", "message": msg}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// autoUI supplies a basic toast directive for skill responses that carry
// none of their own.
func autoUI(action string, result map[string]any) map[string]any {
	status, _ := result["status"].(string)
	msg, _ := result["message"].(string)

	toast := func(kind, fallback string) map[string]any {
		text := msg
		if text == "" {
			text = fallback
		}
		return map[string]any{"toast": map[string]any{"type": kind, "message": text}}
	}

	switch {
	case status == "error":
		if msg == "" {
			msg = "Action failed"
		}
		return map[string]any{"toast": map[string]any{"type": "error", "message": msg, "duration": 0}}
	case strings.HasPrefix(action, "add-"):
		name, _ := result["name"].(string)
		if name == "" {
			name, _ = result["id"].(string)
		}
		text := "Created successfully"
		if name != "" {
			text = "Created " + name
		}
		return map[string]any{"toast": map[string]any{"type": "success", "message": text}}
	case strings.HasPrefix(action, "submit-"):
		return toast("success", "Submitted successfully")
	case strings.HasPrefix(action, "cancel-"):
		return toast("warning", "Cancelled")
	case strings.HasPrefix(action, "delete-"):
		return toast("info", "Deleted")
	case strings.HasPrefix(action, "update-"):
		return toast("success", "Updated successfully")
	}
	return nil
}

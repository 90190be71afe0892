package schema

import "strings"

// Action type identifiers derived from the verb prefix of an action name.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionList       = "list"
	ActionRead       = "read"
	ActionSubmit     = "submit"
	ActionCancel     = "cancel"
	ActionDelete     = "delete"
	ActionTransition = "status-transition"
	ActionUtility    = "utility"
	ActionSetup      = "setup"
	ActionGeneric    = "action"
)

// ActionTypeOf derives the action type from the verb-noun naming
// convention. Shared by every discovery strategy.
func ActionTypeOf(action string) string {
	switch {
	case strings.HasPrefix(action, "add-"), strings.HasPrefix(action, "create-"):
		return ActionCreate
	case strings.HasPrefix(action, "update-"):
		return ActionUpdate
	case strings.HasPrefix(action, "list-"):
		return ActionList
	case strings.HasPrefix(action, "get-"):
		return ActionRead
	case strings.HasPrefix(action, "submit-"):
		return ActionSubmit
	case strings.HasPrefix(action, "cancel-"):
		return ActionCancel
	case strings.HasPrefix(action, "delete-"):
		return ActionDelete
	case strings.HasPrefix(action, "confirm-"), strings.HasPrefix(action, "complete-"),
		strings.HasPrefix(action, "approve-"), strings.HasPrefix(action, "reject-"):
		return ActionTransition
	case strings.HasPrefix(action, "check-"), strings.HasPrefix(action, "validate-"):
		return ActionUtility
	case strings.HasPrefix(action, "seed-"), strings.HasPrefix(action, "setup-"):
		return ActionSetup
	}
	return ActionGeneric
}

var groupPrefixes = []string{
	"add-", "create-", "update-", "list-", "get-", "submit-",
	"cancel-", "delete-", "confirm-", "complete-", "approve-", "reject-",
	"generate-", "compute-", "seed-", "setup-",
}

// DeriveEntityGroup turns an action name into a human-facing group label:
// "add-sales-invoice" → "Sales Invoice", "list-customers" → "Customer".
// Returns "" for names without a recognized verb prefix.
func DeriveEntityGroup(action string) string {
	for _, prefix := range groupPrefixes {
		if !strings.HasPrefix(action, prefix) {
			continue
		}
		entity := action[len(prefix):]
		// Singularize plural nouns from list-/generate- style actions.
		switch {
		case strings.HasSuffix(entity, "ies"):
			entity = entity[:len(entity)-3] + "y"
		case strings.HasSuffix(entity, "ses"):
			entity = entity[:len(entity)-2]
		case strings.HasSuffix(entity, "s") && !strings.HasSuffix(entity, "ss"):
			entity = entity[:len(entity)-1]
		}
		return nameToLabel(entity)
	}
	return ""
}

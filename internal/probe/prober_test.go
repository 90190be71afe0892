package probe

import (
	"context"
	"sync"
	"testing"

	"github.com/skillgate/skillgate/internal/schema"
)

// fakeExecutor returns canned error messages per action and counts calls.
type fakeExecutor struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	calls     int
}

func (f *fakeExecutor) Execute(_ context.Context, _, action string, _ map[string]any) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if resp, ok := f.responses[action]; ok {
		return resp
	}
	return map[string]any{"status": "error", "message": "unknown action"}
}

func errResp(msg string) map[string]any {
	return map[string]any{"status": "error", "message": msg}
}

func TestProbe_RequiredFromErrorText(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]map[string]any{
		"add-customer": errResp("--customer-name is required"),
	}}
	p := New(exec, 0)

	result := p.Probe(context.Background(), "selling", []string{"add-customer"})
	action := result.Actions["add-customer"]
	if action == nil {
		t.Fatal("add-customer missing")
	}
	if len(action.Required) != 1 {
		t.Fatalf("expected 1 required field, got %+v", action.Required)
	}
	f := action.Required[0]
	if f.Name != "customer-name" || f.Type != schema.TypeText || !f.Required {
		t.Errorf("unexpected field: %+v", f)
	}
	if result.Source != schema.SourceProbe {
		t.Errorf("expected probe source, got %q", result.Source)
	}
}

func TestProbe_NonMutationsNotProbed(t *testing.T) {
	exec := &fakeExecutor{}
	p := New(exec, 0)

	result := p.Probe(context.Background(), "selling", []string{"list-customers", "get-balance"})
	if exec.calls != 0 {
		t.Errorf("non-mutation actions must not be executed, got %d calls", exec.calls)
	}
	for _, name := range []string{"list-customers", "get-balance"} {
		action := result.Actions[name]
		if action == nil {
			t.Fatalf("%s missing", name)
		}
		if len(action.Required) != 0 || action.Required == nil {
			t.Errorf("%s: expected empty non-nil required, got %+v", name, action.Required)
		}
	}
}

func TestProbe_ArgparseErrors(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]map[string]any{
		"add-expense": errResp("the following arguments are required: --amount, --category"),
	}}
	p := New(exec, 0)

	result := p.Probe(context.Background(), "finance", []string{"add-expense"})
	action := result.Actions["add-expense"]
	if len(action.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %+v", action.Required)
	}
	if action.Required[0].Name != "amount" || action.Required[1].Name != "category" {
		t.Errorf("unexpected fields: %+v", action.Required)
	}
	if action.Required[0].Type != schema.TypeCurrency {
		t.Errorf("amount should infer currency, got %q", action.Required[0].Type)
	}
}

func TestProbe_UnparseableErrorYieldsEmptyFields(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]map[string]any{
		"add-widget": errResp("something went wrong"),
	}}
	p := New(exec, 0)

	result := p.Probe(context.Background(), "widgets", []string{"add-widget"})
	action := result.Actions["add-widget"]
	if action == nil || action.Required == nil || len(action.Required) != 0 {
		t.Errorf("expected empty non-nil required, got %+v", action)
	}
}

func TestProbe_Memoized(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]map[string]any{
		"add-customer": errResp("--customer-name is required"),
	}}
	p := New(exec, 0)

	first := p.Probe(context.Background(), "selling", []string{"add-customer"})
	calls := exec.calls
	second := p.Probe(context.Background(), "selling", []string{"add-customer"})

	if exec.calls != calls {
		t.Errorf("cached probe must not re-execute, calls went %d -> %d", calls, exec.calls)
	}
	if first != second {
		t.Error("cached probe must return the same result")
	}
}

func TestProbe_InvalidateForcesReprobe(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]map[string]any{
		"add-customer": errResp("--customer-name is required"),
	}}
	p := New(exec, 0)

	p.Probe(context.Background(), "selling", []string{"add-customer"})
	calls := exec.calls
	p.Invalidate("selling")
	p.Probe(context.Background(), "selling", []string{"add-customer"})

	if exec.calls <= calls {
		t.Error("invalidated skill must be re-probed")
	}
}

func TestProbe_EntityGroups(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]map[string]any{
		"add-invoice": errResp("--total is required"),
	}}
	p := New(exec, 0)

	result := p.Probe(context.Background(), "selling", []string{"add-invoice", "list-invoices"})
	if len(result.Groups) != 1 || result.Groups[0].Name != "Invoice" {
		t.Fatalf("unexpected groups: %+v", result.Groups)
	}
	if len(result.Groups[0].Actions) != 2 {
		t.Errorf("expected both actions grouped, got %v", result.Groups[0].Actions)
	}
}

func TestProbe_ErrorKeyFallback(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]map[string]any{
		"add-entry": {"status": "error", "error": "--entry-date is required"},
	}}
	p := New(exec, 0)

	result := p.Probe(context.Background(), "journal", []string{"add-entry"})
	action := result.Actions["add-entry"]
	if len(action.Required) != 1 || action.Required[0].Name != "entry-date" {
		t.Errorf("expected entry-date from error key, got %+v", action.Required)
	}
	if action.Required[0].Type != schema.TypeDate {
		t.Errorf("expected date, got %q", action.Required[0].Type)
	}
}

func TestIsProbeable(t *testing.T) {
	cases := map[string]bool{
		"add-customer":   true,
		"create-invoice": true,
		"seed-demo-data": true,
		"list-customers": false,
		"delete-draft":   false,
		"submit-invoice": false,
	}
	for action, want := range cases {
		if got := isProbeable(action); got != want {
			t.Errorf("isProbeable(%q) = %v, want %v", action, got, want)
		}
	}
}

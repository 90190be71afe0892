package schema

import "testing"

func parseExamples(t *testing.T, body string) *Result {
	t.Helper()
	result, ok := exampleStrategy{}.parse(document{body: body})
	if !ok {
		t.Fatal("example strategy must always produce a result")
	}
	return result
}

func TestExamples_RequiredIsIntersection(t *testing.T) {
	body := "```\n" +
		`add-expense --amount 50 --category food` + "\n" +
		`add-expense --amount 20` + "\n" +
		"```\n"
	result := parseExamples(t, body)

	action := result.Actions["add-expense"]
	if action == nil {
		t.Fatal("add-expense missing")
	}
	if len(action.Required) != 1 || action.Required[0].Name != "amount" {
		t.Fatalf("expected amount required, got %+v", action.Required)
	}
	if len(action.Optional) != 1 || action.Optional[0].Name != "category" {
		t.Fatalf("expected category optional, got %+v", action.Optional)
	}
}

func TestExamples_OutsideCodeBlockIgnored(t *testing.T) {
	body := "add-expense --amount 50\n\n```\nlist-expenses --limit 10\n```\n"
	result := parseExamples(t, body)

	if _, ok := result.Actions["add-expense"]; ok {
		t.Error("command lines outside fences must be ignored")
	}
	if _, ok := result.Actions["list-expenses"]; !ok {
		t.Error("list-expenses missing")
	}
}

func TestExamples_EmptyBodyYieldsEmptyResult(t *testing.T) {
	result := parseExamples(t, "No commands anywhere.")
	if !result.Empty() {
		t.Errorf("expected empty result, got %+v", result.Actions)
	}
}

func TestExamples_QuotedAndPlaceholderValues(t *testing.T) {
	body := "```\n" +
		`add-customer --customer-name "Acme Corp" --territory <territory>` + "\n" +
		"```\n"
	result := parseExamples(t, body)

	action := result.Actions["add-customer"]
	if action == nil {
		t.Fatal("add-customer missing")
	}
	for _, f := range action.Required {
		if f.Default != "" {
			t.Errorf("%s: sample values must not become defaults, got %q", f.Name, f.Default)
		}
	}
}

func TestExamples_DateValueForcesDateType(t *testing.T) {
	body := "```\nadd-payment --received 2024-06-01\n```\n"
	result := parseExamples(t, body)

	f := result.Actions["add-payment"].Required[0]
	if f.Type != TypeDate {
		t.Errorf("date-shaped value must force date, got %q", f.Type)
	}
}

func TestExamples_NumericValueBecomesDefault(t *testing.T) {
	body := "```\nlist-expenses --limit 25\n```\n"
	result := parseExamples(t, body)

	f := result.Actions["list-expenses"].Required[0]
	if f.Type != TypeNumber || f.Default != "25" {
		t.Errorf("expected number default 25, got %q default %q", f.Type, f.Default)
	}
}

func TestExamples_BoolSampleNotNumericHint(t *testing.T) {
	body := "```\nupdate-alert --is-active 1\n```\n"
	result := parseExamples(t, body)

	f := result.Actions["update-alert"].Required[0]
	if f.Type != TypeBoolean {
		t.Fatalf("expected boolean, got %q", f.Type)
	}
	if f.Default != "" {
		t.Errorf("0/1 sample must not become a default, got %q", f.Default)
	}
}

func TestExamples_JSONValueHint(t *testing.T) {
	body := "```\nadd-invoice --items '[{\"item_id\": 1, \"qty\": 2}]'\n```\n"
	result := parseExamples(t, body)

	f := result.Actions["add-invoice"].Required[0]
	if f.Type != TypeJSON {
		t.Errorf("expected json, got %q", f.Type)
	}
}

func TestExamples_EntityGroups(t *testing.T) {
	body := "```\nadd-invoice --total 10\nlist-invoices\n```\n"
	result := parseExamples(t, body)

	if len(result.Groups) != 1 || result.Groups[0].Name != "Invoice" {
		t.Fatalf("unexpected groups: %+v", result.Groups)
	}
	if len(result.Groups[0].Actions) != 2 {
		t.Errorf("expected both actions grouped, got %v", result.Groups[0].Actions)
	}
}

func TestExtractCommandFlags(t *testing.T) {
	flags := extractCommandFlags(`--name "Jan Retainer" --qty 3 --notes <notes>`)
	if flags["name"] != "Jan Retainer" {
		t.Errorf("quotes must be unwrapped, got %q", flags["name"])
	}
	if flags["qty"] != "3" {
		t.Errorf("unexpected qty value: %q", flags["qty"])
	}
	if flags["notes"] != "" {
		t.Errorf("placeholder must be blanked, got %q", flags["notes"])
	}
}

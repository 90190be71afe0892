package probe

import (
	"reflect"
	"testing"
)

func TestFlagIsRequired(t *testing.T) {
	msg := "Error: --customer-name is required. --territory is required."
	got := flagIsRequired{}.Extract(msg)
	want := []string{"customer-name", "territory"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestFlagIsRequired_NoMatch(t *testing.T) {
	if got := (flagIsRequired{}).Extract("unknown action"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestRequiredFlagList(t *testing.T) {
	msg := "db_query.py: error: the following arguments are required: --amount, --category"
	got := requiredFlagList{}.Extract(msg)
	want := []string{"amount", "category"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestMissingParameters(t *testing.T) {
	msg := "Missing required parameters: item-code, qty, warehouse"
	got := missingParameters{}.Extract(msg)
	want := []string{"item-code", "qty", "warehouse"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestMissingParameters_SkipsLongValues(t *testing.T) {
	msg := "missing argument: " +
		"a-very-long-sentence-that-is-clearly-not-a-parameter-name-at-all"
	if got := (missingParameters{}).Extract(msg); len(got) != 0 {
		t.Errorf("expected no names, got %v", got)
	}
}

func TestExtractorOrder(t *testing.T) {
	extractors := DefaultExtractors()
	if len(extractors) != 3 {
		t.Fatalf("expected 3 extractors, got %d", len(extractors))
	}
	if extractors[0].Name() != "flag-is-required" {
		t.Errorf("unexpected first extractor: %s", extractors[0].Name())
	}
}

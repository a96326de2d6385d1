package event

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestPatchDecodeDistinguishesMissingNullAndValue(t *testing.T) {
	var p Patch
	body := `{"status":"Closed","severity":null,"due_date":"2024-06-30"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !p.Status.Set || p.Status.Null || p.Status.Value != "Closed" {
		t.Fatalf("status field = %+v", p.Status)
	}
	if !p.Severity.Set || !p.Severity.Null {
		t.Fatalf("severity field = %+v, want explicit null", p.Severity)
	}
	if p.Priority.Set {
		t.Fatalf("priority field = %+v, want unset", p.Priority)
	}
	if !p.DueDate.Set || p.DueDate.Value != NewDate(2024, time.June, 30) {
		t.Fatalf("due_date field = %+v", p.DueDate)
	}
	if p.IsEmpty() {
		t.Fatalf("IsEmpty() = true")
	}
}

func TestPatchDecodeRejectsNonStrictDate(t *testing.T) {
	var p Patch
	if err := json.Unmarshal([]byte(`{"event_date":"2024-03-01T10:00:00"}`), &p); err == nil {
		t.Fatalf("Unmarshal() expected error for datetime on patch")
	}
}

func TestPatchValidateTitle(t *testing.T) {
	cases := []Patch{
		{Title: Null[string]()},
		{Title: Value("  ")},
	}
	for _, p := range cases {
		if err := p.Validate(); !errors.Is(err, ErrTitleNotNullable) {
			t.Fatalf("Validate(%+v) = %v, want ErrTitleNotNullable", p.Title, err)
		}
	}
	if err := (Patch{Title: Value("Renamed")}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !(Patch{}).IsEmpty() {
		t.Fatalf("IsEmpty() on zero patch = false")
	}
}

func TestEventJSONShape(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	e := Event{
		ID:        1,
		Title:     "Deviation",
		Status:    strPtr("Open"),
		EventDate: &d,
		CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{
		"id", "title", "description", "event_type", "status", "initiator", "department",
		"reporter", "severity", "priority", "event_date", "responsible_person", "due_date",
		"risk_rationale", "preliminary_root_cause", "date",
	}
	if len(fields) != len(want) {
		t.Fatalf("field count = %d, want %d: %v", len(fields), len(want), fields)
	}
	for _, key := range want {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing key %q in %s", key, raw)
		}
	}
	if fields["event_date"] != "2024-03-01" {
		t.Fatalf("event_date = %v", fields["event_date"])
	}
	if fields["due_date"] != nil {
		t.Fatalf("due_date = %v, want null", fields["due_date"])
	}
	if fields["date"] != "2024-03-01T08:00:00Z" {
		t.Fatalf("date = %v", fields["date"])
	}
}

func strPtr(s string) *string { return &s }

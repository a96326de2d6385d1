package event

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is one member of a sparse patch. A key missing from the JSON body
// leaves Set false; an explicit null sets Set and Null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// Patch is a sparse update. Date fields are taken verbatim and must already be
// YYYY-MM-DD; they do not go through NormalizeDate the way create does.
type Patch struct {
	Title                Field[string] `json:"title"`
	Description          Field[string] `json:"description"`
	EventType            Field[string] `json:"event_type"`
	Status               Field[string] `json:"status"`
	Initiator            Field[string] `json:"initiator"`
	Department           Field[string] `json:"department"`
	Reporter             Field[string] `json:"reporter"`
	Severity             Field[string] `json:"severity"`
	Priority             Field[string] `json:"priority"`
	EventDate            Field[Date]   `json:"event_date"`
	ResponsiblePerson    Field[string] `json:"responsible_person"`
	DueDate              Field[Date]   `json:"due_date"`
	RiskRationale        Field[string] `json:"risk_rationale"`
	PreliminaryRootCause Field[string] `json:"preliminary_root_cause"`
}

func (p Patch) Validate() error {
	if p.Title.Set && (p.Title.Null || strings.TrimSpace(p.Title.Value) == "") {
		return ErrTitleNotNullable
	}
	return nil
}

// IsEmpty reports whether no field is set.
func (p Patch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.EventType.Set && !p.Status.Set &&
		!p.Initiator.Set && !p.Department.Set && !p.Reporter.Set && !p.Severity.Set &&
		!p.Priority.Set && !p.EventDate.Set && !p.ResponsiblePerson.Set && !p.DueDate.Set &&
		!p.RiskRationale.Set && !p.PreliminaryRootCause.Set
}

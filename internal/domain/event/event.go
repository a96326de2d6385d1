package event

import "time"

// DefaultStatus is applied on create when no status is given.
const DefaultStatus = "Open"

// Event is a QMS record (audit, deviation, CAPA). Its JSON form is the
// response shape of every event endpoint.
type Event struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	EventType            *string   `json:"event_type"`
	Status               *string   `json:"status"`
	Initiator            *string   `json:"initiator"`
	Department           *string   `json:"department"`
	Reporter             *string   `json:"reporter"`
	Severity             *string   `json:"severity"`
	Priority             *string   `json:"priority"`
	EventDate            *Date     `json:"event_date"`
	ResponsiblePerson    *string   `json:"responsible_person"`
	DueDate              *Date     `json:"due_date"`
	RiskRationale        *string   `json:"risk_rationale"`
	PreliminaryRootCause *string   `json:"preliminary_root_cause"`
	CreatedAt            time.Time `json:"date"`
}

// NewEvent holds the caller supplied fields of an event about to be stored.
// ID and CreatedAt are assigned by the store.
type NewEvent struct {
	Title                string
	Description          string
	EventType            *string
	Status               *string
	Initiator            *string
	Department           *string
	Reporter             *string
	Severity             *string
	Priority             *string
	EventDate            *Date
	ResponsiblePerson    *string
	DueDate              *Date
	RiskRationale        *string
	PreliminaryRootCause *string
}

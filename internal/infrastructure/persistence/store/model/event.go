package model

// Event is the events table row. Dates are stored as YYYY-MM-DD text and the
// creation timestamp as RFC 3339 nano text.
type Event struct {
	ID                   int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Title                string  `gorm:"column:title;type:text;not null;index"`
	Description          string  `gorm:"column:description;type:text;not null"`
	EventType            *string `gorm:"column:event_type;type:text;index"`
	Status               *string `gorm:"column:status;type:text;index"`
	Initiator            *string `gorm:"column:initiator;type:text"`
	Department           *string `gorm:"column:department;type:text;index"`
	Reporter             *string `gorm:"column:reporter;type:text"`
	Severity             *string `gorm:"column:severity;type:text"`
	Priority             *string `gorm:"column:priority;type:text"`
	EventDate            *string `gorm:"column:event_date;type:text"`
	ResponsiblePerson    *string `gorm:"column:responsible_person;type:text"`
	DueDate              *string `gorm:"column:due_date;type:text"`
	RiskRationale        *string `gorm:"column:risk_rationale;type:text"`
	PreliminaryRootCause *string `gorm:"column:preliminary_root_cause;type:text"`
	CreatedAt            string  `gorm:"column:date;type:text;not null"`
}

func (Event) TableName() string {
	return "events"
}

// All lists every model for schema migration.
func All() []any {
	return []any{&Event{}}
}

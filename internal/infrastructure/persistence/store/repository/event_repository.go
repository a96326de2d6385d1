package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"qmsevents/internal/domain/event"
	"qmsevents/internal/errs"
	"qmsevents/internal/infrastructure/persistence/store/model"
	"qmsevents/internal/ports"
)

type EventRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.EventRepository = (*EventRepository)(nil)

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *EventRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, input event.NewEvent) (event.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return event.Event{}, err
	}

	row := model.Event{
		Title:                input.Title,
		Description:          input.Description,
		EventType:            input.EventType,
		Status:               input.Status,
		Initiator:            input.Initiator,
		Department:           input.Department,
		Reporter:             input.Reporter,
		Severity:             input.Severity,
		Priority:             input.Priority,
		EventDate:            formatDate(input.EventDate),
		ResponsiblePerson:    input.ResponsiblePerson,
		DueDate:              formatDate(input.DueDate),
		RiskRationale:        input.RiskRationale,
		PreliminaryRootCause: input.PreliminaryRootCause,
		CreatedAt:            r.now().UTC().Format(time.RFC3339Nano),
	}
	if err := db.Create(&row).Error; err != nil {
		return event.Event{}, errs.Wrap(err, "insert event")
	}

	return mapEvent(row)
}

func (r *EventRepository) GetEvent(ctx context.Context, id int64) (event.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return event.Event{}, err
	}

	row, err := getEventRow(db, id)
	if err != nil {
		return event.Event{}, err
	}
	return mapEvent(row)
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]event.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Event
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query events")
	}

	items := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		item, err := mapEvent(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateEvent loads, patches and re-reads the row in a single transaction.
// An unknown id returns event.ErrEventNotFound without issuing any write.
func (r *EventRepository) UpdateEvent(ctx context.Context, id int64, patch event.Patch) (event.Event, error) {
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return event.Event{}, err
		}

		row, err := getEventRow(db, id)
		if err != nil {
			return event.Event{}, err
		}

		columns := patchColumns(patch)
		if len(columns) == 0 {
			return mapEvent(row)
		}

		if err := db.Model(&model.Event{}).
			Where("id = ?", id).
			Updates(columns).Error; err != nil {
			return event.Event{}, errs.Wrapf(err, "update event %d", id)
		}

		updated, err := getEventRow(db, id)
		if err != nil {
			return event.Event{}, err
		}
		return mapEvent(updated)
	}

	var updated event.Event
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := ports.WithTxContext(ctx, tx)
		item, err := r.UpdateEvent(txCtx, id, patch)
		if err != nil {
			return err
		}
		updated = item
		return nil
	}); err != nil {
		return event.Event{}, err
	}
	return updated, nil
}

func getEventRow(db *gorm.DB, id int64) (model.Event, error) {
	var row model.Event
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Event{}, event.ErrEventNotFound
		}
		return model.Event{}, errs.Wrapf(err, "query event %d", id)
	}
	return row, nil
}

// patchColumns maps set patch fields to column values. Explicit nulls become
// SQL NULL, except description which is stored as empty text.
func patchColumns(p event.Patch) map[string]any {
	columns := make(map[string]any)
	if p.Title.Set {
		columns["title"] = p.Title.Value
	}
	if p.Description.Set {
		columns["description"] = p.Description.Value
	}
	setText(columns, "event_type", p.EventType)
	setText(columns, "status", p.Status)
	setText(columns, "initiator", p.Initiator)
	setText(columns, "department", p.Department)
	setText(columns, "reporter", p.Reporter)
	setText(columns, "severity", p.Severity)
	setText(columns, "priority", p.Priority)
	setDate(columns, "event_date", p.EventDate)
	setText(columns, "responsible_person", p.ResponsiblePerson)
	setDate(columns, "due_date", p.DueDate)
	setText(columns, "risk_rationale", p.RiskRationale)
	setText(columns, "preliminary_root_cause", p.PreliminaryRootCause)
	return columns
}

func setText(columns map[string]any, name string, f event.Field[string]) {
	if !f.Set {
		return
	}
	if f.Null {
		columns[name] = nil
		return
	}
	columns[name] = f.Value
}

func setDate(columns map[string]any, name string, f event.Field[event.Date]) {
	if !f.Set {
		return
	}
	if f.Null {
		columns[name] = nil
		return
	}
	columns[name] = f.Value.String()
}

func formatDate(d *event.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseStoredDate(column string, value *string) (*event.Date, error) {
	if value == nil {
		return nil, nil
	}
	d, err := event.ParseDate(*value)
	if err != nil {
		return nil, errs.Wrapf(err, "decode stored %s", column)
	}
	return &d, nil
}

func mapEvent(row model.Event) (event.Event, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return event.Event{}, errs.Wrapf(err, "decode stored date of event %d", row.ID)
	}
	eventDate, err := parseStoredDate("event_date", row.EventDate)
	if err != nil {
		return event.Event{}, err
	}
	dueDate, err := parseStoredDate("due_date", row.DueDate)
	if err != nil {
		return event.Event{}, err
	}

	return event.Event{
		ID:                   row.ID,
		Title:                row.Title,
		Description:          row.Description,
		EventType:            row.EventType,
		Status:               row.Status,
		Initiator:            row.Initiator,
		Department:           row.Department,
		Reporter:             row.Reporter,
		Severity:             row.Severity,
		Priority:             row.Priority,
		EventDate:            eventDate,
		ResponsiblePerson:    row.ResponsiblePerson,
		DueDate:              dueDate,
		RiskRationale:        row.RiskRationale,
		PreliminaryRootCause: row.PreliminaryRootCause,
		CreatedAt:            createdAt.UTC(),
	}, nil
}

package event

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"qmsevents/internal/bootstrap/logging"
	domainevent "qmsevents/internal/domain/event"
	"qmsevents/internal/errs"
	"qmsevents/internal/ports"
)

type Service struct {
	repo ports.EventRepository
	uow  ports.UnitOfWork
}

// NewService wires event usecases with the repository and transaction boundary.
func NewService(repo ports.EventRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		repo: repo,
		uow:  uow,
	}
}

// CreateEventInput is the loosely typed create payload. EventDate and DueDate
// accept anything NormalizeDate understands.
type CreateEventInput struct {
	Title                *string
	Description          *string
	EventType            *string
	Status               *string
	Initiator            *string
	Department           *string
	Reporter             *string
	Severity             *string
	Priority             *string
	EventDate            any
	ResponsiblePerson    *string
	DueDate              any
	RiskRationale        *string
	PreliminaryRootCause *string
}

func (s *Service) Create(ctx context.Context, input CreateEventInput) (domainevent.Event, error) {
	if ctx == nil {
		return domainevent.Event{}, errors.New("context is required")
	}
	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.event"))

	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return domainevent.Event{}, domainevent.ErrTitleRequired
	}

	status := input.Status
	if status == nil {
		defaultStatus := domainevent.DefaultStatus
		status = &defaultStatus
	}
	description := ""
	if input.Description != nil {
		description = *input.Description
	}

	created, err := s.repo.CreateEvent(ctx, domainevent.NewEvent{
		Title:                *input.Title,
		Description:          description,
		EventType:            input.EventType,
		Status:               status,
		Initiator:            input.Initiator,
		Department:           input.Department,
		Reporter:             input.Reporter,
		Severity:             input.Severity,
		Priority:             input.Priority,
		EventDate:            normalizeInputDate(logCtx, "event_date", input.EventDate),
		ResponsiblePerson:    input.ResponsiblePerson,
		DueDate:              normalizeInputDate(logCtx, "due_date", input.DueDate),
		RiskRationale:        input.RiskRationale,
		PreliminaryRootCause: input.PreliminaryRootCause,
	})
	if err != nil {
		return domainevent.Event{}, errs.Wrap(err, "create event")
	}

	logging.Info(logCtx, "event created", slog.Int64("event_id", created.ID))
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domainevent.Event, error) {
	if id <= 0 {
		return domainevent.Event{}, domainevent.ErrInvalidEventID
	}
	item, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domainevent.Event{}, errs.Wrapf(err, "get event %d", id)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]domainevent.Event, error) {
	items, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list events")
	}
	return items, nil
}

// Update applies a sparse patch. Patch dates are stored as given; unlike
// Create they are not normalized.
func (s *Service) Update(ctx context.Context, id int64, patch domainevent.Patch) (domainevent.Event, error) {
	if ctx == nil {
		return domainevent.Event{}, errors.New("context is required")
	}
	if id <= 0 {
		return domainevent.Event{}, domainevent.ErrInvalidEventID
	}
	if err := patch.Validate(); err != nil {
		return domainevent.Event{}, err
	}
	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.event"), slog.Int64("event_id", id))

	var updated domainevent.Event
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.UpdateEvent(txCtx, id, patch)
		if err != nil {
			return err
		}
		updated = item
		return nil
	}); err != nil {
		return domainevent.Event{}, errs.Wrapf(err, "update event %d", id)
	}

	logging.Info(logCtx, "event updated", slog.Bool("empty_patch", patch.IsEmpty()))
	return updated, nil
}

func normalizeInputDate(ctx context.Context, field string, value any) *domainevent.Date {
	normalized := domainevent.NormalizeDate(value)
	if normalized.Outcome == domainevent.DateUnparseable {
		logging.Warn(ctx, "unparseable date stored as null", slog.String("field", field))
	}
	return normalized.Ptr()
}

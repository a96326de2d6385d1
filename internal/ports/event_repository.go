package ports

import (
	"context"

	"qmsevents/internal/domain/event"
)

type EventReadRepository interface {
	GetEvent(ctx context.Context, id int64) (event.Event, error)
	ListEvents(ctx context.Context) ([]event.Event, error)
}

// EventRepository is the durable store for QMS events. Missing ids surface
// as event.ErrEventNotFound.
type EventRepository interface {
	EventReadRepository
	CreateEvent(ctx context.Context, input event.NewEvent) (event.Event, error)
	UpdateEvent(ctx context.Context, id int64, patch event.Patch) (event.Event, error)
}

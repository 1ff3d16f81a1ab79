package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/akira/events-api/internal/actorctx"
	"github.com/akira/events-api/internal/clock"
	"github.com/akira/events-api/internal/domain/event"
)

type EventsRepository interface {
	Get(ctx context.Context, id int64) (event.Event, error)
	List(ctx context.Context, limit int) ([]event.Event, error)
	Insert(ctx context.Context, in event.Input, now time.Time) (event.Event, error)
	Update(ctx context.Context, id int64, in event.Input, now time.Time) (event.Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventsService forwards to the repository. Not-found and constraint errors
// keep their identity; anything else becomes an *event.StorageError.
type EventsService struct {
	repo  EventsRepository
	clock clock.Clock
	log   *slog.Logger
}

func NewEventsService(repo EventsRepository, clk clock.Clock, log *slog.Logger) *EventsService {
	return &EventsService{
		repo:  repo,
		clock: clk,
		log:   log,
	}
}

func (s *EventsService) GetEvent(ctx context.Context, id int64) (event.Event, error) {
	s.log.DebugContext(ctx, "fetching event", "id", id)

	e, err := s.repo.Get(ctx, id)

	if err != nil {
		return event.Event{}, s.fail(ctx, "fetching an event", err, "id", id)
	}

	return e, nil
}

func (s *EventsService) ListEvents(ctx context.Context) ([]event.Event, error) {
	s.log.DebugContext(ctx, "fetching events")

	events, err := s.repo.List(ctx, event.ListPageSize)

	if err != nil {
		return nil, s.fail(ctx, "fetching events", err)
	}

	return events, nil
}

func (s *EventsService) CreateEvent(ctx context.Context, in event.Input) (event.Event, error) {
	s.log.DebugContext(ctx, "inserting event", "title", in.Title)

	e, err := s.repo.Insert(ctx, in, s.clock.Now())

	if err != nil {
		return event.Event{}, s.fail(ctx, "inserting an event", err)
	}

	s.log.InfoContext(ctx, "event created", withActor(ctx, "id", e.ID)...)

	return e, nil
}

func (s *EventsService) UpdateEvent(ctx context.Context, id int64, in event.Input) (event.Event, error) {
	s.log.DebugContext(ctx, "updating event", "id", id)

	e, err := s.repo.Update(ctx, id, in, s.clock.Now())

	if err != nil {
		return event.Event{}, s.fail(ctx, "updating an event", err, "id", id)
	}

	s.log.InfoContext(ctx, "event updated", withActor(ctx, "id", id)...)

	return e, nil
}

func (s *EventsService) DeleteEvent(ctx context.Context, id int64) error {
	s.log.DebugContext(ctx, "deleting event", "id", id)

	err := s.repo.Delete(ctx, id)

	if err != nil {
		return s.fail(ctx, "deleting an event", err, "id", id)
	}

	s.log.InfoContext(ctx, "event deleted", withActor(ctx, "id", id)...)

	return nil
}

func (s *EventsService) fail(ctx context.Context, op string, err error, attrs ...any) error {
	attrs = append(attrs, "op", op, "err", err)

	switch {
	case errors.Is(err, event.ErrNotFound):
		s.log.InfoContext(ctx, "event not found", attrs...)
		return err
	case errors.Is(err, event.ErrConstraintViolation):
		s.log.WarnContext(ctx, "event rejected by database constraint", attrs...)
		return &event.ConstraintError{Op: op, Err: err}
	default:
		s.log.ErrorContext(ctx, "event storage failure", attrs...)
		return &event.StorageError{Op: op, Err: err}
	}
}

// withActor tags write logs with the token subject when the write guard is on.
func withActor(ctx context.Context, attrs ...any) []any {
	if actor, ok := actorctx.ActorFrom(ctx); ok {
		attrs = append(attrs, "actor", actor)
	}
	return attrs
}

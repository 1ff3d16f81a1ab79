package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/akira/events-api/internal/domain/event"
)

// EventsRepo keeps events in a map; it backs DB_DRIVER=memory and router tests.
type EventsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]event.Event
}

func NewEventsRepo() *EventsRepo {
	return &EventsRepo{
		items: make(map[int64]event.Event),
	}
}

func (r *EventsRepo) Get(_ context.Context, id int64) (event.Event, error) {
	r.mu.RLock()
	e, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	return e, nil
}

func (r *EventsRepo) List(_ context.Context, limit int) ([]event.Event, error) {
	if limit <= 0 || limit > event.ListPageSize {
		limit = event.ListPageSize
	}

	r.mu.RLock()
	out := make([]event.Event, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *EventsRepo) Insert(_ context.Context, in event.Input, now time.Time) (event.Event, error) {
	if in.EndDate <= in.StartDate {
		return event.Event{}, event.ErrConstraintViolation
	}

	r.mu.Lock()
	r.nextID++
	e := event.New(r.nextID, in, now)
	r.items[e.ID] = e
	r.mu.Unlock()

	return e, nil
}

func (r *EventsRepo) Update(_ context.Context, id int64, in event.Input, now time.Time) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]

	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	if in.EndDate <= in.StartDate {
		return event.Event{}, event.ErrConstraintViolation
	}

	updated := current.Apply(in, now)
	r.items[id] = updated

	return updated, nil
}

func (r *EventsRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return event.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *EventsRepo) Ping(context.Context) error {
	return nil
}

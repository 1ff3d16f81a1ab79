package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/akira/events-api/internal/cache"
	"github.com/akira/events-api/internal/domain/event"
	"github.com/akira/events-api/internal/observability"
	"github.com/akira/events-api/internal/utils"
)

type Repository interface {
	Get(ctx context.Context, id int64) (event.Event, error)
	List(ctx context.Context, limit int) ([]event.Event, error)
	Insert(ctx context.Context, in event.Input, now time.Time) (event.Event, error)
	Update(ctx context.Context, id int64, in event.Input, now time.Time) (event.Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventsRepo is a read-through cache in front of another Repository.
// Cache failures are logged and the call falls through to the wrapped repository.
//
// Every successful write bumps gen before invalidating. A read only fills the
// cache if gen is unchanged since before its backing read, so a row loaded
// before a concurrent write can never be cached after that write's invalidation.
type EventsRepo struct {
	next  Repository
	store cache.Store
	log   *slog.Logger
	prom  *observability.Prom

	mu  sync.Mutex
	gen uint64
}

func NewEventsRepo(next Repository, store cache.Store, log *slog.Logger, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		next:  next,
		store: store,
		log:   log,
		prom:  prom,
	}
}

func (r *EventsRepo) Get(ctx context.Context, id int64) (event.Event, error) {
	key := utils.BuildEventCacheKey(id)

	var e event.Event
	if r.lookup(ctx, "event", key, &e) {
		return e, nil
	}

	gen := r.generation()

	e, err := r.next.Get(ctx, id)

	if err != nil {
		return event.Event{}, err
	}

	r.fill(ctx, key, gen, e)

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, limit int) ([]event.Event, error) {
	// only the fixed page is cached, so invalidation has a single key to clear
	if limit != event.ListPageSize {
		return r.next.List(ctx, limit)
	}

	key := utils.BuildEventsListCacheKey(limit)

	var events []event.Event
	if r.lookup(ctx, "list", key, &events) {
		return events, nil
	}

	gen := r.generation()

	events, err := r.next.List(ctx, limit)

	if err != nil {
		return nil, err
	}

	r.fill(ctx, key, gen, events)

	return events, nil
}

func (r *EventsRepo) Insert(ctx context.Context, in event.Input, now time.Time) (event.Event, error) {
	e, err := r.next.Insert(ctx, in, now)

	if err != nil {
		return event.Event{}, err
	}

	r.invalidate(ctx, utils.BuildEventsListCacheKey(event.ListPageSize))

	return e, nil
}

func (r *EventsRepo) Update(ctx context.Context, id int64, in event.Input, now time.Time) (event.Event, error) {
	e, err := r.next.Update(ctx, id, in, now)

	if err != nil {
		return event.Event{}, err
	}

	r.invalidate(ctx, utils.BuildEventCacheKey(id), utils.BuildEventsListCacheKey(event.ListPageSize))

	return e, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id int64) error {
	err := r.next.Delete(ctx, id)

	if err != nil {
		return err
	}

	r.invalidate(ctx, utils.BuildEventCacheKey(id), utils.BuildEventsListCacheKey(event.ListPageSize))

	return nil
}

func (r *EventsRepo) lookup(ctx context.Context, kind, key string, out any) bool {
	b, ok, err := r.store.Get(ctx, key)

	if err != nil {
		r.prom.ObserveCache(kind, "error")
		r.log.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		return false
	}

	if !ok {
		r.prom.ObserveCache(kind, "miss")
		return false
	}

	if err := json.Unmarshal(b, out); err != nil {
		r.prom.ObserveCache(kind, "error")
		r.log.WarnContext(ctx, "cache entry undecodable", "key", key, "err", err)
		return false
	}

	r.prom.ObserveCache(kind, "hit")
	return true
}

func (r *EventsRepo) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.gen
}

// fill stores v unless a write completed after gen was read.
func (r *EventsRepo) fill(ctx context.Context, key string, gen uint64, v any) {
	b, err := json.Marshal(v)

	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != gen {
		r.prom.ObserveCache("fill", "skipped")
		return
	}

	if err := r.store.Set(ctx, key, b); err != nil {
		r.log.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

func (r *EventsRepo) invalidate(ctx context.Context, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++

	if err := r.store.Delete(ctx, keys...); err != nil {
		r.log.WarnContext(ctx, "cache invalidation failed", "keys", keys, "err", err)
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/akira/events-api/internal/actorctx"
	"github.com/akira/events-api/internal/clock"
	"github.com/akira/events-api/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	getFn    func(ctx context.Context, id int64) (event.Event, error)
	listFn   func(ctx context.Context, limit int) ([]event.Event, error)
	insertFn func(ctx context.Context, in event.Input, now time.Time) (event.Event, error)
	updateFn func(ctx context.Context, id int64, in event.Input, now time.Time) (event.Event, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (event.Event, error) {
	return f.getFn(ctx, id)
}

func (f *fakeRepo) List(ctx context.Context, limit int) ([]event.Event, error) {
	return f.listFn(ctx, limit)
}

func (f *fakeRepo) Insert(ctx context.Context, in event.Input, now time.Time) (event.Event, error) {
	return f.insertFn(ctx, in, now)
}

func (f *fakeRepo) Update(ctx context.Context, id int64, in event.Input, now time.Time) (event.Event, error) {
	return f.updateFn(ctx, id, in, now)
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newService(repo *fakeRepo) *EventsService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEventsService(repo, clock.NewFixed(fixedNow), log)
}

func TestListEvents_UsesFixedPageSize(t *testing.T) {
	var gotLimit int
	svc := newService(&fakeRepo{listFn: func(ctx context.Context, limit int) ([]event.Event, error) {
		gotLimit = limit
		return []event.Event{}, nil
	}})

	events, err := svc.ListEvents(context.Background())

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, event.ListPageSize, gotLimit)
}

func TestCreateEvent_PassesClock(t *testing.T) {
	var gotNow time.Time
	svc := newService(&fakeRepo{insertFn: func(ctx context.Context, in event.Input, now time.Time) (event.Event, error) {
		gotNow = now
		return event.New(1, in, now), nil
	}})

	e, err := svc.CreateEvent(context.Background(), event.Input{Title: "Conf"})

	require.NoError(t, err)
	assert.Equal(t, fixedNow, gotNow)
	assert.Equal(t, fixedNow.Unix(), e.CreatedAt)
}

func TestErrorMapping(t *testing.T) {
	dbErr := errors.New("connection refused")

	tests := []struct {
		name        string
		repoErr     error
		wantIs      error
		wantStorage bool
	}{
		{name: "not_found", repoErr: event.ErrNotFound, wantIs: event.ErrNotFound},
		{name: "constraint", repoErr: fmt.Errorf("%w: events_dates_ordered", event.ErrConstraintViolation), wantIs: event.ErrConstraintViolation},
		{name: "other", repoErr: dbErr, wantIs: dbErr, wantStorage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{
				getFn: func(context.Context, int64) (event.Event, error) { return event.Event{}, tt.repoErr },
				listFn: func(context.Context, int) ([]event.Event, error) {
					return nil, tt.repoErr
				},
				insertFn: func(context.Context, event.Input, time.Time) (event.Event, error) {
					return event.Event{}, tt.repoErr
				},
				updateFn: func(context.Context, int64, event.Input, time.Time) (event.Event, error) {
					return event.Event{}, tt.repoErr
				},
				deleteFn: func(context.Context, int64) error { return tt.repoErr },
			}
			svc := newService(repo)
			ctx := context.Background()

			_, getErr := svc.GetEvent(ctx, 1)
			_, listErr := svc.ListEvents(ctx)
			_, createErr := svc.CreateEvent(ctx, event.Input{})
			_, updateErr := svc.UpdateEvent(ctx, 1, event.Input{})
			deleteErr := svc.DeleteEvent(ctx, 1)

			for _, err := range []error{getErr, listErr, createErr, updateErr, deleteErr} {
				require.ErrorIs(t, err, tt.wantIs)

				var storageErr *event.StorageError
				assert.Equal(t, tt.wantStorage, errors.As(err, &storageErr))
			}
		})
	}
}

func TestConstraintErrorNamesOperation(t *testing.T) {
	repoErr := fmt.Errorf("%w: CHECK constraint failed: end_date > start_date", event.ErrConstraintViolation)
	svc := newService(&fakeRepo{
		insertFn: func(context.Context, event.Input, time.Time) (event.Event, error) {
			return event.Event{}, repoErr
		},
		updateFn: func(context.Context, int64, event.Input, time.Time) (event.Event, error) {
			return event.Event{}, repoErr
		},
	})

	_, createErr := svc.CreateEvent(context.Background(), event.Input{})
	_, updateErr := svc.UpdateEvent(context.Background(), 1, event.Input{})

	tests := []struct {
		err         error
		wantMessage string
	}{
		{createErr, "An error occured while inserting an event"},
		{updateErr, "An error occured while updating an event"},
	}

	for _, tt := range tests {
		var constraintErr *event.ConstraintError
		require.ErrorAs(t, tt.err, &constraintErr)
		assert.Equal(t, tt.wantMessage, constraintErr.Message())
		assert.Equal(t, "CHECK constraint failed: end_date > start_date", constraintErr.Detail())
		assert.ErrorIs(t, tt.err, event.ErrConstraintViolation)
	}
}

func TestStorageErrorNamesOperation(t *testing.T) {
	svc := newService(&fakeRepo{deleteFn: func(context.Context, int64) error { return errors.New("disk full") }})

	err := svc.DeleteEvent(context.Background(), 3)

	assert.EqualError(t, err, "An error occured while deleting an event: disk full")
}

func TestWritesAreAttributedToActor(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	svc := NewEventsService(&fakeRepo{deleteFn: func(ctx context.Context, id int64) error {
		return nil
	}}, clock.NewFixed(fixedNow), log)

	ctx := actorctx.WithActor(context.Background(), "ops")
	require.NoError(t, svc.DeleteEvent(ctx, 7))

	assert.Contains(t, buf.String(), `"msg":"event deleted"`)
	assert.Contains(t, buf.String(), `"actor":"ops"`)
	assert.Contains(t, buf.String(), `"id":7`)
}

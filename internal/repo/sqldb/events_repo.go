package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akira/events-api/internal/domain/event"
	"github.com/akira/events-api/internal/observability"
)

// Placeholders are numbered in order of appearance so the same statements
// bind correctly on both pgx ($n) and sqlite3 (which numbers $n by first use).
const (
	selectColumns = `id, title, price, status, start_date, end_date, created_at, updated_at`

	getEventSQL = `SELECT ` + selectColumns + ` FROM events WHERE id = $1`

	listEventsSQL = `SELECT ` + selectColumns + ` FROM events ORDER BY id ASC LIMIT $1`

	insertEventSQL = `INSERT INTO events (title, price, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + selectColumns

	updateEventSQL = `UPDATE events
		SET title = $1,
			price = $2,
			status = $3,
			start_date = $4,
			end_date = $5,
			updated_at = $6
		WHERE id = $7
		RETURNING ` + selectColumns

	deleteEventSQL = `DELETE FROM events WHERE id = $1`
)

type EventsRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

// constructor function, prom may be nil
func NewEventsRepo(db *sql.DB, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		db:   db,
		prom: prom,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var e event.Event
	var status sql.NullString

	err := row.Scan(&e.ID, &e.Title, &e.Price, &status, &e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		return event.Event{}, err
	}

	e.Status = status.String

	return e, nil
}

func nullableStatus(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *EventsRepo) Get(ctx context.Context, id int64) (event.Event, error) {
	var e event.Event

	err := r.prom.ObserveDB("events.get", func() error {
		var err error
		e, err = scanEvent(r.db.QueryRowContext(ctx, getEventSQL, id))
		return err
	})

	if err != nil {
		return event.Event{}, mapError("get event", err)
	}

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, limit int) ([]event.Event, error) {
	if limit <= 0 || limit > event.ListPageSize {
		limit = event.ListPageSize
	}

	output := make([]event.Event, 0, limit)

	err := r.prom.ObserveDB("events.list", func() error {
		rows, err := r.db.QueryContext(ctx, listEventsSQL, limit)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			e, err := scanEvent(rows)

			if err != nil {
				return err
			}

			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, mapError("list events", err)
	}

	return output, nil
}

func (r *EventsRepo) Insert(ctx context.Context, in event.Input, now time.Time) (event.Event, error) {
	var e event.Event
	ts := now.Unix()

	err := r.prom.ObserveDB("events.insert", func() error {
		var err error
		e, err = scanEvent(r.db.QueryRowContext(ctx, insertEventSQL,
			in.Title, in.Price, nullableStatus(in.Status), in.StartDate, in.EndDate, ts, ts))
		return err
	})

	if err != nil {
		return event.Event{}, mapError("insert event", err)
	}

	return e, nil
}

func (r *EventsRepo) Update(ctx context.Context, id int64, in event.Input, now time.Time) (event.Event, error) {
	var e event.Event

	err := r.prom.ObserveDB("events.update", func() error {
		var err error
		e, err = scanEvent(r.db.QueryRowContext(ctx, updateEventSQL,
			in.Title, in.Price, nullableStatus(in.Status), in.StartDate, in.EndDate, now.Unix(), id))
		return err
	})

	if err != nil {
		// no row came back from RETURNING: nothing matched the id
		return event.Event{}, mapError("update event", err)
	}

	return e, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.prom.ObserveDB("events.delete", func() error {
		res, err := r.db.ExecContext(ctx, deleteEventSQL, id)

		if err != nil {
			return err
		}

		affected, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return mapError("delete event", err)
	}

	if affected == 0 {
		return event.ErrNotFound
	}

	return nil
}

// Ping reports whether the database is reachable; used by readiness checks.
func (r *EventsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return event.ErrNotFound
	}

	if detail, ok := constraintViolation(err); ok {
		return fmt.Errorf("%w: %s", event.ErrConstraintViolation, detail)
	}

	return fmt.Errorf("%s: %w", op, err)
}

package event

import "time"

// New builds the stored form of an input. The id is assigned by the store.
func New(id int64, in Input, now time.Time) Event {
	ts := now.Unix()

	return Event{
		ID:        id,
		Title:     in.Title,
		Price:     in.Price,
		Status:    in.Status,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Apply overwrites the client-settable fields and refreshes UpdatedAt.
func (e Event) Apply(in Input, now time.Time) Event {
	e.Title = in.Title
	e.Price = in.Price
	e.Status = in.Status
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.UpdatedAt = now.Unix()

	return e
}

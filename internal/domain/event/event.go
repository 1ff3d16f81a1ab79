package event

// ListPageSize is the fixed number of events a list call returns.
const ListPageSize = 20

// allowed values for Event.Status
const (
	StatusCompleted = "completed"
	StatusPaused    = "paused"
	StatusStarted   = "started"
)

// Event dates and audit stamps are epoch seconds; price is in currency minor units.
type Event struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Status    string `json:"status,omitempty"`
	StartDate int64  `json:"startDate"`
	EndDate   int64  `json:"endDate"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Input is the client-settable part of an event, used for both create and full update.
// createdAt/updatedAt sent by a client are not decoded and therefore ignored.
type Input struct {
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Status    string `json:"status"`
	StartDate int64  `json:"startDate"`
	EndDate   int64  `json:"endDate"`
}

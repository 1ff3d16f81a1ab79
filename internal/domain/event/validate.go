package event

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const (
	msgTitleRequired = "title is required"
	msgTitleLength   = "title must be between 3 and 255 characters"
	msgPrice         = "price must be a positive number"
	msgStatus        = "Status must be one of: completed, paused, started"
	msgStartPositive = "startDate must be a positive number"
	msgStartToday    = "Start date must be greater than or equal to today"
	msgEndPositive   = "endDate must be a positive number"
	msgEndAfterStart = "End date must be greater than start date"
)

// StartOfDay returns the epoch seconds of midnight of now's calendar day, in now's location.
func StartOfDay(now time.Time) int64 {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Unix()
}

// Validate runs every field check against in and returns a *ValidationError
// listing all failures, or nil. now decides what "today" is.
func (in Input) Validate(now time.Time) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = msgTitleRequired
	} else if validate.Var(in.Title, "min=3,max=255") != nil {
		fields["title"] = msgTitleLength
	}

	if validate.Var(in.Price, "gt=0") != nil {
		fields["price"] = msgPrice
	}

	if in.Status != "" && validate.Var(in.Status, "oneof="+StatusCompleted+" "+StatusPaused+" "+StatusStarted) != nil {
		fields["status"] = msgStatus
	}

	switch {
	case validate.Var(in.StartDate, "gt=0") != nil:
		fields["startDate"] = msgStartPositive
	case in.StartDate < StartOfDay(now):
		fields["startDate"] = msgStartToday
	}

	switch {
	case validate.Var(in.EndDate, "gt=0") != nil:
		fields["endDate"] = msgEndPositive
	case in.EndDate <= in.StartDate:
		fields["endDate"] = msgEndAfterStart
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

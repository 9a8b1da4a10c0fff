// Package schedule derives the upcoming volunteer fulfillment calendar.
package schedule

import (
	"time"

	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// DefaultWeeks is how many Sundays the public schedule shows.
const DefaultWeeks = 8

// Event is one fulfillment Sunday and the group on duty.
type Event struct {
	Date  time.Time       `json:"date"`
	Group model.GroupName `json:"group"`
}

// Upcoming returns the next n Sundays strictly after from, assigning groups
// round-robin through the rotation. A from that falls on a Sunday is not
// included; that day's shift is already underway.
func Upcoming(from time.Time, n int) []Event {
	if n <= 0 {
		return []Event{}
	}
	rotation := model.GroupRotation()
	events := make([]Event, 0, n)
	day := from
	for len(events) < n {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() != time.Sunday {
			continue
		}
		events = append(events, Event{
			Date:  day,
			Group: rotation[len(events)%len(rotation)],
		})
	}
	return events
}

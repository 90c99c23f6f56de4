package calendar

import (
	"fmt"
	"time"
)

// BusySlot is the half-open interval [Start, End) occupied by an event.
type BusySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps uses the half-open rule, so touching intervals do not overlap.
func (b BusySlot) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// AvailabilitySlot is a free candidate interval of exactly the requested length.
type AvailabilitySlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

// WorkingHours is the daily window, in whole hours, availability is searched in.
type WorkingHours struct {
	StartHour int `json:"start_hour" yaml:"start_hour"`
	EndHour   int `json:"end_hour" yaml:"end_hour"`
}

func DefaultWorkingHours() WorkingHours {
	return WorkingHours{StartHour: 9, EndHour: 17}
}

func (w WorkingHours) Validate(op string) error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return Validation(op, fmt.Sprintf("invalid working hours %02d:00-%02d:00", w.StartHour, w.EndHour))
	}
	return nil
}

// Window returns the working window on the calendar day containing day, in loc.
func (w WorkingHours) Window(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	open := time.Date(d.Year(), d.Month(), d.Day(), w.StartHour, 0, 0, 0, loc)
	closeAt := time.Date(d.Year(), d.Month(), d.Day(), w.EndHour, 0, 0, 0, loc)
	return open, closeAt
}

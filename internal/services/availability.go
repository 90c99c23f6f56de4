package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
	"github.com/yungbote/practiceboard-backend/internal/observability"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

const (
	defaultAvailabilityGrid = 30 * time.Minute
	maxAvailabilityRange    = 366 * 24 * time.Hour
	// No working window is longer than a day.
	maxSlotMinutes = 24 * 60
)

type AvailabilityOptions struct {
	WorkingHours types.WorkingHours
	// Grid is the step between candidate slot starts.
	Grid time.Duration
	// Location is where working hours are read. Nil means UTC.
	Location *time.Location
}

func DefaultAvailabilityOptions() AvailabilityOptions {
	return AvailabilityOptions{
		WorkingHours: calendar.DefaultWorkingHours(),
		Grid:         defaultAvailabilityGrid,
		Location:     time.UTC,
	}
}

type AvailabilityService interface {
	// FindAvailability lists free grid-aligned slots of durationMinutes inside the
	// working window of each day touching [rangeStart, rangeEnd). A nil wh uses
	// the configured working hours. Candidate starts are the grid points counted
	// from the window open, so a rangeStart between grid points rounds up to the
	// next one. A day's window closes at the earlier of its end hour and rangeEnd.
	FindAvailability(dbc dbctx.Context, ownerID uuid.UUID, rangeStart, rangeEnd time.Time, durationMinutes int, wh *types.WorkingHours) ([]types.AvailabilitySlot, error)
}

type availabilityService struct {
	log    *logger.Logger
	events CalendarEventService
	opts   AvailabilityOptions
}

func NewAvailabilityService(baseLog *logger.Logger, events CalendarEventService, opts AvailabilityOptions) AvailabilityService {
	if opts.Grid <= 0 {
		opts.Grid = defaultAvailabilityGrid
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.WorkingHours == (types.WorkingHours{}) {
		opts.WorkingHours = calendar.DefaultWorkingHours()
	}
	return &availabilityService{
		log:    baseLog.With("service", "AvailabilityService"),
		events: events,
		opts:   opts,
	}
}

func (s *availabilityService) FindAvailability(dbc dbctx.Context, ownerID uuid.UUID, rangeStart, rangeEnd time.Time, durationMinutes int, wh *types.WorkingHours) ([]types.AvailabilitySlot, error) {
	const op = "AvailabilityService.FindAvailability"
	ctx, span := startSpan(dbc.Ctx, op, ownerID)
	defer span.End()
	dbc.Ctx = ctx

	if ownerID == uuid.Nil {
		return nil, calendar.Validation(op, "owner_id is required")
	}
	if durationMinutes <= 0 {
		return nil, calendar.Validation(op, fmt.Sprintf("duration_minutes must be positive, got %d", durationMinutes))
	}
	if durationMinutes > maxSlotMinutes {
		return nil, calendar.Validation(op, fmt.Sprintf("duration_minutes must not exceed %d, got %d", maxSlotMinutes, durationMinutes))
	}
	hours := s.opts.WorkingHours
	if wh != nil {
		hours = *wh
	}
	if err := hours.Validate(op); err != nil {
		return nil, err
	}
	if rangeStart.IsZero() || rangeEnd.IsZero() || !rangeStart.Before(rangeEnd) {
		return []types.AvailabilitySlot{}, nil
	}
	if rangeEnd.Sub(rangeStart) > maxAvailabilityRange {
		return nil, calendar.Validation(op, "range must not exceed 366 days")
	}

	started := time.Now()
	// One snapshot of busy time for the whole range.
	events, err := s.events.GetEventsInRange(dbc, ownerID, rangeStart, rangeEnd)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	busy := make([]types.BusySlot, 0, len(events))
	for _, ev := range events {
		busy = append(busy, ev.Metadata.Busy())
	}

	slots := computeFreeSlots(busy, rangeStart, rangeEnd, time.Duration(durationMinutes)*time.Minute, hours, s.opts.Grid, s.opts.Location)
	observability.Current().ObserveAvailability(len(slots), time.Since(started))
	span.SetAttributes(
		attribute.Int("availability.busy", len(busy)),
		attribute.Int("availability.slots", len(slots)),
	)
	s.log.Debug("availability computed", "owner_id", ownerID, "busy", len(busy), "slots", len(slots))
	return slots, nil
}

// computeFreeSlots walks each day touching [rangeStart, rangeEnd) in loc. Within
// a day, candidate starts step by grid from the working-window open (or the first
// grid point at or after rangeStart), and a candidate is kept when it ends by the
// window close (clipped to rangeEnd) and overlaps no busy slot.
func computeFreeSlots(busy []types.BusySlot, rangeStart, rangeEnd time.Time, duration time.Duration, wh types.WorkingHours, grid time.Duration, loc *time.Location) []types.AvailabilitySlot {
	out := []types.AvailabilitySlot{}
	if duration <= 0 || grid <= 0 || !rangeStart.Before(rangeEnd) {
		return out
	}
	if loc == nil {
		loc = time.UTC
	}
	minutes := int(duration / time.Minute)

	first := rangeStart.In(loc)
	for day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc); day.Before(rangeEnd); day = day.AddDate(0, 0, 1) {
		open, closeAt := wh.Window(day, loc)

		dayStart := open
		if rangeStart.After(open) {
			steps := (rangeStart.Sub(open) + grid - 1) / grid
			dayStart = open.Add(steps * grid)
		}
		dayEnd := closeAt
		if rangeEnd.Before(dayEnd) {
			dayEnd = rangeEnd
		}

		for cursor := dayStart; !cursor.Add(duration).After(dayEnd); cursor = cursor.Add(grid) {
			end := cursor.Add(duration)
			if overlapsAny(busy, cursor, end) {
				continue
			}
			out = append(out, types.AvailabilitySlot{
				Start:           cursor.UTC(),
				End:             end.UTC(),
				DurationMinutes: minutes,
			})
		}
	}
	return out
}

func overlapsAny(busy []types.BusySlot, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

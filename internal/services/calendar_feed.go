package services

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

const calendarProductID = "-//practiceboard//calendar feed//EN"

type CalendarFeedService interface {
	// ExportICS renders the owner's events overlapping [start, end) as an iCalendar document.
	ExportICS(dbc dbctx.Context, ownerID uuid.UUID, start, end time.Time) ([]byte, error)
}

type calendarFeedService struct {
	log    *logger.Logger
	events CalendarEventService
}

func NewCalendarFeedService(baseLog *logger.Logger, events CalendarEventService) CalendarFeedService {
	return &calendarFeedService{
		log:    baseLog.With("service", "CalendarFeedService"),
		events: events,
	}
}

func (s *calendarFeedService) ExportICS(dbc dbctx.Context, ownerID uuid.UUID, start, end time.Time) ([]byte, error) {
	const op = "CalendarFeedService.ExportICS"
	ctx, span := startSpan(dbc.Ctx, op, ownerID)
	defer span.End()
	dbc.Ctx = ctx

	if start.IsZero() || end.IsZero() {
		return nil, calendar.Validation(op, "start and end are required")
	}
	if end.Sub(start) > maxAvailabilityRange {
		return nil, calendar.Validation(op, "range must not exceed 366 days")
	}
	events, err := s.events.GetEventsInRange(dbc, ownerID, start, end)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	for _, ev := range events {
		ve := cal.AddEvent(ev.ID.String())
		ve.SetDtStampTime(ev.UpdatedAt.UTC())
		ve.SetCreatedTime(ev.CreatedAt.UTC())
		ve.SetModifiedAt(ev.UpdatedAt.UTC())
		ve.SetStartAt(ev.Metadata.StartTime.UTC())
		ve.SetEndAt(ev.Metadata.EndTime.UTC())
		ve.SetSummary(ev.Title)
		if ev.Description != nil && strings.TrimSpace(*ev.Description) != "" {
			ve.SetDescription(*ev.Description)
		}
		if ev.Metadata.Location != nil {
			ve.SetLocation(*ev.Metadata.Location)
		}
		if ev.Metadata.EventType != nil {
			ve.SetProperty(ics.ComponentPropertyCategories, *ev.Metadata.EventType)
		}
		for _, a := range ev.Metadata.Attendees {
			ve.AddAttendee("mailto:" + a)
		}
	}
	s.log.Debug("calendar feed exported", "owner_id", ownerID, "events", len(events))
	return []byte(cal.Serialize()), nil
}

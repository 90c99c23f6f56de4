package services

import (
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type AttendeeService interface {
	// AddEventAttendee returns nil when the event is missing or the contact has no address.
	AddEventAttendee(dbc dbctx.Context, ownerID, eventID, contactID uuid.UUID) (*types.CalendarEvent, error)
	// RemoveEventAttendee returns nil when the event is missing or the contact has no address.
	RemoveEventAttendee(dbc dbctx.Context, ownerID, eventID, contactID uuid.UUID) (*types.CalendarEvent, error)
}

type attendeeService struct {
	log       *logger.Logger
	events    CalendarEventService
	directory ContactDirectory
}

func NewAttendeeService(baseLog *logger.Logger, events CalendarEventService, directory ContactDirectory) AttendeeService {
	return &attendeeService{
		log:       baseLog.With("service", "AttendeeService"),
		events:    events,
		directory: directory,
	}
}

// load resolves the event and the contact address; either may come back empty.
func (s *attendeeService) load(dbc dbctx.Context, op string, ownerID, eventID, contactID uuid.UUID) (*types.CalendarEvent, string, error) {
	if ownerID == uuid.Nil {
		return nil, "", calendar.Validation(op, "owner_id is required")
	}
	if contactID == uuid.Nil {
		return nil, "", calendar.Validation(op, "contact_id is required")
	}
	ev, err := s.events.GetEventByID(dbc, ownerID, eventID)
	if err != nil || ev == nil {
		return nil, "", err
	}
	addr, err := s.directory.ResolveContactAddress(dbc, ownerID, contactID)
	if err != nil {
		return nil, "", calendar.Wrap(op, err)
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		s.log.Debug("attendee contact did not resolve", "owner_id", ownerID, "contact_id", contactID)
		return nil, "", nil
	}
	return ev, addr, nil
}

func (s *attendeeService) AddEventAttendee(dbc dbctx.Context, ownerID, eventID, contactID uuid.UUID) (*types.CalendarEvent, error) {
	const op = "AttendeeService.AddEventAttendee"
	ev, addr, err := s.load(dbc, op, ownerID, eventID, contactID)
	if err != nil || ev == nil {
		return nil, err
	}
	if ev.Metadata.HasAttendee(addr) {
		return ev, nil
	}
	next := append(append([]string{}, ev.Metadata.Attendees...), addr)
	return s.events.UpdateEvent(dbc, ownerID, eventID, CalendarEventPatch{
		Attendees: OptionalStrings{Set: true, Value: next},
	})
}

func (s *attendeeService) RemoveEventAttendee(dbc dbctx.Context, ownerID, eventID, contactID uuid.UUID) (*types.CalendarEvent, error) {
	const op = "AttendeeService.RemoveEventAttendee"
	ev, addr, err := s.load(dbc, op, ownerID, eventID, contactID)
	if err != nil || ev == nil {
		return nil, err
	}
	if !ev.Metadata.HasAttendee(addr) {
		return ev, nil
	}
	next := make([]string, 0, len(ev.Metadata.Attendees))
	for _, a := range ev.Metadata.Attendees {
		if !strings.EqualFold(strings.TrimSpace(a), addr) {
			next = append(next, a)
		}
	}
	// An empty list drops the attendees key from the stored metadata.
	return s.events.UpdateEvent(dbc, ownerID, eventID, CalendarEventPatch{
		Attendees: OptionalStrings{Set: true, Value: next},
	})
}

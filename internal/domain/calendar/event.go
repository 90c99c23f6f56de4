package calendar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Metadata keys of a calendar_event timeline entry.
const (
	MetaStartTime = "startTime"
	MetaEndTime   = "endTime"
	MetaLocation  = "location"
	MetaEventType = "eventType"
	MetaAttendees = "attendees"
)

// CalendarEventMeta is the typed shape of a calendar_event metadata blob.
// Attendees is nil when the key is absent; it is never stored empty.
type CalendarEventMeta struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Location  *string   `json:"location,omitempty"`
	EventType *string   `json:"eventType,omitempty"`
	Attendees []string  `json:"attendees,omitempty"`
}

// Busy returns the half-open interval the event occupies.
func (m CalendarEventMeta) Busy() BusySlot {
	return BusySlot{Start: m.StartTime, End: m.EndTime}
}

func (m CalendarEventMeta) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// HasAttendee compares addresses case-insensitively.
func (m CalendarEventMeta) HasAttendee(address string) bool {
	for _, a := range m.Attendees {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(address)) {
			return true
		}
	}
	return false
}

// CalendarEvent is the typed projection of a calendar_event TimelineEvent.
type CalendarEvent struct {
	ID              uuid.UUID         `json:"id"`
	OwnerID         uuid.UUID         `json:"owner_id"`
	LinkedContactID uuid.UUID         `json:"linked_contact_id"`
	Title           string            `json:"title"`
	Description     *string           `json:"description"`
	OccurredAt      time.Time         `json:"occurred_at"`
	SourceID        *string           `json:"source_id,omitempty"`
	Metadata        CalendarEventMeta `json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NormalizeTime drops precision the database cannot round-trip.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// ValidateSpan enforces end > start.
func ValidateSpan(op string, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return Validation(op, "start_time and end_time are required")
	}
	if !end.After(start) {
		return Validation(op, fmt.Sprintf("end_time %s must be after start_time %s",
			end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339)))
	}
	return nil
}

type rawMeta struct {
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Location  *string    `json:"location"`
	EventType *string    `json:"eventType"`
	Attendees []string   `json:"attendees"`
}

// ParseMeta decodes a metadata blob into CalendarEventMeta, rejecting blobs
// that are missing the span or carry fields of the wrong type.
func ParseMeta(raw datatypes.JSON) (CalendarEventMeta, error) {
	const op = "calendar.ParseMeta"
	if len(raw) == 0 {
		return CalendarEventMeta{}, Invariant(op, "metadata is empty", nil)
	}
	var rm rawMeta
	if err := json.Unmarshal(raw, &rm); err != nil {
		return CalendarEventMeta{}, Invariant(op, "metadata does not match calendar event shape", err)
	}
	if rm.StartTime == nil || rm.EndTime == nil {
		return CalendarEventMeta{}, Invariant(op, "metadata is missing startTime or endTime", nil)
	}
	meta := CalendarEventMeta{
		StartTime: NormalizeTime(*rm.StartTime),
		EndTime:   NormalizeTime(*rm.EndTime),
		Location:  rm.Location,
		EventType: rm.EventType,
	}
	if !meta.EndTime.After(meta.StartTime) {
		return CalendarEventMeta{}, Invariant(op, "metadata endTime is not after startTime", nil)
	}
	if len(rm.Attendees) > 0 {
		meta.Attendees = rm.Attendees
	}
	return meta, nil
}

// MarshalMeta encodes meta for storage.
func MarshalMeta(meta CalendarEventMeta) (datatypes.JSON, error) {
	if len(meta.Attendees) == 0 {
		meta.Attendees = nil
	}
	meta.StartTime = NormalizeTime(meta.StartTime)
	meta.EndTime = NormalizeTime(meta.EndTime)
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// EventFromTimeline projects a row into a CalendarEvent. A nil row yields nil.
func EventFromTimeline(row *TimelineEvent) (*CalendarEvent, error) {
	const op = "calendar.EventFromTimeline"
	if row == nil {
		return nil, nil
	}
	if row.Kind != KindCalendarEvent {
		return nil, Invariant(op, fmt.Sprintf("timeline entry %s has kind %q", row.ID, row.Kind), nil)
	}
	meta, err := ParseMeta(row.Metadata)
	if err != nil {
		return nil, err
	}
	if !NormalizeTime(row.OccurredAt).Equal(meta.StartTime) {
		return nil, Invariant(op, fmt.Sprintf("timeline entry %s occurred_at drifted from startTime", row.ID), nil)
	}
	return &CalendarEvent{
		ID:              row.ID,
		OwnerID:         row.OwnerID,
		LinkedContactID: row.ContactID,
		Title:           row.Title,
		Description:     row.Description,
		OccurredAt:      meta.StartTime,
		SourceID:        row.SourceID,
		Metadata:        meta,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

// EventsFromTimeline projects rows in order.
func EventsFromTimeline(rows []*TimelineEvent) ([]*CalendarEvent, error) {
	out := make([]*CalendarEvent, 0, len(rows))
	for _, row := range rows {
		ev, err := EventFromTimeline(row)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/practiceboard-backend/internal/data/repos"
	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
	"github.com/yungbote/practiceboard-backend/internal/platform/ctxutil"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/practiceboard-backend/internal/services")

func startSpan(ctx context.Context, name string, ownerID uuid.UUID) (context.Context, trace.Span) {
	return tracer.Start(ctxutil.Default(ctx), name, trace.WithAttributes(attribute.String("owner.id", ownerID.String())))
}

type CalendarEventInput struct {
	ContactID   uuid.UUID `json:"contact_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    *string   `json:"location,omitempty"`
	EventType   *string   `json:"event_type,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
	SourceID    *string   `json:"source_id,omitempty"`
}

// CalendarEventPatch is a partial update. Unset fields keep their stored value;
// an explicit null clears optional fields.
type CalendarEventPatch struct {
	ContactID   OptionalUUID    `json:"contact_id"`
	Title       OptionalString  `json:"title"`
	Description OptionalString  `json:"description"`
	StartTime   OptionalTime    `json:"start_time"`
	EndTime     OptionalTime    `json:"end_time"`
	Location    OptionalString  `json:"location"`
	EventType   OptionalString  `json:"event_type"`
	Attendees   OptionalStrings `json:"attendees"`
}

func (p CalendarEventPatch) empty() bool {
	return !p.ContactID.Set && !p.Title.Set && !p.Description.Set && !p.StartTime.Set &&
		!p.EndTime.Set && !p.Location.Set && !p.EventType.Set && !p.Attendees.Set
}

type CalendarSearch struct {
	StartDate *time.Time
	EndDate   *time.Time
	ContactID *uuid.UUID
	EventType string
	Limit     int
}

type CalendarEventService interface {
	CreateEvent(dbc dbctx.Context, ownerID uuid.UUID, in CalendarEventInput) (*types.CalendarEvent, error)
	// UpdateEvent returns nil when the event does not exist for ownerID.
	UpdateEvent(dbc dbctx.Context, ownerID, eventID uuid.UUID, patch CalendarEventPatch) (*types.CalendarEvent, error)
	DeleteEvent(dbc dbctx.Context, ownerID, eventID uuid.UUID) (bool, error)
	GetEventByID(dbc dbctx.Context, ownerID, eventID uuid.UUID) (*types.CalendarEvent, error)
	SearchEvents(dbc dbctx.Context, ownerID uuid.UUID, q CalendarSearch) ([]*types.CalendarEvent, error)
	// GetEventsInRange returns every event whose [start, end) intersects [start, end).
	GetEventsInRange(dbc dbctx.Context, ownerID uuid.UUID, start, end time.Time) ([]*types.CalendarEvent, error)
}

type calendarEventService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.TimelineEventRepo
	notifier CalendarNotifier
	now      func() time.Time
}

func NewCalendarEventService(db *gorm.DB, baseLog *logger.Logger, repo repos.TimelineEventRepo, notifier CalendarNotifier) CalendarEventService {
	if notifier == nil {
		notifier = NewCalendarNotifier(nil, baseLog)
	}
	return &calendarEventService{
		db:       db,
		log:      baseLog.With("service", "CalendarEventService"),
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// inTx runs fn inside the caller's transaction, or opens one. owned reports
// whether this call committed it, so after-commit work can be skipped otherwise.
func (s *calendarEventService) inTx(dbc dbctx.Context, fn func(inner dbctx.Context) error) (owned bool, err error) {
	if dbc.Tx != nil || s.db == nil {
		return dbc.Tx == nil, fn(dbc)
	}
	err = s.db.WithContext(dbc.Context()).Transaction(func(tx *gorm.DB) error {
		return fn(dbc.WithTx(tx))
	})
	return true, err
}

func (s *calendarEventService) CreateEvent(dbc dbctx.Context, ownerID uuid.UUID, in CalendarEventInput) (*types.CalendarEvent, error) {
	const op = "CalendarEventService.CreateEvent"
	ctx, span := startSpan(dbc.Ctx, op, ownerID)
	defer span.End()
	dbc.Ctx = ctx

	if ownerID == uuid.Nil {
		return nil, calendar.Validation(op, "owner_id is required")
	}
	if in.ContactID == uuid.Nil {
		return nil, calendar.Validation(op, "contact_id is required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, calendar.Validation(op, "title is required")
	}
	if err := calendar.ValidateSpan(op, in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	meta := types.CalendarEventMeta{
		StartTime: calendar.NormalizeTime(in.StartTime),
		EndTime:   calendar.NormalizeTime(in.EndTime),
		Location:  trimmedOrNil(in.Location),
		EventType: trimmedOrNil(in.EventType),
		Attendees: normalizeAttendees(in.Attendees),
	}
	blob, err := calendar.MarshalMeta(meta)
	if err != nil {
		return nil, calendar.Wrap(op, err)
	}
	endsAt := meta.EndTime
	now := s.now()
	row := &types.TimelineEvent{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ContactID:   in.ContactID,
		Kind:        types.KindCalendarEvent,
		Title:       title,
		Description: in.Description,
		OccurredAt:  meta.StartTime,
		EndsAt:      &endsAt,
		SourceID:    trimmedOrNil(in.SourceID),
		Metadata:    blob,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var (
		out     *types.CalendarEvent
		created bool
	)
	owned, err := s.inTx(dbc, func(inner dbctx.Context) error {
		if row.SourceID == nil {
			if _, err := s.repo.Create(inner, []*types.TimelineEvent{row}); err != nil {
				return err
			}
			created = true
			ev, err := calendar.EventFromTimeline(row)
			out = ev
			return err
		}
		inserted, err := s.repo.CreateIgnoreDuplicateSource(inner, row)
		if err != nil {
			return err
		}
		if inserted {
			created = true
			ev, err := calendar.EventFromTimeline(row)
			out = ev
			return err
		}
		existing, err := s.repo.GetBySourceID(inner, ownerID, types.KindCalendarEvent, *row.SourceID)
		if err != nil {
			return err
		}
		if existing == nil {
			return calendar.Invariant(op, "source_id conflict without a matching calendar event", nil)
		}
		ev, err := calendar.EventFromTimeline(existing)
		out = ev
		return err
	})
	if err != nil {
		span.RecordError(err)
		s.log.Warn("create calendar event failed", "owner_id", ownerID, "error", err)
		return nil, calendar.Wrap(op, err)
	}
	if created && owned {
		s.notifier.EventCreated(ctx, ownerID, out.ID)
	}
	return out, nil
}

func (s *calendarEventService) UpdateEvent(dbc dbctx.Context, ownerID, eventID uuid.UUID, patch CalendarEventPatch) (*types.CalendarEvent, error) {
	const op = "CalendarEventService.UpdateEvent"
	ctx, span := startSpan(dbc.Ctx, op, ownerID)
	defer span.End()
	dbc.Ctx = ctx

	if ownerID == uuid.Nil {
		return nil, calendar.Validation(op, "owner_id is required")
	}

	var out *types.CalendarEvent
	owned, err := s.inTx(dbc, func(inner dbctx.Context) error {
		row, err := s.repo.GetByID(inner, ownerID, eventID, types.KindCalendarEvent)
		if err != nil || row == nil {
			return err
		}
		existing, err := calendar.EventFromTimeline(row)
		if err != nil {
			return err
		}
		if patch.empty() {
			out = existing
			return nil
		}

		updates, err := s.mergePatch(op, row, existing, patch)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateFields(inner, ownerID, eventID, updates); err != nil {
			return err
		}
		fresh, err := s.repo.GetByID(inner, ownerID, eventID, types.KindCalendarEvent)
		if err != nil {
			return err
		}
		if fresh == nil {
			return calendar.NotFound(op, "calendar event disappeared during update")
		}
		out, err = calendar.EventFromTimeline(fresh)
		return err
	})
	if err != nil {
		span.RecordError(err)
		if !calendar.IsCode(err, calendar.CodeValidation) {
			s.log.Warn("update calendar event failed", "owner_id", ownerID, "event_id", eventID, "error", err)
		}
		return nil, calendar.Wrap(op, err)
	}
	if out != nil && owned && !patch.empty() {
		s.notifier.EventUpdated(ctx, ownerID, out.ID)
	}
	return out, nil
}

// mergePatch overlays patch onto the stored row and returns the column updates.
// Metadata keys the patch does not mention, including unknown ones, are kept.
func (s *calendarEventService) mergePatch(op string, row *types.TimelineEvent, existing *types.CalendarEvent, patch CalendarEventPatch) (map[string]any, error) {
	updates := map[string]any{"updated_at": s.now()}

	if patch.Title.Set {
		if patch.Title.Value == nil {
			return nil, calendar.Validation(op, "title cannot be cleared")
		}
		updates["title"] = *patch.Title.Value
	}
	if patch.Description.Set {
		if patch.Description.Value == nil {
			updates["description"] = nil
		} else {
			updates["description"] = *patch.Description.Value
		}
	}
	if patch.ContactID.Set {
		if patch.ContactID.Value == nil || *patch.ContactID.Value == uuid.Nil {
			return nil, calendar.Validation(op, "contact_id cannot be cleared")
		}
		updates["contact_id"] = *patch.ContactID.Value
	}

	start, end := existing.Metadata.StartTime, existing.Metadata.EndTime
	metaPatch := map[string]any{}
	if patch.StartTime.Set {
		if patch.StartTime.Value == nil {
			return nil, calendar.Validation(op, "start_time cannot be cleared")
		}
		start = calendar.NormalizeTime(*patch.StartTime.Value)
		metaPatch[calendar.MetaStartTime] = start
	}
	if patch.EndTime.Set {
		if patch.EndTime.Value == nil {
			return nil, calendar.Validation(op, "end_time cannot be cleared")
		}
		end = calendar.NormalizeTime(*patch.EndTime.Value)
		metaPatch[calendar.MetaEndTime] = end
	}
	if err := calendar.ValidateSpan(op, start, end); err != nil {
		return nil, err
	}
	if patch.Location.Set {
		metaPatch[calendar.MetaLocation] = stringOrNil(patch.Location.Value)
	}
	if patch.EventType.Set {
		metaPatch[calendar.MetaEventType] = stringOrNil(patch.EventType.Value)
	}
	if patch.Attendees.Set {
		if list := normalizeAttendees(patch.Attendees.Value); len(list) > 0 {
			metaPatch[calendar.MetaAttendees] = list
		} else {
			metaPatch[calendar.MetaAttendees] = nil
		}
	}

	if len(metaPatch) > 0 {
		merged, err := mergeJSONObjects(json.RawMessage(row.Metadata), metaPatch)
		if err != nil {
			return nil, calendar.Invariant(op, "stored metadata is not an object", err)
		}
		// Parse the merged blob so a bad merge never reaches the table.
		if _, err := calendar.ParseMeta(datatypes.JSON(merged)); err != nil {
			return nil, err
		}
		updates["metadata"] = datatypes.JSON(merged)
		updates["occurred_at"] = start
		updates["ends_at"] = end
	}
	return updates, nil
}

func (s *calendarEventService) DeleteEvent(dbc dbctx.Context, ownerID, eventID uuid.UUID) (bool, error) {
	const op = "CalendarEventService.DeleteEvent"
	ctx, span := startSpan(dbc.Ctx, op, ownerID)
	defer span.End()
	dbc.Ctx = ctx

	if ownerID == uuid.Nil {
		return false, calendar.Validation(op, "owner_id is required")
	}
	deleted, err := s.repo.DeleteByID(dbc, ownerID, eventID, types.KindCalendarEvent)
	if err != nil {
		span.RecordError(err)
		s.log.Warn("delete calendar event failed", "owner_id", ownerID, "event_id", eventID, "error", err)
		return false, calendar.Wrap(op, err)
	}
	if deleted && dbc.Tx == nil {
		s.notifier.EventDeleted(ctx, ownerID, eventID)
	}
	return deleted, nil
}

func (s *calendarEventService) GetEventByID(dbc dbctx.Context, ownerID, eventID uuid.UUID) (*types.CalendarEvent, error) {
	const op = "CalendarEventService.GetEventByID"
	if ownerID == uuid.Nil {
		return nil, calendar.Validation(op, "owner_id is required")
	}
	row, err := s.repo.GetByID(dbc, ownerID, eventID, types.KindCalendarEvent)
	if err != nil {
		return nil, calendar.Wrap(op, err)
	}
	ev, err := calendar.EventFromTimeline(row)
	if err != nil {
		s.log.Error("stored calendar event failed to parse", "owner_id", ownerID, "event_id", eventID, "error", err)
		return nil, err
	}
	return ev, nil
}

func (s *calendarEventService) SearchEvents(dbc dbctx.Context, ownerID uuid.UUID, q CalendarSearch) ([]*types.CalendarEvent, error) {
	const op = "CalendarEventService.SearchEvents"
	ctx, span := startSpan(dbc.Ctx, op, ownerID)
	defer span.End()
	dbc.Ctx = ctx

	if ownerID == uuid.Nil {
		return nil, calendar.Validation(op, "owner_id is required")
	}
	if q.Limit < 0 {
		return nil, calendar.Validation(op, "limit must not be negative")
	}
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return []*types.CalendarEvent{}, nil
	}
	tq := repos.TimelineQuery{
		Kind:      types.KindCalendarEvent,
		From:      q.StartDate,
		Until:     q.EndDate,
		ContactID: q.ContactID,
		Limit:     q.Limit,
	}
	if et := strings.TrimSpace(q.EventType); et != "" {
		tq.MetaEquals = map[string]string{calendar.MetaEventType: et}
	}
	rows, err := s.repo.Search(dbc, ownerID, tq)
	if err != nil {
		span.RecordError(err)
		return nil, calendar.Wrap(op, err)
	}
	return calendar.EventsFromTimeline(rows)
}

func (s *calendarEventService) GetEventsInRange(dbc dbctx.Context, ownerID uuid.UUID, start, end time.Time) ([]*types.CalendarEvent, error) {
	const op = "CalendarEventService.GetEventsInRange"
	if ownerID == uuid.Nil {
		return nil, calendar.Validation(op, "owner_id is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, calendar.Validation(op, "start and end are required")
	}
	if !start.Before(end) {
		return []*types.CalendarEvent{}, nil
	}
	rows, err := s.repo.ListOverlapping(dbc, ownerID, types.KindCalendarEvent, start, end)
	if err != nil {
		return nil, calendar.Wrap(op, err)
	}
	return calendar.EventsFromTimeline(rows)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// stringOrNil yields an untyped nil so mergeJSONObjects drops the key.
func stringOrNil(s *string) any {
	if v := trimmedOrNil(s); v != nil {
		return *v
	}
	return nil
}

// normalizeAttendees trims, drops blanks and removes case-insensitive duplicates,
// keeping first-seen order. An empty result is nil.
func normalizeAttendees(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

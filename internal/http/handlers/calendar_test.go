package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
	"github.com/yungbote/practiceboard-backend/internal/platform/ctxutil"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

type fakeEvents struct {
	event     *types.CalendarEvent
	events    []*types.CalendarEvent
	err       error
	deleted   bool
	lastIn    services.CalendarEventInput
	lastPatch services.CalendarEventPatch
	lastQuery services.CalendarSearch
	lastOwner uuid.UUID
}

func (f *fakeEvents) CreateEvent(dbc dbctx.Context, ownerID uuid.UUID, in services.CalendarEventInput) (*types.CalendarEvent, error) {
	f.lastOwner, f.lastIn = ownerID, in
	return f.event, f.err
}

func (f *fakeEvents) UpdateEvent(dbc dbctx.Context, ownerID, eventID uuid.UUID, patch services.CalendarEventPatch) (*types.CalendarEvent, error) {
	f.lastOwner, f.lastPatch = ownerID, patch
	return f.event, f.err
}

func (f *fakeEvents) DeleteEvent(dbc dbctx.Context, ownerID, eventID uuid.UUID) (bool, error) {
	f.lastOwner = ownerID
	return f.deleted, f.err
}

func (f *fakeEvents) GetEventByID(dbc dbctx.Context, ownerID, eventID uuid.UUID) (*types.CalendarEvent, error) {
	f.lastOwner = ownerID
	return f.event, f.err
}

func (f *fakeEvents) SearchEvents(dbc dbctx.Context, ownerID uuid.UUID, q services.CalendarSearch) ([]*types.CalendarEvent, error) {
	f.lastOwner, f.lastQuery = ownerID, q
	return f.events, f.err
}

func (f *fakeEvents) GetEventsInRange(dbc dbctx.Context, ownerID uuid.UUID, start, end time.Time) ([]*types.CalendarEvent, error) {
	f.lastOwner = ownerID
	return f.events, f.err
}

type fakeAttendees struct {
	event   *types.CalendarEvent
	err     error
	contact uuid.UUID
}

func (f *fakeAttendees) AddEventAttendee(dbc dbctx.Context, ownerID, eventID, contactID uuid.UUID) (*types.CalendarEvent, error) {
	f.contact = contactID
	return f.event, f.err
}

func (f *fakeAttendees) RemoveEventAttendee(dbc dbctx.Context, ownerID, eventID, contactID uuid.UUID) (*types.CalendarEvent, error) {
	f.contact = contactID
	return f.event, f.err
}

type fakeAvailability struct {
	slots    []types.AvailabilitySlot
	err      error
	duration int
	hours    *types.WorkingHours
}

func (f *fakeAvailability) FindAvailability(dbc dbctx.Context, ownerID uuid.UUID, rangeStart, rangeEnd time.Time, durationMinutes int, wh *types.WorkingHours) ([]types.AvailabilitySlot, error) {
	f.duration, f.hours = durationMinutes, wh
	return f.slots, f.err
}

type fakePrep struct {
	bundle *types.SessionPrepBundle
	err    error
}

func (f *fakePrep) GetSessionPrep(dbc dbctx.Context, ownerID, eventID uuid.UUID) (*types.SessionPrepBundle, error) {
	return f.bundle, f.err
}

type fakeFeed struct {
	body       []byte
	start, end time.Time
}

func (f *fakeFeed) ExportICS(dbc dbctx.Context, ownerID uuid.UUID, start, end time.Time) ([]byte, error) {
	f.start, f.end = start, end
	return f.body, nil
}

type handlerHarness struct {
	owner        uuid.UUID
	events       *fakeEvents
	attendees    *fakeAttendees
	availability *fakeAvailability
	prep         *fakePrep
	feed         *fakeFeed
	router       *gin.Engine
}

func newHandlerHarness(t *testing.T, authenticated bool) *handlerHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := &handlerHarness{
		owner:        uuid.New(),
		events:       &fakeEvents{},
		attendees:    &fakeAttendees{},
		availability: &fakeAvailability{},
		prep:         &fakePrep{},
		feed:         &fakeFeed{body: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")},
	}
	log := newTestLogger(t)
	cal := NewCalendarHandler(log, h.events, h.attendees)
	sched := NewSchedulingHandler(log, h.availability, h.prep, h.feed)
	sched.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	api := r.Group("/api")
	if authenticated {
		api.Use(func(c *gin.Context) {
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{OwnerID: h.owner})
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
	api.POST("/calendar/events", cal.CreateEvent)
	api.GET("/calendar/events", cal.SearchEvents)
	api.GET("/calendar/events/range", cal.EventsInRange)
	api.GET("/calendar/events/:id", cal.GetEvent)
	api.PATCH("/calendar/events/:id", cal.UpdateEvent)
	api.DELETE("/calendar/events/:id", cal.DeleteEvent)
	api.POST("/calendar/events/:id/attendees", cal.AddAttendee)
	api.DELETE("/calendar/events/:id/attendees/:contact_id", cal.RemoveAttendee)
	api.GET("/calendar/events/:id/prep", sched.SessionPrep)
	api.GET("/calendar/availability", sched.FindAvailability)
	api.GET("/calendar/feed.ics", sched.Feed)
	h.router = r
	return h
}

func (h *handlerHarness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return env.Error.Code
}

func sampleEvent(owner uuid.UUID) *types.CalendarEvent {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	return &types.CalendarEvent{
		ID:              uuid.New(),
		OwnerID:         owner,
		LinkedContactID: uuid.New(),
		Title:           "Session",
		OccurredAt:      start,
		Metadata:        types.CalendarEventMeta{StartTime: start, EndTime: start.Add(time.Hour)},
	}
}

func TestCalendarRoutesRequireOwner(t *testing.T) {
	h := newHandlerHarness(t, false)
	for _, path := range []string{"/api/calendar/events", "/api/calendar/availability", "/api/calendar/feed.ics"} {
		rec := h.do(http.MethodGet, path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want 401 got %d", path, rec.Code)
		}
	}
}

func TestCreateEventHandler(t *testing.T) {
	h := newHandlerHarness(t, true)
	h.events.event = sampleEvent(h.owner)
	contact := uuid.New()

	rec := h.do(http.MethodPost, "/api/calendar/events", `{
		"contact_id": "`+contact.String()+`",
		"title": "Intake",
		"start_time": "2025-03-10T10:00:00Z",
		"end_time": "2025-03-10T11:00:00Z",
		"attendees": ["a@example.com"]
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if h.events.lastOwner != h.owner || h.events.lastIn.ContactID != contact || h.events.lastIn.Title != "Intake" {
		t.Fatalf("input not forwarded: %+v", h.events.lastIn)
	}
	if len(h.events.lastIn.Attendees) != 1 {
		t.Fatalf("attendees not forwarded: %+v", h.events.lastIn.Attendees)
	}

	h.events.err = calendar.Validation("CalendarEventService.CreateEvent", "end_time must be after start_time")
	rec = h.do(http.MethodPost, "/api/calendar/events", `{"title":"x"}`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "validation" {
		t.Fatalf("validation: got %d %s", rec.Code, rec.Body.String())
	}

	rec = h.do(http.MethodPost, "/api/calendar/events", `{not json`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_request" {
		t.Fatalf("bad json: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestGetEventHandlerNotFound(t *testing.T) {
	h := newHandlerHarness(t, true)

	rec := h.do(http.MethodGet, "/api/calendar/events/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "not_found" {
		t.Fatalf("missing: got %d %s", rec.Code, rec.Body.String())
	}
	rec = h.do(http.MethodGet, "/api/calendar/events/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_event_id" {
		t.Fatalf("bad id: got %d %s", rec.Code, rec.Body.String())
	}

	h.events.err = calendar.Invariant("CalendarEventService.GetEventByID", "corrupt metadata", nil)
	rec = h.do(http.MethodGet, "/api/calendar/events/"+uuid.NewString(), "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("invariant: got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "corrupt metadata") {
		t.Fatalf("invariant detail leaked: %s", rec.Body.String())
	}
}

func TestUpdateEventHandlerDecodesPatch(t *testing.T) {
	h := newHandlerHarness(t, true)
	h.events.event = sampleEvent(h.owner)

	rec := h.do(http.MethodPatch, "/api/calendar/events/"+uuid.NewString(), `{"title":"Renamed","location":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 got %d: %s", rec.Code, rec.Body.String())
	}
	p := h.events.lastPatch
	if !p.Title.Set || p.Title.Value == nil || *p.Title.Value != "Renamed" {
		t.Fatalf("title patch: %+v", p.Title)
	}
	if !p.Location.Set || p.Location.Value != nil {
		t.Fatalf("location should be an explicit clear: %+v", p.Location)
	}
	if p.StartTime.Set || p.Attendees.Set {
		t.Fatalf("unset fields marked set: %+v", p)
	}

	h.events.event = nil
	rec = h.do(http.MethodPatch, "/api/calendar/events/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing event: got %d", rec.Code)
	}
}

func TestDeleteEventHandler(t *testing.T) {
	h := newHandlerHarness(t, true)
	rec := h.do(http.MethodDelete, "/api/calendar/events/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("nothing deleted: got %d", rec.Code)
	}
	h.events.deleted = true
	rec = h.do(http.MethodDelete, "/api/calendar/events/"+uuid.NewString(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("deleted: got %d", rec.Code)
	}
}

func TestSearchEventsHandlerParsesQuery(t *testing.T) {
	h := newHandlerHarness(t, true)
	h.events.events = []*types.CalendarEvent{sampleEvent(h.owner)}
	contact := uuid.New()

	rec := h.do(http.MethodGet, "/api/calendar/events?start=2025-03-01T00:00:00Z&contact_id="+contact.String()+"&event_type=session&limit=7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 got %d: %s", rec.Code, rec.Body.String())
	}
	q := h.events.lastQuery
	if q.StartDate == nil || !q.StartDate.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) || q.EndDate != nil {
		t.Fatalf("dates: %+v", q)
	}
	if q.ContactID == nil || *q.ContactID != contact || q.EventType != "session" || q.Limit != 7 {
		t.Fatalf("filters: %+v", q)
	}

	for _, bad := range []string{"?start=yesterday", "?limit=ten", "?contact_id=nope"} {
		rec = h.do(http.MethodGet, "/api/calendar/events"+bad, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400 got %d", bad, rec.Code)
		}
	}
}

func TestEventsInRangeRequiresBounds(t *testing.T) {
	h := newHandlerHarness(t, true)
	rec := h.do(http.MethodGet, "/api/calendar/events/range?start=2025-03-10T00:00:00Z", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing end: got %d", rec.Code)
	}
	rec = h.do(http.MethodGet, "/api/calendar/events/range?start=2025-03-10T00:00:00Z&end=2025-03-11T00:00:00Z", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("range: got %d", rec.Code)
	}
}

func TestAttendeeHandlers(t *testing.T) {
	h := newHandlerHarness(t, true)
	eventID := uuid.NewString()

	rec := h.do(http.MethodPost, "/api/calendar/events/"+eventID+"/attendees", `{}`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_contact_id" {
		t.Fatalf("missing contact: got %d %s", rec.Code, rec.Body.String())
	}

	contact := uuid.New()
	rec = h.do(http.MethodPost, "/api/calendar/events/"+eventID+"/attendees", `{"contact_id":"`+contact.String()+`"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unresolved: got %d", rec.Code)
	}

	h.attendees.event = sampleEvent(h.owner)
	rec = h.do(http.MethodDelete, "/api/calendar/events/"+eventID+"/attendees/"+contact.String(), "")
	if rec.Code != http.StatusOK || h.attendees.contact != contact {
		t.Fatalf("remove: got %d contact=%s", rec.Code, h.attendees.contact)
	}
}

func TestAvailabilityHandler(t *testing.T) {
	h := newHandlerHarness(t, true)
	base := "/api/calendar/availability?start=2025-03-10T00:00:00Z&end=2025-03-11T00:00:00Z"

	rec := h.do(http.MethodGet, base, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing duration: got %d", rec.Code)
	}
	rec = h.do(http.MethodGet, base+"&duration_minutes=60&start_hour=8", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("half working hours: got %d", rec.Code)
	}

	h.availability.slots = []types.AvailabilitySlot{}
	rec = h.do(http.MethodGet, base+"&duration_minutes=60", "")
	if rec.Code != http.StatusOK || h.availability.duration != 60 || h.availability.hours != nil {
		t.Fatalf("defaults: got %d duration=%d hours=%v", rec.Code, h.availability.duration, h.availability.hours)
	}
	if !strings.Contains(rec.Body.String(), `"slots":[]`) {
		t.Fatalf("empty slots should serialise as []: %s", rec.Body.String())
	}

	rec = h.do(http.MethodGet, base+"&duration_minutes=30&start_hour=8&end_hour=12", "")
	if rec.Code != http.StatusOK || h.availability.hours == nil || h.availability.hours.StartHour != 8 || h.availability.hours.EndHour != 12 {
		t.Fatalf("custom hours: got %d hours=%v", rec.Code, h.availability.hours)
	}

	h.availability.err = calendar.Validation("AvailabilityService.FindAvailability", "duration_minutes must be positive")
	rec = h.do(http.MethodGet, base+"&duration_minutes=0", "")
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "validation" {
		t.Fatalf("service validation: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestSessionPrepHandler(t *testing.T) {
	h := newHandlerHarness(t, true)
	rec := h.do(http.MethodGet, "/api/calendar/events/"+uuid.NewString()+"/prep", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing: got %d", rec.Code)
	}
	h.prep.bundle = &types.SessionPrepBundle{
		Event:        sampleEvent(h.owner),
		RecentNotes:  []*types.Note{},
		PendingTasks: []*types.Task{},
		RelatedGoals: []*types.Goal{},
	}
	rec = h.do(http.MethodGet, "/api/calendar/events/"+uuid.NewString()+"/prep", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("prep: got %d", rec.Code)
	}
}

func TestFeedHandler(t *testing.T) {
	h := newHandlerHarness(t, true)
	rec := h.do(http.MethodGet, "/api/calendar/feed.ics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("content type: %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Fatalf("body: %q", rec.Body.String())
	}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if !h.feed.start.Equal(now.Add(-feedDefaultLookback)) || !h.feed.end.Equal(now.Add(feedDefaultLookahead)) {
		t.Fatalf("default window: %s - %s", h.feed.start, h.feed.end)
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/practiceboard-backend/internal/data/repos"
	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
	"github.com/yungbote/practiceboard-backend/internal/realtime/bus"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func bg() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }

func at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("time.Parse(%q): %v", s, err)
	}
	return v
}

// fakeTimelineRepo is an in-memory repos.TimelineEventRepo.
type fakeTimelineRepo struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]*types.TimelineEvent
	rangeCalls  int
	updateCalls int
	err         error
}

var _ repos.TimelineEventRepo = (*fakeTimelineRepo)(nil)

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{rows: map[uuid.UUID]*types.TimelineEvent{}}
}

func cloneRow(r *types.TimelineEvent) *types.TimelineEvent {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Metadata = append(datatypes.JSON(nil), r.Metadata...)
	if r.EndsAt != nil {
		v := *r.EndsAt
		cp.EndsAt = &v
	}
	return &cp
}

func (f *fakeTimelineRepo) Create(_ dbctx.Context, rows []*types.TimelineEvent) ([]*types.TimelineEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range rows {
		f.rows[r.ID] = cloneRow(r)
	}
	return rows, nil
}

func (f *fakeTimelineRepo) CreateIgnoreDuplicateSource(_ dbctx.Context, row *types.TimelineEvent) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.rows {
		if r.OwnerID == row.OwnerID && r.SourceID != nil && row.SourceID != nil && *r.SourceID == *row.SourceID {
			return false, nil
		}
	}
	f.rows[row.ID] = cloneRow(row)
	return true, nil
}

func (f *fakeTimelineRepo) GetByID(_ dbctx.Context, ownerID, id uuid.UUID, kind string) (*types.TimelineEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rows[id]
	if !ok || r.OwnerID != ownerID || r.Kind != kind {
		return nil, nil
	}
	return cloneRow(r), nil
}

func (f *fakeTimelineRepo) GetBySourceID(_ dbctx.Context, ownerID uuid.UUID, kind, sourceID string) (*types.TimelineEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.OwnerID == ownerID && r.Kind == kind && r.SourceID != nil && *r.SourceID == sourceID {
			return cloneRow(r), nil
		}
	}
	return nil, nil
}

func (f *fakeTimelineRepo) UpdateFields(_ dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.updateCalls++
	r, ok := f.rows[id]
	if !ok || r.OwnerID != ownerID {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "title":
			r.Title = v.(string)
		case "description":
			if v == nil {
				r.Description = nil
			} else {
				s := v.(string)
				r.Description = &s
			}
		case "contact_id":
			r.ContactID = v.(uuid.UUID)
		case "metadata":
			r.Metadata = append(datatypes.JSON(nil), v.(datatypes.JSON)...)
		case "occurred_at":
			r.OccurredAt = v.(time.Time)
		case "ends_at":
			e := v.(time.Time)
			r.EndsAt = &e
		case "updated_at":
			r.UpdatedAt = v.(time.Time)
		default:
			return fmt.Errorf("fake repo: unexpected column %q", k)
		}
	}
	return nil
}

func (f *fakeTimelineRepo) DeleteByID(_ dbctx.Context, ownerID, id uuid.UUID, kind string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	r, ok := f.rows[id]
	if !ok || r.OwnerID != ownerID || r.Kind != kind {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeTimelineRepo) Search(_ dbctx.Context, ownerID uuid.UUID, q repos.TimelineQuery) ([]*types.TimelineEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.TimelineEvent{}
	for _, r := range f.rows {
		if r.OwnerID != ownerID || (q.Kind != "" && r.Kind != q.Kind) {
			continue
		}
		if q.From != nil && r.OccurredAt.Before(*q.From) {
			continue
		}
		if q.Until != nil && r.OccurredAt.After(*q.Until) {
			continue
		}
		if q.ContactID != nil && r.ContactID != *q.ContactID {
			continue
		}
		if !metaMatches(r.Metadata, q.MetaEquals) {
			continue
		}
		out = append(out, cloneRow(r))
	}
	sortRows(out)
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTimelineRepo) ListOverlapping(_ dbctx.Context, ownerID uuid.UUID, kind string, start, end time.Time) ([]*types.TimelineEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangeCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.TimelineEvent{}
	for _, r := range f.rows {
		if r.OwnerID != ownerID || r.Kind != kind || r.EndsAt == nil {
			continue
		}
		if r.OccurredAt.Before(end) && r.EndsAt.After(start) {
			out = append(out, cloneRow(r))
		}
	}
	sortRows(out)
	return out, nil
}

// raw returns the stored metadata object for assertions on key presence.
func (f *fakeTimelineRepo) raw(t *testing.T, id uuid.UUID) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		t.Fatalf("row %s not stored", id)
	}
	var m map[string]any
	if err := json.Unmarshal(r.Metadata, &m); err != nil {
		t.Fatalf("stored metadata: %v", err)
	}
	return m
}

func (f *fakeTimelineRepo) put(row *types.TimelineEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[row.ID] = cloneRow(row)
}

func metaMatches(raw datatypes.JSON, want map[string]string) bool {
	if len(want) == 0 {
		return true
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	for k, v := range want {
		got, ok := m[k].(string)
		if !ok || got != v {
			return false
		}
	}
	return true
}

func sortRows(rows []*types.TimelineEvent) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].OccurredAt.Equal(rows[j].OccurredAt) {
			return rows[i].OccurredAt.Before(rows[j].OccurredAt)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
}

// recordingBus keeps every published message.
type recordingBus struct {
	mu   sync.Mutex
	msgs []bus.Message
}

func (b *recordingBus) Publish(_ context.Context, msg bus.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return nil
}

func (b *recordingBus) StartForwarder(context.Context, func(bus.Message)) error { return nil }

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) kinds() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.msgs))
	for _, m := range b.msgs {
		out = append(out, m.Type)
	}
	return out
}

// fakeContactReads is an in-memory ContactReadModel.
type fakeContactReads struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]*types.Contact
	notes    []*types.Note
	tasks    []*types.Task
	goals    []*types.Goal

	notesErr   error
	contactErr error
	limits     map[string]int
}

func newFakeContactReads() *fakeContactReads {
	return &fakeContactReads{contacts: map[uuid.UUID]*types.Contact{}, limits: map[string]int{}}
}

func (f *fakeContactReads) addContact(ownerID uuid.UUID, name, email string) *types.Contact {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &types.Contact{ID: uuid.New(), OwnerID: ownerID, DisplayName: name}
	if email != "" {
		c.PrimaryEmail = &email
	}
	f.contacts[c.ID] = c
	return c
}

func (f *fakeContactReads) ResolveContactAddress(_ dbctx.Context, ownerID, contactID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[contactID]
	if !ok || c.OwnerID != ownerID || c.PrimaryEmail == nil {
		return "", nil
	}
	return *c.PrimaryEmail, nil
}

func (f *fakeContactReads) GetContactSnapshot(_ dbctx.Context, ownerID, contactID uuid.UUID) (*types.ContactSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.contactErr != nil {
		return nil, f.contactErr
	}
	c, ok := f.contacts[contactID]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	return c.Snapshot(), nil
}

func (f *fakeContactReads) ListRecentNotes(_ dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits["notes"] = limit
	if f.notesErr != nil {
		return nil, f.notesErr
	}
	var out []*types.Note
	for _, n := range f.notes {
		if n.OwnerID == ownerID && n.ContactID == contactID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeContactReads) ListPendingTasksForContact(_ dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits["tasks"] = limit
	var out []*types.Task
	for _, task := range f.tasks {
		if task.OwnerID == ownerID && task.ContactID != nil && *task.ContactID == contactID && task.Status != types.TaskStatusDone {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeContactReads) ListGoalsForContact(_ dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits["goals"] = limit
	var out []*types.Goal
	for _, g := range f.goals {
		if g.OwnerID == ownerID && g.ContactID == contactID {
			out = append(out, g)
		}
	}
	return out, nil
}

type calendarHarness struct {
	repo     *fakeTimelineRepo
	bus      *recordingBus
	events   CalendarEventService
	contacts *fakeContactReads
	owner    uuid.UUID
}

func newCalendarHarness(t *testing.T) *calendarHarness {
	t.Helper()
	log := testLogger(t)
	h := &calendarHarness{
		repo:     newFakeTimelineRepo(),
		bus:      &recordingBus{},
		contacts: newFakeContactReads(),
		owner:    uuid.New(),
	}
	h.events = NewCalendarEventService(nil, log, h.repo, NewCalendarNotifier(h.bus, log))
	return h
}

func (h *calendarHarness) create(t *testing.T, contactID uuid.UUID, title, start, end string) *types.CalendarEvent {
	t.Helper()
	ev, err := h.events.CreateEvent(bg(), h.owner, CalendarEventInput{
		ContactID: contactID,
		Title:     title,
		StartTime: at(t, start),
		EndTime:   at(t, end),
	})
	if err != nil {
		t.Fatalf("CreateEvent(%s): %v", title, err)
	}
	return ev
}

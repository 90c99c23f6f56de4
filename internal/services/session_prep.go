package services

import (
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
	"github.com/yungbote/practiceboard-backend/internal/observability"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type SessionPrepOptions struct {
	NotesLimit int `yaml:"notes_limit"`
	TasksLimit int `yaml:"tasks_limit"`
	GoalsLimit int `yaml:"goals_limit"`
}

func DefaultSessionPrepOptions() SessionPrepOptions {
	return SessionPrepOptions{NotesLimit: 5, TasksLimit: 10, GoalsLimit: 5}
}

type SessionPrepService interface {
	// GetSessionPrep returns nil when the event does not exist for ownerID.
	GetSessionPrep(dbc dbctx.Context, ownerID, eventID uuid.UUID) (*types.SessionPrepBundle, error)
}

type sessionPrepService struct {
	log    *logger.Logger
	events CalendarEventService
	reads  ContactReadModel
	opts   SessionPrepOptions
}

func NewSessionPrepService(baseLog *logger.Logger, events CalendarEventService, reads ContactReadModel, opts SessionPrepOptions) SessionPrepService {
	def := DefaultSessionPrepOptions()
	if opts.NotesLimit <= 0 {
		opts.NotesLimit = def.NotesLimit
	}
	if opts.TasksLimit <= 0 {
		opts.TasksLimit = def.TasksLimit
	}
	if opts.GoalsLimit <= 0 {
		opts.GoalsLimit = def.GoalsLimit
	}
	return &sessionPrepService{
		log:    baseLog.With("service", "SessionPrepService"),
		events: events,
		reads:  reads,
		opts:   opts,
	}
}

func (s *sessionPrepService) GetSessionPrep(dbc dbctx.Context, ownerID, eventID uuid.UUID) (*types.SessionPrepBundle, error) {
	const op = "SessionPrepService.GetSessionPrep"
	ctx, span := startSpan(dbc.Ctx, op, ownerID)
	defer span.End()
	dbc.Ctx = ctx

	if ownerID == uuid.Nil {
		return nil, calendar.Validation(op, "owner_id is required")
	}
	ev, err := s.events.GetEventByID(dbc, ownerID, eventID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}
	contactID := ev.LinkedContactID

	var (
		contact        *types.ContactSnapshot
		contactMissing bool
		notes          []*types.Note
		tasks          []*types.Task
		goals          []*types.Goal
	)

	g, gctx := errgroup.WithContext(dbc.Context())
	inner := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	if dbc.Tx != nil {
		// A transaction is one connection; do not share it across goroutines.
		g.SetLimit(1)
	}

	// Sub-fetches are best effort: failures are logged and leave the zero value.
	g.Go(func() error {
		c, err := s.reads.GetContactSnapshot(inner, ownerID, contactID)
		if err != nil {
			observability.Current().IncSessionPrepDegraded("contact")
			s.log.Warn("session prep contact lookup failed", "owner_id", ownerID, "contact_id", contactID, "error", err)
			return nil
		}
		contact = c
		contactMissing = c == nil
		return nil
	})
	g.Go(func() error {
		rows, err := s.reads.ListRecentNotes(inner, ownerID, contactID, s.opts.NotesLimit)
		if err != nil {
			observability.Current().IncSessionPrepDegraded("notes")
			s.log.Warn("session prep notes lookup failed", "owner_id", ownerID, "contact_id", contactID, "error", err)
			return nil
		}
		notes = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reads.ListPendingTasksForContact(inner, ownerID, contactID, s.opts.TasksLimit)
		if err != nil {
			observability.Current().IncSessionPrepDegraded("tasks")
			s.log.Warn("session prep tasks lookup failed", "owner_id", ownerID, "contact_id", contactID, "error", err)
			return nil
		}
		tasks = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reads.ListGoalsForContact(inner, ownerID, contactID, s.opts.GoalsLimit)
		if err != nil {
			observability.Current().IncSessionPrepDegraded("goals")
			s.log.Warn("session prep goals lookup failed", "owner_id", ownerID, "contact_id", contactID, "error", err)
			return nil
		}
		goals = rows
		return nil
	})
	_ = g.Wait()

	bundle := &types.SessionPrepBundle{
		Event:        ev,
		Contact:      contact,
		RecentNotes:  capList(notes, s.opts.NotesLimit),
		PendingTasks: capList(tasks, s.opts.TasksLimit),
		RelatedGoals: capList(goals, s.opts.GoalsLimit),
	}
	// Only a confirmed miss empties the lists; a failed lookup degrades alone.
	if contactMissing {
		bundle.RecentNotes = []*types.Note{}
		bundle.PendingTasks = []*types.Task{}
		bundle.RelatedGoals = []*types.Goal{}
	}
	return bundle, nil
}

// capList trims to limit and never returns nil.
func capList[T any](in []T, limit int) []T {
	if len(in) > limit {
		in = in[:limit]
	}
	if in == nil {
		return []T{}
	}
	return in
}

package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/practiceboard-backend/internal/data/repos"
	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

// ContactDirectory resolves contact identity for the calendar. Misses are
// (zero value, nil), not errors.
type ContactDirectory interface {
	ResolveContactAddress(dbc dbctx.Context, ownerID, contactID uuid.UUID) (string, error)
	GetContactSnapshot(dbc dbctx.Context, ownerID, contactID uuid.UUID) (*types.ContactSnapshot, error)
}

type NoteReader interface {
	// ListRecentNotes is ordered newest first.
	ListRecentNotes(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Note, error)
}

type TaskReader interface {
	// ListPendingTasksForContact excludes done tasks and is ordered by priority, highest first.
	ListPendingTasksForContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Task, error)
}

type GoalReader interface {
	// ListGoalsForContact is ordered by creation, newest first.
	ListGoalsForContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Goal, error)
}

// ContactReadModel is the full set of contact-side reads the calendar consumes.
type ContactReadModel interface {
	ContactDirectory
	NoteReader
	TaskReader
	GoalReader
}

type contactReadModel struct {
	log      *logger.Logger
	contacts repos.ContactRepo
	notes    repos.NoteRepo
	tasks    repos.TaskRepo
	goals    repos.GoalRepo
}

func NewContactReadModel(baseLog *logger.Logger, contacts repos.ContactRepo, notes repos.NoteRepo, tasks repos.TaskRepo, goals repos.GoalRepo) ContactReadModel {
	return &contactReadModel{
		log:      baseLog.With("service", "ContactReadModel"),
		contacts: contacts,
		notes:    notes,
		tasks:    tasks,
		goals:    goals,
	}
}

func (m *contactReadModel) ResolveContactAddress(dbc dbctx.Context, ownerID, contactID uuid.UUID) (string, error) {
	c, err := m.contacts.GetByID(dbc, ownerID, contactID)
	if err != nil || c == nil {
		return "", err
	}
	if c.PrimaryEmail == nil {
		return "", nil
	}
	return strings.TrimSpace(*c.PrimaryEmail), nil
}

func (m *contactReadModel) GetContactSnapshot(dbc dbctx.Context, ownerID, contactID uuid.UUID) (*types.ContactSnapshot, error) {
	c, err := m.contacts.GetByID(dbc, ownerID, contactID)
	if err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

func (m *contactReadModel) ListRecentNotes(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Note, error) {
	return m.notes.ListRecentByContact(dbc, ownerID, contactID, limit)
}

func (m *contactReadModel) ListPendingTasksForContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Task, error) {
	return m.tasks.ListPendingByContact(dbc, ownerID, contactID, limit)
}

func (m *contactReadModel) ListGoalsForContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Goal, error) {
	return m.goals.ListRecentByContact(dbc, ownerID, contactID, limit)
}

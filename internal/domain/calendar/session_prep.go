package calendar

import "github.com/yungbote/practiceboard-backend/internal/domain/contacts"

// SessionPrepBundle is the read-only context gathered ahead of an event.
// The slices are never nil.
type SessionPrepBundle struct {
	Event        *CalendarEvent            `json:"event"`
	Contact      *contacts.ContactSnapshot `json:"contact"`
	RecentNotes  []*contacts.Note          `json:"recent_notes"`
	PendingTasks []*contacts.Task          `json:"pending_tasks"`
	RelatedGoals []*contacts.Goal          `json:"related_goals"`
}

package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/practiceboard-backend/internal/data/repos/calendar"
	"github.com/yungbote/practiceboard-backend/internal/data/repos/contacts"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type TimelineEventRepo = calendar.TimelineEventRepo
type TimelineQuery = calendar.TimelineQuery

type ContactRepo = contacts.ContactRepo
type NoteRepo = contacts.NoteRepo
type TaskRepo = contacts.TaskRepo
type GoalRepo = contacts.GoalRepo

func NewTimelineEventRepo(db *gorm.DB, baseLog *logger.Logger) TimelineEventRepo {
	return calendar.NewTimelineEventRepo(db, baseLog)
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return contacts.NewContactRepo(db, baseLog)
}
func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo { return contacts.NewNoteRepo(db, baseLog) }
func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo { return contacts.NewTaskRepo(db, baseLog) }
func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo { return contacts.NewGoalRepo(db, baseLog) }

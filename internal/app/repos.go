package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/practiceboard-backend/internal/data/repos"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type Repos struct {
	TimelineEvent repos.TimelineEventRepo

	Contact repos.ContactRepo
	Note    repos.NoteRepo
	Task    repos.TaskRepo
	Goal    repos.GoalRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		TimelineEvent: repos.NewTimelineEventRepo(db, log),
		Contact:       repos.NewContactRepo(db, log),
		Note:          repos.NewNoteRepo(db, log),
		Task:          repos.NewTaskRepo(db, log),
		Goal:          repos.NewGoalRepo(db, log),
	}
}

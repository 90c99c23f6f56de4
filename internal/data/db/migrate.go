package db

import (
	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Contacts and their read-side companions
		&types.Contact{},
		&types.Note{},
		&types.Task{},
		&types.Goal{},

		// Timeline ledger (calendar events are kind=calendar_event rows)
		&types.TimelineEvent{},
	)
}

package contacts

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;column:owner_id;not null;index:idx_task_owner_contact,priority:1" json:"owner_id"`
	ContactID *uuid.UUID `gorm:"type:uuid;column:contact_id;index:idx_task_owner_contact,priority:2" json:"contact_id,omitempty"`
	Title     string     `gorm:"column:title;not null" json:"title"`
	Status    string     `gorm:"column:status;not null;default:'todo';index" json:"status"`
	// Higher is more urgent.
	Priority  int        `gorm:"column:priority;not null;default:0" json:"priority"`
	DueAt     *time.Time `gorm:"column:due_at" json:"due_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Task) TableName() string { return "contact_task" }

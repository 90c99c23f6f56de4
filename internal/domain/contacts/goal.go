package contacts

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;column:owner_id;not null;index:idx_goal_owner_contact,priority:1" json:"owner_id"`
	ContactID  uuid.UUID  `gorm:"type:uuid;column:contact_id;not null;index:idx_goal_owner_contact,priority:2" json:"contact_id"`
	Title      string     `gorm:"column:title;not null" json:"title"`
	Status     string     `gorm:"column:status;not null;default:'active'" json:"status"`
	TargetDate *time.Time `gorm:"column:target_date" json:"target_date,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Goal) TableName() string { return "contact_goal" }

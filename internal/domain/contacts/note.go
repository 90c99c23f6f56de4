package contacts

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;column:owner_id;not null;index:idx_note_owner_contact,priority:1" json:"owner_id"`
	ContactID uuid.UUID `gorm:"type:uuid;column:contact_id;not null;index:idx_note_owner_contact,priority:2" json:"contact_id"`
	Title     string    `gorm:"column:title" json:"title"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Note) TableName() string { return "contact_note" }

package calendar

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const KindCalendarEvent = "calendar_event"

// TimelineEvent is the generic timestamped record behind every dated entry in
// a contact's timeline. Kind-specific fields live in Metadata; typed views
// such as CalendarEvent are projected from it.
type TimelineEvent struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;column:owner_id;not null;index:idx_timeline_owner_occurred,priority:1;index:idx_timeline_owner_source,unique,priority:1" json:"owner_id"`
	// Every timeline entry belongs to exactly one contact.
	ContactID   uuid.UUID `gorm:"type:uuid;column:contact_id;not null;index" json:"contact_id"`
	Kind        string    `gorm:"column:kind;not null;index" json:"kind"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	// Sort key. For calendar events this mirrors metadata.startTime.
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index:idx_timeline_owner_occurred,priority:2" json:"occurred_at"`
	// End of the entry's span, mirrored from metadata so range scans stay on indexed columns.
	EndsAt *time.Time `gorm:"column:ends_at;index" json:"ends_at,omitempty"`
	// Idempotency key for entries created from an external source.
	SourceID  *string        `gorm:"column:source_id;index:idx_timeline_owner_source,unique,priority:2" json:"source_id,omitempty"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (TimelineEvent) TableName() string { return "timeline_event" }

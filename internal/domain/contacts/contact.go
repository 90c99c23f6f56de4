package contacts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Contact is a practitioner's client record.
type Contact struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;column:owner_id;not null;index" json:"owner_id"`
	DisplayName  string    `gorm:"column:display_name;not null" json:"display_name"`
	PrimaryEmail *string   `gorm:"column:primary_email" json:"primary_email,omitempty"`
	PrimaryPhone *string   `gorm:"column:primary_phone" json:"primary_phone,omitempty"`
	PhotoURL     *string   `gorm:"column:photo_url" json:"photo_url,omitempty"`
	// Free-form clinical/health context the practitioner keeps on the client.
	HealthContext datatypes.JSON `gorm:"column:health_context;type:jsonb" json:"health_context,omitempty"`
	Preferences   datatypes.JSON `gorm:"column:preferences;type:jsonb" json:"preferences,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string { return "contact" }

// ContactSnapshot is the subset of a contact surfaced outside the contact module.
type ContactSnapshot struct {
	ID            uuid.UUID      `json:"id"`
	DisplayName   string         `json:"display_name"`
	PrimaryEmail  *string        `json:"primary_email"`
	PrimaryPhone  *string        `json:"primary_phone"`
	PhotoURL      *string        `json:"photo_url"`
	HealthContext datatypes.JSON `json:"health_context"`
	Preferences   datatypes.JSON `json:"preferences"`
}

func (c *Contact) Snapshot() *ContactSnapshot {
	if c == nil {
		return nil
	}
	return &ContactSnapshot{
		ID:            c.ID,
		DisplayName:   c.DisplayName,
		PrimaryEmail:  c.PrimaryEmail,
		PrimaryPhone:  c.PrimaryPhone,
		PhotoURL:      c.PhotoURL,
		HealthContext: c.HealthContext,
		Preferences:   c.Preferences,
	}
}

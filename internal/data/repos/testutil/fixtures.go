package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
)

func SeedContact(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, name, email string) *types.Contact {
	tb.Helper()
	c := &types.Contact{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		DisplayName:   name,
		HealthContext: datatypes.JSON([]byte(`{}`)),
		Preferences:   datatypes.JSON([]byte(`{}`)),
	}
	if email != "" {
		c.PrimaryEmail = &email
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	return c
}

func SeedNote(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, contactID uuid.UUID, body string, createdAt time.Time) *types.Note {
	tb.Helper()
	n := &types.Note{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ContactID: contactID,
		Body:      body,
		CreatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed note: %v", err)
	}
	return n
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, contactID uuid.UUID, title, status string, priority int) *types.Task {
	tb.Helper()
	task := &types.Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ContactID: &contactID,
		Title:     title,
		Status:    status,
		Priority:  priority,
	}
	if err := tx.WithContext(ctx).Create(task).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return task
}

func SeedGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, contactID uuid.UUID, title string, createdAt time.Time) *types.Goal {
	tb.Helper()
	g := &types.Goal{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ContactID: contactID,
		Title:     title,
		Status:    "active",
		CreatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed goal: %v", err)
	}
	return g
}

// SeedCalendarEvent inserts a calendar_event timeline row spanning [start, end).
func SeedCalendarEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, contactID uuid.UUID, title string, start, end time.Time, extra map[string]any) *types.TimelineEvent {
	tb.Helper()
	meta := map[string]any{
		"startTime": start.UTC().Format(time.RFC3339Nano),
		"endTime":   end.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range extra {
		meta[k] = v
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		tb.Fatalf("marshal metadata: %v", err)
	}
	endsAt := end.UTC()
	row := &types.TimelineEvent{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		ContactID:  contactID,
		Kind:       types.KindCalendarEvent,
		Title:      title,
		OccurredAt: start.UTC(),
		EndsAt:     &endsAt,
		Metadata:   datatypes.JSON(raw),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed calendar event: %v", err)
	}
	return row
}

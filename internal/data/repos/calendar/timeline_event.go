package calendar

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

const (
	defaultSearchLimit = 100
	maxSearchLimit     = 500
)

// TimelineQuery filters an owner's timeline. Zero values are ignored.
type TimelineQuery struct {
	Kind       string
	From       *time.Time // occurred_at >= From
	Until      *time.Time // occurred_at <= Until
	ContactID  *uuid.UUID
	MetaEquals map[string]string
	Limit      int
}

type TimelineEventRepo interface {
	Create(dbc dbctx.Context, rows []*types.TimelineEvent) ([]*types.TimelineEvent, error)
	// CreateIgnoreDuplicateSource inserts row unless (owner_id, source_id) already exists.
	CreateIgnoreDuplicateSource(dbc dbctx.Context, row *types.TimelineEvent) (bool, error)
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID, kind string) (*types.TimelineEvent, error)
	GetBySourceID(dbc dbctx.Context, ownerID uuid.UUID, kind, sourceID string) (*types.TimelineEvent, error)
	UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error
	DeleteByID(dbc dbctx.Context, ownerID, id uuid.UUID, kind string) (bool, error)
	Search(dbc dbctx.Context, ownerID uuid.UUID, q TimelineQuery) ([]*types.TimelineEvent, error)
	// ListOverlapping returns entries whose [occurred_at, ends_at) intersects [start, end).
	ListOverlapping(dbc dbctx.Context, ownerID uuid.UUID, kind string, start, end time.Time) ([]*types.TimelineEvent, error)
}

type timelineEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimelineEventRepo(db *gorm.DB, baseLog *logger.Logger) TimelineEventRepo {
	return &timelineEventRepo{db: db, log: baseLog.With("repo", "TimelineEventRepo")}
}

func (r *timelineEventRepo) Create(dbc dbctx.Context, rows []*types.TimelineEvent) ([]*types.TimelineEvent, error) {
	if len(rows) == 0 {
		return []*types.TimelineEvent{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *timelineEventRepo) CreateIgnoreDuplicateSource(dbc dbctx.Context, row *types.TimelineEvent) (bool, error) {
	if row == nil {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "source_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *timelineEventRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID, kind string) (*types.TimelineEvent, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.TimelineEvent
	if err := dbc.Conn(r.db).
		Where("owner_id = ? AND id = ? AND kind = ?", ownerID, id, kind).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *timelineEventRepo) GetBySourceID(dbc dbctx.Context, ownerID uuid.UUID, kind, sourceID string) (*types.TimelineEvent, error) {
	if ownerID == uuid.Nil || sourceID == "" {
		return nil, nil
	}
	var rows []*types.TimelineEvent
	if err := dbc.Conn(r.db).
		Where("owner_id = ? AND source_id = ? AND kind = ?", ownerID, sourceID, kind).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *timelineEventRepo) UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error {
	if ownerID == uuid.Nil || id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Model(&types.TimelineEvent{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(updates).Error
}

func (r *timelineEventRepo) DeleteByID(dbc dbctx.Context, ownerID, id uuid.UUID, kind string) (bool, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Where("owner_id = ? AND id = ? AND kind = ?", ownerID, id, kind).
		Delete(&types.TimelineEvent{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *timelineEventRepo) Search(dbc dbctx.Context, ownerID uuid.UUID, q TimelineQuery) ([]*types.TimelineEvent, error) {
	out := []*types.TimelineEvent{}
	if ownerID == uuid.Nil {
		return out, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	tx := dbc.Conn(r.db).Model(&types.TimelineEvent{}).Where("owner_id = ?", ownerID)
	if q.Kind != "" {
		tx = tx.Where("kind = ?", q.Kind)
	}
	if q.From != nil {
		tx = tx.Where("occurred_at >= ?", q.From.UTC())
	}
	if q.Until != nil {
		tx = tx.Where("occurred_at <= ?", q.Until.UTC())
	}
	if q.ContactID != nil && *q.ContactID != uuid.Nil {
		tx = tx.Where("contact_id = ?", *q.ContactID)
	}
	for key, val := range q.MetaEquals {
		tx = tx.Where(datatypes.JSONQuery("metadata").Equals(val, key))
	}

	if err := tx.Order("occurred_at ASC, id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *timelineEventRepo) ListOverlapping(dbc dbctx.Context, ownerID uuid.UUID, kind string, start, end time.Time) ([]*types.TimelineEvent, error) {
	out := []*types.TimelineEvent{}
	if ownerID == uuid.Nil || !start.Before(end) {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Where("occurred_at < ? AND ends_at > ?", end.UTC(), start.UTC()).
		Order("occurred_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

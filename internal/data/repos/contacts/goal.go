package contacts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type GoalRepo interface {
	Create(dbc dbctx.Context, rows []*types.Goal) ([]*types.Goal, error)
	// ListRecentByContact returns the most recently created goals first.
	ListRecentByContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Goal, error)
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) Create(dbc dbctx.Context, rows []*types.Goal) ([]*types.Goal, error) {
	if len(rows) == 0 {
		return []*types.Goal{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *goalRepo) ListRecentByContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Goal, error) {
	out := []*types.Goal{}
	if ownerID == uuid.Nil || contactID == uuid.Nil || limit <= 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("owner_id = ? AND contact_id = ?", ownerID, contactID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

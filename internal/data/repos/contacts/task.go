package contacts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type TaskRepo interface {
	Create(dbc dbctx.Context, rows []*types.Task) ([]*types.Task, error)
	// ListPendingByContact returns tasks that are not done, most urgent first.
	ListPendingByContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Task, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Create(dbc dbctx.Context, rows []*types.Task) ([]*types.Task, error) {
	if len(rows) == 0 {
		return []*types.Task{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *taskRepo) ListPendingByContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Task, error) {
	out := []*types.Task{}
	if ownerID == uuid.Nil || contactID == uuid.Nil || limit <= 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("owner_id = ? AND contact_id = ? AND status <> ?", ownerID, contactID, types.TaskStatusDone).
		Order("priority DESC, created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

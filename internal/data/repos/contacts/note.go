package contacts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type NoteRepo interface {
	Create(dbc dbctx.Context, rows []*types.Note) ([]*types.Note, error)
	// ListRecentByContact returns newest first.
	ListRecentByContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Note, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) Create(dbc dbctx.Context, rows []*types.Note) ([]*types.Note, error) {
	if len(rows) == 0 {
		return []*types.Note{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *noteRepo) ListRecentByContact(dbc dbctx.Context, ownerID, contactID uuid.UUID, limit int) ([]*types.Note, error) {
	out := []*types.Note{}
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

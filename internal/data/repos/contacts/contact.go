package contacts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
	"github.com/yungbote/practiceboard-backend/internal/platform/logger"
)

type ContactRepo interface {
	Create(dbc dbctx.Context, rows []*types.Contact) ([]*types.Contact, error)
	GetByID(dbc dbctx.Context, ownerID, contactID uuid.UUID) (*types.Contact, error)
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return &contactRepo{db: db, log: baseLog.With("repo", "ContactRepo")}
}

func (r *contactRepo) Create(dbc dbctx.Context, rows []*types.Contact) ([]*types.Contact, error) {
	if len(rows) == 0 {
		return []*types.Contact{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contactRepo) GetByID(dbc dbctx.Context, ownerID, contactID uuid.UUID) (*types.Contact, error) {
	if ownerID == uuid.Nil || contactID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Contact
	if err := dbc.Conn(r.db).
		Where("owner_id = ? AND id = ?", ownerID, contactID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

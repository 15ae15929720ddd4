package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/astralnotes/astral-backend/internal/domain"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

type NoteRepo interface {
	Create(dbc dbctx.Context, notes []*types.Note) ([]*types.Note, error)
	GetByIDs(dbc dbctx.Context, noteIDs []uuid.UUID) ([]*types.Note, error)
	// GetByPlanetAndUser filters by both columns; callers rely on the double
	// equality so one user's notes never leak into another's listing even when
	// planet ids collide.
	GetByPlanetAndUser(dbc dbctx.Context, planetID, userID uuid.UUID) ([]*types.Note, error)
	FullDeleteByIDs(dbc dbctx.Context, noteIDs []uuid.UUID) error
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *noteRepo) Create(dbc dbctx.Context, notes []*types.Note) ([]*types.Note, error) {
	if len(notes) == 0 {
		return []*types.Note{}, nil
	}
	if err := r.conn(dbc).WithContext(dbc.Ctx).Create(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepo) GetByIDs(dbc dbctx.Context, noteIDs []uuid.UUID) ([]*types.Note, error) {
	var results []*types.Note
	if len(noteIDs) == 0 {
		return results, nil
	}
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", noteIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *noteRepo) GetByPlanetAndUser(dbc dbctx.Context, planetID, userID uuid.UUID) ([]*types.Note, error) {
	var results []*types.Note
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("planet_id = ? AND user_id = ?", planetID, userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *noteRepo) FullDeleteByIDs(dbc dbctx.Context, noteIDs []uuid.UUID) error {
	if len(noteIDs) == 0 {
		return nil
	}
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", noteIDs).
		Delete(&types.Note{}).Error; err != nil {
		return err
	}
	return nil
}

package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/astralnotes/astral-backend/internal/domain"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

type PlanetRepo interface {
	Create(dbc dbctx.Context, planets []*types.Planet) ([]*types.Planet, error)
	GetByIDs(dbc dbctx.Context, planetIDs []uuid.UUID) ([]*types.Planet, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.Planet, error)
	// GetOwned returns the planet only when it exists and belongs to userID.
	GetOwned(dbc dbctx.Context, planetID, userID uuid.UUID) (*types.Planet, error)
}

type planetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanetRepo(db *gorm.DB, baseLog *logger.Logger) PlanetRepo {
	return &planetRepo{db: db, log: baseLog.With("repo", "PlanetRepo")}
}

func (r *planetRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *planetRepo) Create(dbc dbctx.Context, planets []*types.Planet) ([]*types.Planet, error) {
	if len(planets) == 0 {
		return []*types.Planet{}, nil
	}
	if err := r.conn(dbc).WithContext(dbc.Ctx).Create(&planets).Error; err != nil {
		return nil, err
	}
	return planets, nil
}

func (r *planetRepo) GetByIDs(dbc dbctx.Context, planetIDs []uuid.UUID) ([]*types.Planet, error) {
	var results []*types.Planet
	if len(planetIDs) == 0 {
		return results, nil
	}
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", planetIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planetRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.Planet, error) {
	var results []*types.Planet
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planetRepo) GetOwned(dbc dbctx.Context, planetID, userID uuid.UUID) (*types.Planet, error) {
	var results []*types.Planet
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", planetID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

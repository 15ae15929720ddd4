package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/astralnotes/astral-backend/internal/data/repos"
	types "github.com/astralnotes/astral-backend/internal/domain"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

const defaultPlanetColor = "#fff"

type PlanetService interface {
	ListPlanets(dbc dbctx.Context, userID uuid.UUID) ([]*types.Planet, error)
	CreatePlanet(dbc dbctx.Context, userID uuid.UUID, name, color string) (*types.Planet, error)
}

type planetService struct {
	db         *gorm.DB
	log        *logger.Logger
	planetRepo repos.PlanetRepo
}

func NewPlanetService(db *gorm.DB, baseLog *logger.Logger, planetRepo repos.PlanetRepo) PlanetService {
	return &planetService{
		db:         db,
		log:        baseLog.With("service", "PlanetService"),
		planetRepo: planetRepo,
	}
}

func (ps *planetService) ListPlanets(dbc dbctx.Context, userID uuid.UUID) ([]*types.Planet, error) {
	return ps.planetRepo.GetByUserIDs(dbc, []uuid.UUID{userID})
}

func (ps *planetService) CreatePlanet(dbc dbctx.Context, userID uuid.UUID, name, color string) (*types.Planet, error) {
	if color == "" {
		color = defaultPlanetColor
	}
	planet := &types.Planet{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	created, err := ps.planetRepo.Create(dbc, []*types.Planet{planet})
	if err != nil {
		return nil, fmt.Errorf("create planet: %w", err)
	}
	return created[0], nil
}

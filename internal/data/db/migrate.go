package db

import (
	types "github.com/astralnotes/astral-backend/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&types.Planet{},
		&types.Note{},
	)
}

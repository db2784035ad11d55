package database

import (
	"context"
	"database/sql"

	"github.com/jask/energylog/internal/database/repository"
	"github.com/jask/energylog/internal/energy"
)

// SeedDefaults ensures the energy kinds exist.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	kindRepo := repository.NewKindRepo(db)
	for idx, k := range energy.Kinds() {
		row := repository.EnergyKind{ID: int(k), Label: k.Label(), Unit: k.Unit(), SortOrder: idx}
		if err := kindRepo.Upsert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

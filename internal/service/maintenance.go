package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/energylog/internal/database"
)

// MaintenanceService houses destructive/ops actions exposed through energyd flags.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all readings. It keeps the schema and the kinds intact so the
// backend can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var removed int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM energies")
		if err != nil {
			return fmt.Errorf("reset table energies: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return removed, nil
}

package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/worklog/internal/database"
)

// MaintenanceService houses destructive operations exposed on the command line.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset deletes every task and returns how many were removed. The schema is
// kept so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var removed int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM tasks")
		if err != nil {
			return fmt.Errorf("reset tasks: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return removed, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
)

type appointmentInventoryRepository struct {
	BaseRepository
}

func NewAppointmentInventoryRepository(base BaseRepository) repository.AppointmentInventoryRepository {
	return &appointmentInventoryRepository{base}
}

// UpsertUsageTx records consumption for an (appointment, item) pair,
// accumulating quantity when the pair already exists.
func (r *appointmentInventoryRepository) UpsertUsageTx(ctx context.Context, tx *sqlx.Tx, appointmentID, inventoryID int64, quantity int) error {
	query := `
		INSERT INTO appointment_inventory (appointment_id, inventory_id, quantity_used, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (appointment_id, inventory_id)
		DO UPDATE SET quantity_used = appointment_inventory.quantity_used + EXCLUDED.quantity_used
	`
	if _, err := tx.ExecContext(ctx, query, appointmentID, inventoryID, quantity, time.Now()); err != nil {
		return fmt.Errorf("failed to record inventory usage: %w", err)
	}
	return nil
}

func (r *appointmentInventoryRepository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.AppointmentInventory, error) {
	query := `
		SELECT * FROM appointment_inventory
		WHERE appointment_id = $1
		ORDER BY id
	`
	rows := []*model.AppointmentInventory{}
	if err := r.db.SelectContext(ctx, &rows, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to list inventory usage: %w", err)
	}
	return rows, nil
}

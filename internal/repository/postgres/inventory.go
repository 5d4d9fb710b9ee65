package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	apperrors "github.com/clinicnexus/clinic-api/pkg/errors"
)

type inventoryRepository struct {
	BaseRepository
}

func NewInventoryRepository(base BaseRepository) repository.InventoryRepository {
	return &inventoryRepository{base}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
		INSERT INTO inventory (
			name, category, quantity, unit, reorder_threshold,
			unit_price, supplier_info, expiry_date, last_restocked,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		item.Name,
		item.Category,
		item.Quantity,
		item.Unit,
		item.ReorderThreshold,
		item.UnitPrice,
		item.SupplierInfo,
		item.ExpiryDate,
		item.LastRestocked,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) Get(ctx context.Context, id int64) (*model.InventoryItem, error) {
	query := `SELECT * FROM inventory WHERE id = $1`
	var item model.InventoryItem
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("inventory item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

func (r *inventoryRepository) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.InventoryItem, error) {
	query := `SELECT * FROM inventory WHERE id = $1`
	var item model.InventoryItem
	err := tx.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("inventory item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, filters *model.InventoryFilters) ([]*model.InventoryItem, error) {
	query := `SELECT * FROM inventory WHERE 1=1`
	args := []interface{}{}

	if filters != nil {
		if filters.Category != "" {
			args = append(args, filters.Category)
			query += ` AND category = $` + strconv.Itoa(len(args))
		}
		if filters.LowStock {
			query += ` AND quantity <= reorder_threshold`
		}
		if filters.Expired {
			query += ` AND expiry_date IS NOT NULL AND expiry_date < NOW()`
		}
	}
	query += ` ORDER BY name`

	items := []*model.InventoryItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]*model.InventoryItem, error) {
	query := `SELECT * FROM inventory ORDER BY id`
	items := []*model.InventoryItem{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
		UPDATE inventory
		SET name = $1, category = $2, quantity = $3, unit = $4,
			reorder_threshold = $5, unit_price = $6, supplier_info = $7,
			expiry_date = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		item.Name,
		item.Category,
		item.Quantity,
		item.Unit,
		item.ReorderThreshold,
		item.UnitPrice,
		item.SupplierInfo,
		item.ExpiryDate,
		time.Now(),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("inventory item not found")
	}
	return nil
}

func (r *inventoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("inventory item not found")
	}
	return nil
}

// AdjustStockTx applies a signed delta to an item's quantity. The guard
// clause keeps quantity from going negative under concurrent decrements.
func (r *inventoryRepository) AdjustStockTx(ctx context.Context, tx *sqlx.Tx, id int64, delta int) error {
	query := `
		UPDATE inventory
		SET quantity = quantity + $1, updated_at = $2
		WHERE id = $3 AND quantity + $1 >= 0
	`
	result, err := tx.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.Conflict("insufficient stock")
	}
	return nil
}

func (r *inventoryRepository) RestockTx(ctx context.Context, tx *sqlx.Tx, id int64, quantity int, restockedAt time.Time) error {
	query := `
		UPDATE inventory
		SET quantity = quantity + $1, last_restocked = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := tx.ExecContext(ctx, query, quantity, restockedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to restock item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("inventory item not found")
	}
	return nil
}

func (r *inventoryRepository) UpdateSupplierTx(ctx context.Context, tx *sqlx.Tx, id int64, supplierInfo string) error {
	query := `UPDATE inventory SET supplier_info = $1, updated_at = $2 WHERE id = $3`
	result, err := tx.ExecContext(ctx, query, supplierInfo, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update supplier info: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("inventory item not found")
	}
	return nil
}

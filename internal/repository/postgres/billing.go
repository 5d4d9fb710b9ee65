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

type billingRepository struct {
	BaseRepository
}

func NewBillingRepository(base BaseRepository) repository.BillingRepository {
	return &billingRepository{base}
}

func (r *billingRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, billing *model.Billing) error {
	query := `
		INSERT INTO billing (
			appointment_id, amount, payment_status, payment_method,
			payment_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	billing.CreatedAt = time.Now()
	billing.UpdatedAt = billing.CreatedAt

	err := tx.QueryRowxContext(ctx, query,
		billing.AppointmentID,
		billing.Amount,
		billing.PaymentStatus,
		billing.PaymentMethod,
		billing.PaymentDate,
		billing.CreatedAt,
		billing.UpdatedAt,
	).Scan(&billing.ID)
	if err != nil {
		return fmt.Errorf("failed to create billing record: %w", err)
	}
	return nil
}

func (r *billingRepository) Get(ctx context.Context, id int64) (*model.Billing, error) {
	query := `SELECT * FROM billing WHERE id = $1`
	var billing model.Billing
	err := r.db.GetContext(ctx, &billing, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("billing record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get billing record: %w", err)
	}
	return &billing, nil
}

func (r *billingRepository) GetByAppointment(ctx context.Context, appointmentID int64) (*model.Billing, error) {
	query := `SELECT * FROM billing WHERE appointment_id = $1`
	var billing model.Billing
	err := r.db.GetContext(ctx, &billing, query, appointmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("billing record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get billing record: %w", err)
	}
	return &billing, nil
}

func (r *billingRepository) List(ctx context.Context, filters *model.BillingFilters) ([]*model.Billing, error) {
	query := `SELECT * FROM billing WHERE 1=1`
	args := []interface{}{}

	if filters != nil {
		if filters.AppointmentID != 0 {
			args = append(args, filters.AppointmentID)
			query += ` AND appointment_id = $` + strconv.Itoa(len(args))
		}
		if filters.PaymentStatus != "" {
			args = append(args, filters.PaymentStatus)
			query += ` AND payment_status = $` + strconv.Itoa(len(args))
		}
	}
	query += ` ORDER BY created_at DESC`

	records := []*model.Billing{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list billing records: %w", err)
	}
	return records, nil
}

func (r *billingRepository) Update(ctx context.Context, billing *model.Billing) error {
	query := `
		UPDATE billing
		SET amount = $1, payment_status = $2, payment_method = $3,
			payment_date = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		billing.Amount,
		billing.PaymentStatus,
		billing.PaymentMethod,
		billing.PaymentDate,
		time.Now(),
		billing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update billing record: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("billing record not found")
	}
	return nil
}

// UpdateAmountByAppointmentTx sets the bill amount for an appointment,
// creating a pending bill if none exists yet.
func (r *billingRepository) UpdateAmountByAppointmentTx(ctx context.Context, tx *sqlx.Tx, appointmentID int64, amount float64) error {
	query := `UPDATE billing SET amount = $1, updated_at = $2 WHERE appointment_id = $3`
	result, err := tx.ExecContext(ctx, query, amount, time.Now(), appointmentID)
	if err != nil {
		return fmt.Errorf("failed to update billing amount: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		return nil
	}

	insert := `
		INSERT INTO billing (appointment_id, amount, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now()
	if _, err := tx.ExecContext(ctx, insert, appointmentID, amount, model.PaymentStatusPending, now, now); err != nil {
		return fmt.Errorf("failed to create billing record: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
)

type rosterRepository struct {
	BaseRepository
}

func NewRosterRepository(base BaseRepository) repository.RosterRepository {
	return &rosterRepository{base}
}

func (r *rosterRepository) CreateShiftTx(ctx context.Context, tx *sqlx.Tx, shift *model.StaffShift) error {
	query := `
		INSERT INTO staff_shifts (staff_id, shift_date, shift_type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	shift.CreatedAt = time.Now()

	err := tx.QueryRowxContext(ctx, query,
		shift.StaffID,
		shift.ShiftDate,
		shift.ShiftType,
		shift.CreatedAt,
	).Scan(&shift.ID)
	if err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

func (r *rosterRepository) HasShiftTx(ctx context.Context, tx *sqlx.Tx, staffID int64, date time.Time, shiftType string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM staff_shifts
		WHERE staff_id = $1 AND shift_date = $2 AND shift_type = $3
	`
	var count int
	if err := tx.GetContext(ctx, &count, query, staffID, date, shiftType); err != nil {
		return false, fmt.Errorf("failed to check shift: %w", err)
	}
	return count > 0, nil
}

func (r *rosterRepository) ListShifts(ctx context.Context, staffID int64, from, to time.Time) ([]*model.StaffShift, error) {
	query := `
		SELECT * FROM staff_shifts
		WHERE staff_id = $1 AND shift_date BETWEEN $2 AND $3
		ORDER BY shift_date
	`
	shifts := []*model.StaffShift{}
	if err := r.db.SelectContext(ctx, &shifts, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

func (r *rosterRepository) CreateTimeOffTx(ctx context.Context, tx *sqlx.Tx, req *model.TimeOffRequest) error {
	query := `
		INSERT INTO time_off_requests (staff_id, start_date, end_date, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	req.CreatedAt = time.Now()

	err := tx.QueryRowxContext(ctx, query,
		req.StaffID,
		req.StartDate,
		req.EndDate,
		req.Reason,
		req.Status,
		req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("failed to create time-off request: %w", err)
	}
	return nil
}

func (r *rosterRepository) HasTimeOffOverlapTx(ctx context.Context, tx *sqlx.Tx, staffID int64, start, end time.Time) (bool, error) {
	query := `
		SELECT COUNT(*) FROM time_off_requests
		WHERE staff_id = $1 AND status = $2
			AND start_date <= $3 AND end_date >= $4
	`
	var count int
	err := tx.GetContext(ctx, &count, query, staffID, model.TimeOffStatusApproved, end, start)
	if err != nil {
		return false, fmt.Errorf("failed to check time-off overlap: %w", err)
	}
	return count > 0, nil
}

func (r *rosterRepository) ListTimeOff(ctx context.Context, staffID int64) ([]*model.TimeOffRequest, error) {
	query := `SELECT * FROM time_off_requests WHERE staff_id = $1 ORDER BY start_date DESC`
	requests := []*model.TimeOffRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, staffID); err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	return requests, nil
}

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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			patient_id, doctor_id, appointment_date, appointment_time,
			duration_minutes, visit_type, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	err := tx.QueryRowxContext(ctx, query,
		apt.PatientID,
		apt.DoctorID,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.DurationMinutes,
		apt.VisitType,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	).Scan(&apt.ID)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`
	var apt model.Appointment
	err := tx.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE 1=1`
	args := []interface{}{}

	if filters != nil {
		if filters.PatientID != 0 {
			args = append(args, filters.PatientID)
			query += ` AND patient_id = $` + strconv.Itoa(len(args))
		}
		if filters.DoctorID != 0 {
			args = append(args, filters.DoctorID)
			query += ` AND doctor_id = $` + strconv.Itoa(len(args))
		}
		if filters.Date != nil {
			args = append(args, *filters.Date)
			query += ` AND appointment_date = $` + strconv.Itoa(len(args))
		}
		if filters.Status != "" {
			args = append(args, filters.Status)
			query += ` AND status = $` + strconv.Itoa(len(args))
		}
	}
	query += ` ORDER BY appointment_date, appointment_time`

	apts := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &apts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return apts, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, appointment_time = $2, duration_minutes = $3,
			visit_type = $4, status = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.DurationMinutes,
		apt.VisitType,
		apt.Status,
		apt.Notes,
		time.Now(),
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) Cancel(ctx context.Context, id int64) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, model.AppointmentStatusCanceled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		steps := []string{
			`DELETE FROM appointment_feedback WHERE appointment_id = $1`,
			`DELETE FROM appointment_inventory WHERE appointment_id = $1`,
			`DELETE FROM billing WHERE appointment_id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("failed to delete appointment records: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return apperrors.NotFound("appointment not found")
		}
		return nil
	})
}

// HasConflictTx reports whether a non-canceled appointment already holds
// the exact (doctor, date, time) slot.
func (r *appointmentRepository) HasConflictTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, date time.Time, timeOfDay string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND appointment_time = $3
			AND status != $4
	`
	var count int
	err := tx.GetContext(ctx, &count, query, doctorID, date, timeOfDay, model.AppointmentStatusCanceled)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment conflict: %w", err)
	}
	return count > 0, nil
}

// HasActiveInRangeTx reports whether the doctor holds any non-canceled
// appointment dated inside [start, end].
func (r *appointmentRepository) HasActiveInRangeTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, start, end time.Time) (bool, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND appointment_date BETWEEN $2 AND $3
			AND status != $4
	`
	var count int
	err := tx.GetContext(ctx, &count, query, doctorID, start, end, model.AppointmentStatusCanceled)
	if err != nil {
		return false, fmt.Errorf("failed to check appointments in range: %w", err)
	}
	return count > 0, nil
}

func (r *appointmentRepository) BookedTimes(ctx context.Context, doctorID int64, date time.Time) ([]string, error) {
	query := `
		SELECT appointment_time FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND status != $3
	`
	times := []string{}
	err := r.db.SelectContext(ctx, &times, query, doctorID, date, model.AppointmentStatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked times: %w", err)
	}
	return times, nil
}

func (r *appointmentRepository) BookedTimesTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, date time.Time) ([]string, error) {
	query := `
		SELECT appointment_time FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND status != $3
	`
	times := []string{}
	err := tx.SelectContext(ctx, &times, query, doctorID, date, model.AppointmentStatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked times: %w", err)
	}
	return times, nil
}

func (r *appointmentRepository) MarkDoneTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := tx.ExecContext(ctx, query, model.AppointmentStatusDone, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark appointment done: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("appointment not found")
	}
	return nil
}

// AppendNotesTx appends to existing notes instead of replacing them.
func (r *appointmentRepository) AppendNotesTx(ctx context.Context, tx *sqlx.Tx, id int64, notes string) error {
	query := `
		UPDATE appointments
		SET notes = CASE WHEN notes = '' THEN $1 ELSE notes || E'\n' || $1 END,
			updated_at = $2
		WHERE id = $3
	`
	if _, err := tx.ExecContext(ctx, query, notes, time.Now(), id); err != nil {
		return fmt.Errorf("failed to append appointment notes: %w", err)
	}
	return nil
}

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

type staffRepository struct {
	BaseRepository
}

func NewStaffRepository(base BaseRepository) repository.StaffRepository {
	return &staffRepository{base}
}

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (
			name, job_type, specialization, license_number, phone, email,
			hire_date, working_days, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	staff.Active = true
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		staff.Name,
		staff.JobType,
		staff.Specialization,
		staff.LicenseNumber,
		staff.Phone,
		staff.Email,
		staff.HireDate,
		staff.WorkingDays,
		staff.Active,
		staff.CreatedAt,
		staff.UpdatedAt,
	).Scan(&staff.ID)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *staffRepository) Get(ctx context.Context, id int64) (*model.Staff, error) {
	query := `SELECT * FROM staff WHERE id = $1`
	var staff model.Staff
	err := r.db.GetContext(ctx, &staff, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("staff not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Staff, error) {
	query := `SELECT * FROM staff WHERE id = $1`
	var staff model.Staff
	err := tx.GetContext(ctx, &staff, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("staff not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error) {
	query := `SELECT * FROM staff WHERE 1=1`
	args := []interface{}{}

	if filters != nil {
		if filters.JobType != "" {
			args = append(args, filters.JobType)
			query += ` AND job_type = $` + strconv.Itoa(len(args))
		}
		if filters.Specialization != "" {
			args = append(args, "%"+filters.Specialization+"%")
			query += ` AND specialization ILIKE $` + strconv.Itoa(len(args))
		}
		if filters.Active != nil {
			args = append(args, *filters.Active)
			query += ` AND active = $` + strconv.Itoa(len(args))
		}
	}
	query += ` ORDER BY name`

	members := []*model.Staff{}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return members, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *model.Staff) error {
	query := `
		UPDATE staff
		SET name = $1, job_type = $2, specialization = $3, license_number = $4,
			phone = $5, email = $6, working_days = $7, active = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		staff.Name,
		staff.JobType,
		staff.Specialization,
		staff.LicenseNumber,
		staff.Phone,
		staff.Email,
		staff.WorkingDays,
		staff.Active,
		time.Now(),
		staff.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("staff not found")
	}
	return nil
}

// Delete removes a staff member, their appointments with dependents, their
// roster rows, and clears any patients pointing at them as primary doctor.
func (r *staffRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		steps := []string{
			`DELETE FROM appointment_feedback WHERE appointment_id IN (SELECT id FROM appointments WHERE doctor_id = $1)`,
			`DELETE FROM appointment_inventory WHERE appointment_id IN (SELECT id FROM appointments WHERE doctor_id = $1)`,
			`DELETE FROM billing WHERE appointment_id IN (SELECT id FROM appointments WHERE doctor_id = $1)`,
			`DELETE FROM appointments WHERE doctor_id = $1`,
			`DELETE FROM staff_shifts WHERE staff_id = $1`,
			`DELETE FROM time_off_requests WHERE staff_id = $1`,
			`UPDATE patients SET primary_doctor_id = NULL WHERE primary_doctor_id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("failed to delete staff records: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete staff: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return apperrors.NotFound("staff not found")
		}
		return nil
	})
}

func (r *staffRepository) CountActiveByJobType(ctx context.Context, jobType model.JobType) (int, error) {
	query := `SELECT COUNT(*) FROM staff WHERE job_type = $1 AND active = true`
	var count int
	if err := r.db.GetContext(ctx, &count, query, jobType); err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

func (r *staffRepository) ListAppointments(ctx context.Context, staffID int64) ([]*model.AppointmentSummary, error) {
	query := `
		SELECT a.id, a.patient_id, p.name AS patient_name,
			a.doctor_id, s.name AS doctor_name,
			a.appointment_date, a.appointment_time, a.visit_type, a.status
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN staff s ON s.id = a.doctor_id
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`
	summaries := []*model.AppointmentSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, staffID); err != nil {
		return nil, fmt.Errorf("failed to list staff appointments: %w", err)
	}
	return summaries, nil
}

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

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			name, birth_date, phone, email, insurance_info,
			first_visit_date, primary_doctor_id, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	patient.Active = true
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		patient.Name,
		patient.BirthDate,
		patient.Phone,
		patient.Email,
		patient.InsuranceInfo,
		patient.FirstVisitDate,
		patient.PrimaryDoctorID,
		patient.Active,
		patient.CreatedAt,
		patient.UpdatedAt,
	).Scan(&patient.ID)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := tx.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE 1=1`
	args := []interface{}{}

	if filters != nil {
		if filters.Name != "" {
			args = append(args, "%"+filters.Name+"%")
			query += ` AND name ILIKE $` + strconv.Itoa(len(args))
		}
		if filters.Insurance != "" {
			args = append(args, "%"+filters.Insurance+"%")
			query += ` AND insurance_info ILIKE $` + strconv.Itoa(len(args))
		}
		if filters.Active != nil {
			args = append(args, *filters.Active)
			query += ` AND active = $` + strconv.Itoa(len(args))
		}
	}
	query += ` ORDER BY name`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, birth_date = $2, phone = $3, email = $4,
			insurance_info = $5, first_visit_date = $6, primary_doctor_id = $7,
			active = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.BirthDate,
		patient.Phone,
		patient.Email,
		patient.InsuranceInfo,
		patient.FirstVisitDate,
		patient.PrimaryDoctorID,
		patient.Active,
		time.Now(),
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("patient not found")
	}
	return nil
}

// Delete removes a patient and every dependent row in one transaction.
func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		steps := []string{
			`DELETE FROM appointment_feedback WHERE appointment_id IN (SELECT id FROM appointments WHERE patient_id = $1)`,
			`DELETE FROM appointment_inventory WHERE appointment_id IN (SELECT id FROM appointments WHERE patient_id = $1)`,
			`DELETE FROM billing WHERE appointment_id IN (SELECT id FROM appointments WHERE patient_id = $1)`,
			`DELETE FROM appointments WHERE patient_id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("failed to delete patient records: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return apperrors.NotFound("patient not found")
		}
		return nil
	})
}

func (r *patientRepository) SetFirstVisitDateTx(ctx context.Context, tx *sqlx.Tx, id int64, date time.Time) error {
	query := `
		UPDATE patients
		SET first_visit_date = $1, updated_at = $2
		WHERE id = $3 AND first_visit_date IS NULL
	`
	if _, err := tx.ExecContext(ctx, query, date, time.Now(), id); err != nil {
		return fmt.Errorf("failed to set first visit date: %w", err)
	}
	return nil
}

func (r *patientRepository) ListAppointments(ctx context.Context, patientID int64) ([]*model.AppointmentSummary, error) {
	query := `
		SELECT a.id, a.patient_id, p.name AS patient_name,
			a.doctor_id, s.name AS doctor_name,
			a.appointment_date, a.appointment_time, a.visit_type, a.status
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN staff s ON s.id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`
	summaries := []*model.AppointmentSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return summaries, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
)

type reportRepository struct {
	BaseRepository
}

func NewReportRepository(base BaseRepository) repository.ReportRepository {
	return &reportRepository{base}
}

func (r *reportRepository) Revenue(ctx context.Context, from, to time.Time) (*model.RevenueReport, error) {
	report := &model.RevenueReport{
		From:        from,
		To:          to,
		ByVisitType: map[string]float64{},
	}

	totalsQuery := `
		SELECT
			COALESCE(SUM(b.amount), 0) AS total_billed,
			COALESCE(SUM(CASE WHEN b.payment_status = 'Paid' THEN b.amount ELSE 0 END), 0) AS total_paid,
			COALESCE(SUM(CASE WHEN b.payment_status = 'Pending' THEN b.amount ELSE 0 END), 0) AS total_pending,
			COUNT(*) AS total_invoices,
			COUNT(*) FILTER (WHERE b.payment_status = 'Paid') AS paid_invoices
		FROM billing b
		JOIN appointments a ON a.id = b.appointment_id
		WHERE a.appointment_date BETWEEN $1 AND $2
	`
	row := r.db.QueryRowxContext(ctx, totalsQuery, from, to)
	if err := row.Scan(
		&report.TotalBilled,
		&report.TotalPaid,
		&report.TotalPending,
		&report.TotalInvoices,
		&report.PaidInvoices,
	); err != nil {
		return nil, fmt.Errorf("failed to query revenue totals: %w", err)
	}

	byTypeQuery := `
		SELECT a.visit_type, COALESCE(SUM(b.amount), 0) AS amount
		FROM billing b
		JOIN appointments a ON a.id = b.appointment_id
		WHERE a.appointment_date BETWEEN $1 AND $2
		GROUP BY a.visit_type
	`
	rows, err := r.db.QueryxContext(ctx, byTypeQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by visit type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var visitType string
		var amount float64
		if err := rows.Scan(&visitType, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		report.ByVisitType[visitType] = amount
	}
	return report, rows.Err()
}

func (r *reportRepository) AppointmentVolume(ctx context.Context, from, to time.Time) ([]*model.AppointmentVolumeRow, error) {
	query := `
		SELECT appointment_date AS date,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'Done') AS completed,
			COUNT(*) FILTER (WHERE status = 'Canceled') AS canceled
		FROM appointments
		WHERE appointment_date BETWEEN $1 AND $2
		GROUP BY appointment_date
		ORDER BY appointment_date
	`
	volume := []*model.AppointmentVolumeRow{}
	if err := r.db.SelectContext(ctx, &volume, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to query appointment volume: %w", err)
	}
	return volume, nil
}

func (r *reportRepository) DoctorLoad(ctx context.Context, from, to time.Time) ([]*model.DoctorLoadRow, error) {
	query := `
		SELECT s.id AS doctor_id, s.name AS doctor_name,
			COUNT(a.id) AS appointments,
			COUNT(a.id) FILTER (WHERE a.status = 'Done') AS completed,
			COALESCE(AVG(f.rating), 0) AS avg_rating
		FROM staff s
		LEFT JOIN appointments a ON a.doctor_id = s.id
			AND a.appointment_date BETWEEN $1 AND $2
		LEFT JOIN appointment_feedback f ON f.appointment_id = a.id
		WHERE s.job_type = 'Doctor'
		GROUP BY s.id, s.name
		ORDER BY appointments DESC
	`
	load := []*model.DoctorLoadRow{}
	if err := r.db.SelectContext(ctx, &load, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to query doctor load: %w", err)
	}
	return load, nil
}

func (r *reportRepository) LowStock(ctx context.Context) ([]*model.LowStockRow, error) {
	query := `
		SELECT id, name, category, quantity, reorder_threshold
		FROM inventory
		WHERE quantity <= reorder_threshold
		ORDER BY quantity
	`
	rows := []*model.LowStockRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	return rows, nil
}

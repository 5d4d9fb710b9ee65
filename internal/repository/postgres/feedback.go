package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	apperrors "github.com/clinicnexus/clinic-api/pkg/errors"
)

type feedbackRepository struct {
	BaseRepository
}

func NewFeedbackRepository(base BaseRepository) repository.FeedbackRepository {
	return &feedbackRepository{base}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *model.Feedback) error {
	query := `
		INSERT INTO appointment_feedback (appointment_id, rating, comments, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	fb.CreatedAt = time.Now()

	err := r.db.QueryRowxContext(ctx, query,
		fb.AppointmentID,
		fb.Rating,
		fb.Comments,
		fb.CreatedAt,
	).Scan(&fb.ID)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepository) Get(ctx context.Context, id int64) (*model.Feedback, error) {
	query := `SELECT * FROM appointment_feedback WHERE id = $1`
	var fb model.Feedback
	err := r.db.GetContext(ctx, &fb, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("feedback not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &fb, nil
}

func (r *feedbackRepository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Feedback, error) {
	query := `SELECT * FROM appointment_feedback WHERE appointment_id = $1 ORDER BY created_at`
	rows := []*model.Feedback{}
	if err := r.db.SelectContext(ctx, &rows, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return rows, nil
}

func (r *feedbackRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Feedback, error) {
	query := `
		SELECT f.* FROM appointment_feedback f
		JOIN appointments a ON a.id = f.appointment_id
		WHERE a.doctor_id = $1
		ORDER BY f.created_at DESC
	`
	rows := []*model.Feedback{}
	if err := r.db.SelectContext(ctx, &rows, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor feedback: %w", err)
	}
	return rows, nil
}

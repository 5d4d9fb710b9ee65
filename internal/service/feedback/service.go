package feedback

import (
	"context"
	"fmt"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
)

type Service struct {
	repo         repository.FeedbackRepository
	appointments repository.AppointmentRepository
}

func NewService(repo repository.FeedbackRepository, appointments repository.AppointmentRepository) *Service {
	return &Service{repo: repo, appointments: appointments}
}

// Create records patient feedback for a completed appointment.
func (s *Service) Create(ctx context.Context, req *model.CreateFeedbackRequest) (*model.Feedback, error) {
	apt, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if apt.Status != model.AppointmentStatusDone {
		return nil, fmt.Errorf("feedback requires a completed appointment")
	}

	fb := &model.Feedback{
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comments:      req.Comments,
	}
	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Feedback, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Feedback, error) {
	return s.repo.ListByAppointment(ctx, appointmentID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Feedback, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

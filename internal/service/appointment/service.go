package appointment

import (
	"context"
	"fmt"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
)

// Service covers appointment reads and lifecycle edits. Creation goes
// through the scheduling workflow, never through here.
type Service struct {
	repo    repository.AppointmentRepository
	auditor audit.Recorder
}

func NewService(repo repository.AppointmentRepository, auditor audit.Recorder) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status == model.AppointmentStatusDone {
		return nil, fmt.Errorf("completed appointments cannot be edited")
	}

	if req.AppointmentDate != nil {
		apt.AppointmentDate = *req.AppointmentDate
	}
	if req.AppointmentTime != nil {
		apt.AppointmentTime = *req.AppointmentTime
	}
	if req.DurationMinutes != nil {
		apt.DurationMinutes = *req.DurationMinutes
	}
	if req.VisitType != nil {
		apt.VisitType = *req.VisitType
	}
	if req.Status != nil {
		apt.Status = *req.Status
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "update", "appointment", apt.ID, "")
	return apt, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if apt.Status == model.AppointmentStatusDone {
		return fmt.Errorf("completed appointments cannot be canceled")
	}
	if err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}
	s.auditor.Record(ctx, "cancel", "appointment", id, "")
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditor.Record(ctx, "delete", "appointment", id, "")
	return nil
}

package staff

import (
	"context"
	"fmt"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
)

type Service struct {
	repo    repository.StaffRepository
	auditor audit.Recorder
}

func NewService(repo repository.StaffRepository, auditor audit.Recorder) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func validJobType(jt model.JobType) bool {
	switch jt {
	case model.JobTypeDoctor, model.JobTypeNurse, model.JobTypeAdmin:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, req *model.CreateStaffRequest) (*model.Staff, error) {
	if !validJobType(req.JobType) {
		return nil, fmt.Errorf("invalid job type: %s", req.JobType)
	}

	member := &model.Staff{
		Name:           req.Name,
		JobType:        req.JobType,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		HireDate:       req.HireDate,
		WorkingDays:    req.WorkingDays,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "create", "staff", member.ID, member.Name)
	return member, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Staff, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetWithAppointments(ctx context.Context, id int64) (*model.StaffWithAppointments, error) {
	member, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	appointments, err := s.repo.ListAppointments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.StaffWithAppointments{Staff: member, Appointments: appointments}, nil
}

func (s *Service) List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateStaffRequest) (*model.Staff, error) {
	member, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.JobType != nil {
		if !validJobType(*req.JobType) {
			return nil, fmt.Errorf("invalid job type: %s", *req.JobType)
		}
		member.JobType = *req.JobType
	}
	if req.Specialization != nil {
		member.Specialization = *req.Specialization
	}
	if req.LicenseNumber != nil {
		member.LicenseNumber = *req.LicenseNumber
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.WorkingDays != nil {
		member.WorkingDays = *req.WorkingDays
	}
	if req.Active != nil {
		member.Active = *req.Active
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "update", "staff", member.ID, member.Name)
	return member, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditor.Record(ctx, "delete", "staff", id, "")
	return nil
}

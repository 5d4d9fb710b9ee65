package patient

import (
	"context"
	"fmt"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
)

type Service struct {
	repo    repository.PatientRepository
	staff   repository.StaffRepository
	auditor audit.Recorder
}

func NewService(repo repository.PatientRepository, staff repository.StaffRepository, auditor audit.Recorder) *Service {
	return &Service{repo: repo, staff: staff, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if req.PrimaryDoctorID != nil {
		doctor, err := s.staff.Get(ctx, *req.PrimaryDoctorID)
		if err != nil {
			return nil, fmt.Errorf("primary doctor not found")
		}
		if doctor.JobType != model.JobTypeDoctor {
			return nil, fmt.Errorf("primary doctor must be a doctor")
		}
	}

	patient := &model.Patient{
		Name:            req.Name,
		BirthDate:       req.BirthDate,
		Phone:           req.Phone,
		Email:           req.Email,
		InsuranceInfo:   req.InsuranceInfo,
		FirstVisitDate:  req.FirstVisitDate,
		PrimaryDoctorID: req.PrimaryDoctorID,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "create", "patient", patient.ID, patient.Name)
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// GetWithHistory returns the patient together with their appointment
// history.
func (s *Service) GetWithHistory(ctx context.Context, id int64) (*model.PatientWithAppointments, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	appointments, err := s.repo.ListAppointments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.PatientWithAppointments{Patient: patient, Appointments: appointments}, nil
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.BirthDate != nil {
		patient.BirthDate = *req.BirthDate
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.InsuranceInfo != nil {
		patient.InsuranceInfo = *req.InsuranceInfo
	}
	if req.FirstVisitDate != nil {
		patient.FirstVisitDate = req.FirstVisitDate
	}
	if req.PrimaryDoctorID != nil {
		patient.PrimaryDoctorID = req.PrimaryDoctorID
	}
	if req.Active != nil {
		patient.Active = *req.Active
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "update", "patient", patient.ID, patient.Name)
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditor.Record(ctx, "delete", "patient", id, "")
	return nil
}

// Deactivate soft-disables a patient without touching their history.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	patient.Active = false
	if err := s.repo.Update(ctx, patient); err != nil {
		return err
	}
	s.auditor.Record(ctx, "deactivate", "patient", id, "")
	return nil
}

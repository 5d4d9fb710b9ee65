package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
)

// Service covers billing reads and payment settlement. Bill creation and
// amount recomputation belong to the scheduling and visit workflows.
type Service struct {
	repo    repository.BillingRepository
	auditor audit.Recorder
}

func NewService(repo repository.BillingRepository, auditor audit.Recorder) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Billing, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64) (*model.Billing, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

func (s *Service) List(ctx context.Context, filters *model.BillingFilters) ([]*model.Billing, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateBillingRequest) (*model.Billing, error) {
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		bill.Amount = *req.Amount
	}
	if req.PaymentStatus != nil {
		bill.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentMethod != nil {
		bill.PaymentMethod = *req.PaymentMethod
	}
	if req.PaymentDate != nil {
		bill.PaymentDate = req.PaymentDate
	}

	if err := s.repo.Update(ctx, bill); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "update", "billing", bill.ID, "")
	return bill, nil
}

// RecordPayment settles a pending bill.
func (s *Service) RecordPayment(ctx context.Context, id int64, method string) (*model.Billing, error) {
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill.PaymentStatus == model.PaymentStatusPaid {
		return nil, fmt.Errorf("bill already paid")
	}

	now := time.Now()
	bill.PaymentStatus = model.PaymentStatusPaid
	bill.PaymentMethod = method
	bill.PaymentDate = &now

	if err := s.repo.Update(ctx, bill); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "payment", "billing", bill.ID, fmt.Sprintf("amount=%.2f method=%s", bill.Amount, method))
	return bill, nil
}

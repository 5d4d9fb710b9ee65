package visit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	"github.com/clinicnexus/clinic-api/internal/service/scheduling"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

type Service struct {
	txRunner     repository.TxRunner
	appointments repository.AppointmentRepository
	billing      repository.BillingRepository
	inventory    repository.InventoryRepository
	usage        repository.AppointmentInventoryRepository
	scheduler    *scheduling.Service
	notifier     notify.Notifier
	auditor      audit.Recorder
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	txRunner repository.TxRunner,
	appointments repository.AppointmentRepository,
	billing repository.BillingRepository,
	inventory repository.InventoryRepository,
	usage repository.AppointmentInventoryRepository,
	scheduler *scheduling.Service,
	notifier notify.Notifier,
	auditor audit.Recorder,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		txRunner:     txRunner,
		appointments: appointments,
		billing:      billing,
		inventory:    inventory,
		usage:        usage,
		scheduler:    scheduler,
		notifier:     notifier,
		auditor:      auditor,
		metrics:      m,
		logger:       logger,
	}
}

// ProcessVisit closes out an appointment in a single transaction: mark it
// done, record notes and supplies consumed, recompute the bill, and book
// any requested follow-up. If any step fails, including the follow-up,
// nothing is recorded.
func (s *Service) ProcessVisit(ctx context.Context, req *model.ProcessVisitRequest) *model.VisitResult {
	start := time.Now()
	result := &model.VisitResult{}

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		apt, err := s.appointments.GetTx(ctx, tx, req.AppointmentID)
		if err != nil {
			return fmt.Errorf("appointment not found")
		}
		if apt.Status == model.AppointmentStatusDone {
			return fmt.Errorf("appointment already completed")
		}
		if apt.Status == model.AppointmentStatusCanceled {
			return fmt.Errorf("appointment is canceled")
		}

		if err := s.appointments.MarkDoneTx(ctx, tx, apt.ID); err != nil {
			return err
		}
		if notes := clinicalNotes(req); notes != "" {
			if err := s.appointments.AppendNotesTx(ctx, tx, apt.ID, notes); err != nil {
				return err
			}
		}

		suppliesCost, err := s.consumeSuppliesTx(ctx, tx, apt.ID, req.ItemsUsed)
		if err != nil {
			return err
		}

		// The caller prices the consultation; without an explicit base
		// charge the standard fee for the visit type applies.
		baseCharge := req.BaseCharge
		if baseCharge <= 0 {
			baseCharge = model.VisitFee(apt.VisitType)
		}
		total := baseCharge + suppliesCost
		if err := s.billing.UpdateAmountByAppointmentTx(ctx, tx, apt.ID, total); err != nil {
			return err
		}
		result.AppointmentID = apt.ID
		result.TotalBill = total

		if req.FollowUp != nil {
			// Follow-ups book as a standard check-up visit.
			followUp, err := s.scheduler.ScheduleTx(ctx, tx, &model.ScheduleAppointmentRequest{
				PatientID:       apt.PatientID,
				DoctorID:        apt.DoctorID,
				AppointmentDate: req.FollowUp.Date,
				AppointmentTime: req.FollowUp.Time,
				DurationMinutes: req.FollowUp.DurationMinutes,
				VisitType:       model.VisitTypeCheckup,
				Notes:           req.FollowUp.Notes,
			})
			if err != nil {
				return fmt.Errorf("failed to schedule follow-up: %w", err)
			}
			result.FollowUpID = followUp.ID
			result.FollowUpScheduled = true
		}

		err = s.notifier.NotifyTx(ctx, tx, model.EventTypeAppointmentCompleted, map[string]interface{}{
			"appointment_id": apt.ID,
			"patient_id":     apt.PatientID,
			"doctor_id":      apt.DoctorID,
			"total_bill":     total,
		})
		if err != nil {
			return fmt.Errorf("failed to queue completion event: %w", err)
		}

		s.auditor.Record(ctx, "process_visit", "appointment", apt.ID,
			fmt.Sprintf("total_bill=%.2f items=%d", total, len(req.ItemsUsed)))
		return nil
	})
	if err != nil {
		s.metrics.WorkflowRuns.WithLabelValues("visit", "rejected").Inc()
		s.metrics.WorkflowFailures.WithLabelValues("visit").Inc()
		result.OK = false
		result.Message = err.Error()
		result.AppointmentID = 0
		result.TotalBill = 0
		result.FollowUpID = 0
		result.FollowUpScheduled = false
		s.logger.Warn().Err(err).Int64("appointment_id", req.AppointmentID).Msg("visit processing rejected")
		return result
	}

	s.metrics.WorkflowRuns.WithLabelValues("visit", "success").Inc()
	s.metrics.WorkflowDuration.WithLabelValues("visit").Observe(time.Since(start).Seconds())
	result.OK = true
	result.Message = "visit processed"
	return result
}

// clinicalNotes renders the visit's clinical record as one notes block:
// vital signs first (sorted for a stable record), then diagnosis,
// treatment, and any free-form notes.
func clinicalNotes(req *model.ProcessVisitRequest) string {
	sections := []string{}
	if len(req.VitalSigns) > 0 {
		names := make([]string, 0, len(req.VitalSigns))
		for name := range req.VitalSigns {
			names = append(names, name)
		}
		sort.Strings(names)
		readings := make([]string, 0, len(names))
		for _, name := range names {
			readings = append(readings, name+"="+req.VitalSigns[name])
		}
		sections = append(sections, "Vital signs: "+strings.Join(readings, ", "))
	}
	if req.Diagnosis != "" {
		sections = append(sections, "Diagnosis: "+req.Diagnosis)
	}
	if req.Treatment != "" {
		sections = append(sections, "Treatment: "+req.Treatment)
	}
	if req.VisitNotes != "" {
		sections = append(sections, req.VisitNotes)
	}
	return strings.Join(sections, "\n")
}

// consumeSuppliesTx validates and decrements stock for each line, and
// returns the summed supply cost at current unit prices.
func (s *Service) consumeSuppliesTx(ctx context.Context, tx *sqlx.Tx, appointmentID int64, items []model.ItemUsage) (float64, error) {
	var cost float64
	for _, line := range items {
		item, err := s.inventory.GetTx(ctx, tx, line.InventoryID)
		if err != nil {
			return 0, fmt.Errorf("inventory item %d not found", line.InventoryID)
		}
		if item.Quantity < line.Quantity {
			return 0, fmt.Errorf("insufficient stock for %s: have %d, need %d", item.Name, item.Quantity, line.Quantity)
		}
		if err := s.inventory.AdjustStockTx(ctx, tx, item.ID, -line.Quantity); err != nil {
			return 0, err
		}
		if err := s.usage.UpsertUsageTx(ctx, tx, appointmentID, item.ID, line.Quantity); err != nil {
			return 0, err
		}
		cost += item.UnitPrice * float64(line.Quantity)
	}
	return cost, nil
}

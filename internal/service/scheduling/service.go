package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

// clinicSlots are the bookable half-hour starts: a morning block and an
// afternoon block around the lunch break.
var clinicSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

type Service struct {
	txRunner     repository.TxRunner
	patients     repository.PatientRepository
	staff        repository.StaffRepository
	appointments repository.AppointmentRepository
	billing      repository.BillingRepository
	notifier     notify.Notifier
	auditor      audit.Recorder
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	txRunner repository.TxRunner,
	patients repository.PatientRepository,
	staff repository.StaffRepository,
	appointments repository.AppointmentRepository,
	billing repository.BillingRepository,
	notifier notify.Notifier,
	auditor audit.Recorder,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		txRunner:     txRunner,
		patients:     patients,
		staff:        staff,
		appointments: appointments,
		billing:      billing,
		notifier:     notifier,
		auditor:      auditor,
		metrics:      m,
		logger:       logger,
	}
}

// ScheduleAppointment runs the booking workflow in a single transaction:
// validate both parties, check availability, create the appointment and
// its pending bill, and queue the confirmation. Failures roll everything
// back and surface as a result, not an error.
func (s *Service) ScheduleAppointment(ctx context.Context, req *model.ScheduleAppointmentRequest) *model.SchedulingResult {
	start := time.Now()
	result := &model.SchedulingResult{}

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		apt, fee, err := s.scheduleTx(ctx, tx, req)
		if err != nil {
			return err
		}
		result.AppointmentID = apt.ID
		result.Fee = fee
		return nil
	})
	if err != nil {
		s.metrics.WorkflowRuns.WithLabelValues("scheduling", "rejected").Inc()
		s.metrics.WorkflowFailures.WithLabelValues("scheduling").Inc()
		result.OK = false
		result.Message = err.Error()
		s.logger.Warn().Err(err).Int64("patient_id", req.PatientID).Int64("doctor_id", req.DoctorID).Msg("scheduling rejected")
		return result
	}

	s.metrics.WorkflowRuns.WithLabelValues("scheduling", "success").Inc()
	s.metrics.WorkflowDuration.WithLabelValues("scheduling").Observe(time.Since(start).Seconds())
	result.OK = true
	result.Message = "appointment scheduled"
	return result
}

// ScheduleTx books an appointment inside an existing transaction. Used by
// visit processing for follow-ups so that a booking failure rolls back
// the whole visit.
func (s *Service) ScheduleTx(ctx context.Context, tx *sqlx.Tx, req *model.ScheduleAppointmentRequest) (*model.Appointment, error) {
	apt, _, err := s.scheduleTx(ctx, tx, req)
	return apt, err
}

func (s *Service) scheduleTx(ctx context.Context, tx *sqlx.Tx, req *model.ScheduleAppointmentRequest) (*model.Appointment, float64, error) {
	patient, err := s.patients.GetTx(ctx, tx, req.PatientID)
	if err != nil || !patient.Active {
		return nil, 0, fmt.Errorf("patient not found or inactive")
	}

	doctor, err := s.staff.GetTx(ctx, tx, req.DoctorID)
	if err != nil || !doctor.Active {
		return nil, 0, fmt.Errorf("doctor not found or inactive")
	}
	if doctor.JobType != model.JobTypeDoctor {
		return nil, 0, fmt.Errorf("staff member is not a doctor")
	}
	if doctor.WorkingDays == "" {
		return nil, 0, fmt.Errorf("doctor has no working days configured")
	}

	conflict, err := s.appointments.HasConflictTx(ctx, tx, req.DoctorID, req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check availability: %w", err)
	}
	if conflict {
		return nil, 0, fmt.Errorf("doctor is not available at the requested time")
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = model.DefaultDurationMinutes
	}

	apt := &model.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		DurationMinutes: duration,
		VisitType:       req.VisitType,
		Status:          model.AppointmentStatusNotDone,
		Notes:           req.Notes,
	}
	if err := s.appointments.CreateTx(ctx, tx, apt); err != nil {
		return nil, 0, fmt.Errorf("failed to create appointment: %w", err)
	}

	fee := model.VisitFee(req.VisitType)
	bill := &model.Billing{
		AppointmentID: apt.ID,
		Amount:        fee,
		PaymentStatus: model.PaymentStatusPending,
	}
	if err := s.billing.CreateTx(ctx, tx, bill); err != nil {
		return nil, 0, fmt.Errorf("failed to create billing record: %w", err)
	}

	if patient.FirstVisitDate == nil {
		if err := s.patients.SetFirstVisitDateTx(ctx, tx, patient.ID, req.AppointmentDate); err != nil {
			return nil, 0, err
		}
	}

	err = s.notifier.NotifyTx(ctx, tx, model.EventTypeAppointmentScheduled, map[string]interface{}{
		"appointment_id": apt.ID,
		"patient_id":     patient.ID,
		"patient_email":  patient.Email,
		"doctor_id":      doctor.ID,
		"doctor_name":    doctor.Name,
		"date":           req.AppointmentDate.Format("2006-01-02"),
		"time":           req.AppointmentTime,
		"visit_type":     req.VisitType,
		"fee":            fee,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to queue confirmation: %w", err)
	}

	s.auditor.Record(ctx, "schedule", "appointment", apt.ID,
		fmt.Sprintf("patient=%d doctor=%d %s %s", patient.ID, doctor.ID, req.AppointmentDate.Format("2006-01-02"), req.AppointmentTime))
	return apt, fee, nil
}

// AvailableTimeSlots returns the clinic's bookable slots for a doctor on
// a date, minus any already taken by non-canceled appointments.
func (s *Service) AvailableTimeSlots(ctx context.Context, doctorID int64, date time.Time) ([]string, error) {
	doctor, err := s.staff.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Active || doctor.JobType != model.JobTypeDoctor {
		return nil, fmt.Errorf("doctor not found or inactive")
	}

	booked, err := s.appointments.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	free := []string{}
	for _, slot := range clinicSlots {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

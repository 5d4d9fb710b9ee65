package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

// Minimum staffing levels for a clinic day.
const (
	MinDoctors = 2
	MinNurses  = 1
	MinAdmins  = 1
)

// shiftWindows maps a shift type to the clinic hours it covers. An
// appointment outside the window would leave the staff member
// double-booked, so it blocks the shift.
var shiftWindows = map[string]struct{ Start, End string }{
	"Morning":   {"09:00", "13:00"},
	"Afternoon": {"13:00", "17:00"},
	"Evening":   {"17:00", "21:00"},
	"Full Day":  {"09:00", "21:00"},
}

type Service struct {
	txRunner     repository.TxRunner
	staff        repository.StaffRepository
	roster       repository.RosterRepository
	appointments repository.AppointmentRepository
	notifier     notify.Notifier
	auditor      audit.Recorder
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	txRunner repository.TxRunner,
	staff repository.StaffRepository,
	roster repository.RosterRepository,
	appointments repository.AppointmentRepository,
	notifier notify.Notifier,
	auditor audit.Recorder,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		txRunner:     txRunner,
		staff:        staff,
		roster:       roster,
		appointments: appointments,
		notifier:     notifier,
		auditor:      auditor,
		metrics:      m,
		logger:       logger,
	}
}

// ScheduleShift assigns a staff member to a shift, rejecting duplicates,
// dates covered by approved time off, and dates where an existing
// appointment falls outside the shift's hours. A scheduled shift that
// still leaves the clinic under-staffed carries a non-fatal warning.
func (s *Service) ScheduleShift(ctx context.Context, staffID int64, req *model.ScheduleShiftRequest) *model.ShiftResult {
	result := &model.ShiftResult{}

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		member, err := s.staff.GetTx(ctx, tx, staffID)
		if err != nil || !member.Active {
			return fmt.Errorf("staff member not found or inactive")
		}

		exists, err := s.roster.HasShiftTx(ctx, tx, staffID, req.ShiftDate, req.ShiftType)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("shift already scheduled")
		}

		off, err := s.roster.HasTimeOffOverlapTx(ctx, tx, staffID, req.ShiftDate, req.ShiftDate)
		if err != nil {
			return err
		}
		if off {
			return fmt.Errorf("staff member has approved time off on that date")
		}

		if err := s.checkAppointmentsFitShiftTx(ctx, tx, staffID, req); err != nil {
			return err
		}

		shift := &model.StaffShift{
			StaffID:   staffID,
			ShiftDate: req.ShiftDate,
			ShiftType: req.ShiftType,
		}
		if err := s.roster.CreateShiftTx(ctx, tx, shift); err != nil {
			return err
		}
		result.ShiftID = shift.ID

		return s.notifier.NotifyTx(ctx, tx, model.EventTypeShiftAssigned, map[string]interface{}{
			"staff_id":   staffID,
			"staff_name": member.Name,
			"date":       req.ShiftDate.Format("2006-01-02"),
			"shift_type": req.ShiftType,
		})
	})
	if err != nil {
		s.metrics.WorkflowRuns.WithLabelValues("shift", "rejected").Inc()
		result.OK = false
		result.Message = err.Error()
		result.ShiftID = 0
		return result
	}

	s.metrics.WorkflowRuns.WithLabelValues("shift", "success").Inc()
	s.auditor.Record(ctx, "schedule_shift", "staff", staffID, req.ShiftType+" "+req.ShiftDate.Format("2006-01-02"))
	result.OK = true
	result.Message = "shift scheduled"

	if report, err := s.Coverage(ctx, req.ShiftDate); err != nil {
		s.logger.Warn().Err(err).Time("date", req.ShiftDate).Msg("coverage check failed")
	} else if !report.Adequate {
		result.Warning = "minimum coverage not met: " + strings.Join(report.Shortfall, "; ")
	}
	return result
}

// checkAppointmentsFitShiftTx rejects the shift when the staff member
// already holds a non-canceled appointment outside the shift's hours on
// that date. Unknown shift types carry no hours, so nothing can
// conflict with them.
func (s *Service) checkAppointmentsFitShiftTx(ctx context.Context, tx *sqlx.Tx, staffID int64, req *model.ScheduleShiftRequest) error {
	window, ok := shiftWindows[req.ShiftType]
	if !ok {
		return nil
	}
	times, err := s.appointments.BookedTimesTx(ctx, tx, staffID, req.ShiftDate)
	if err != nil {
		return err
	}
	for _, t := range times {
		// Zero-padded HH:MM compares correctly as a string.
		if t < window.Start || t >= window.End {
			return fmt.Errorf("conflicting appointment at %s outside the %s shift", t, req.ShiftType)
		}
	}
	return nil
}

// RequestTimeOff records an approved time-off window for a staff member.
// Requests overlapping an existing approved window, or covering a date
// where the staff member still holds a non-canceled appointment, are
// rejected.
func (s *Service) RequestTimeOff(ctx context.Context, staffID int64, req *model.RequestTimeOffRequest) *model.TimeOffResult {
	result := &model.TimeOffResult{}

	if req.EndDate.Before(req.StartDate) {
		result.OK = false
		result.Message = "end date before start date"
		return result
	}

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		member, err := s.staff.GetTx(ctx, tx, staffID)
		if err != nil || !member.Active {
			return fmt.Errorf("staff member not found or inactive")
		}

		overlap, err := s.roster.HasTimeOffOverlapTx(ctx, tx, staffID, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("overlapping time off already approved")
		}

		booked, err := s.appointments.HasActiveInRangeTx(ctx, tx, staffID, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if booked {
			return fmt.Errorf("staff member has appointments scheduled in that window")
		}

		timeOff := &model.TimeOffRequest{
			StaffID:   staffID,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Reason:    req.Reason,
			Status:    model.TimeOffStatusApproved,
		}
		if err := s.roster.CreateTimeOffTx(ctx, tx, timeOff); err != nil {
			return err
		}
		result.RequestID = timeOff.ID

		return s.notifier.NotifyTx(ctx, tx, model.EventTypeTimeOffApproved, map[string]interface{}{
			"staff_id":   staffID,
			"staff_name": member.Name,
			"start_date": req.StartDate.Format("2006-01-02"),
			"end_date":   req.EndDate.Format("2006-01-02"),
		})
	})
	if err != nil {
		s.metrics.WorkflowRuns.WithLabelValues("time_off", "rejected").Inc()
		result.OK = false
		result.Message = err.Error()
		result.RequestID = 0
		return result
	}

	s.metrics.WorkflowRuns.WithLabelValues("time_off", "success").Inc()
	s.auditor.Record(ctx, "time_off", "staff", staffID,
		req.StartDate.Format("2006-01-02")+".."+req.EndDate.Format("2006-01-02"))
	result.OK = true
	result.Message = "time off approved"
	return result
}

func (s *Service) ListShifts(ctx context.Context, staffID int64, from, to time.Time) ([]*model.StaffShift, error) {
	return s.roster.ListShifts(ctx, staffID, from, to)
}

func (s *Service) ListTimeOff(ctx context.Context, staffID int64) ([]*model.TimeOffRequest, error) {
	return s.roster.ListTimeOff(ctx, staffID)
}

// Coverage tallies active headcount by job type against the clinic's
// minimum staffing levels. Headcount is clinic-wide, not per shift.
func (s *Service) Coverage(ctx context.Context, date time.Time) (*model.CoverageReport, error) {
	report := &model.CoverageReport{Date: date}

	counts := []struct {
		jobType model.JobType
		dest    *int
	}{
		{model.JobTypeDoctor, &report.Doctors},
		{model.JobTypeNurse, &report.Nurses},
		{model.JobTypeAdmin, &report.Admins},
	}
	for _, c := range counts {
		n, err := s.staff.CountActiveByJobType(ctx, c.jobType)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	report.Adequate = true
	if report.Doctors < MinDoctors {
		report.Adequate = false
		report.Shortfall = append(report.Shortfall, fmt.Sprintf("doctors: have %d, need %d", report.Doctors, MinDoctors))
	}
	if report.Nurses < MinNurses {
		report.Adequate = false
		report.Shortfall = append(report.Shortfall, fmt.Sprintf("nurses: have %d, need %d", report.Nurses, MinNurses))
	}
	if report.Admins < MinAdmins {
		report.Adequate = false
		report.Shortfall = append(report.Shortfall, fmt.Sprintf("admins: have %d, need %d", report.Admins, MinAdmins))
	}
	return report, nil
}

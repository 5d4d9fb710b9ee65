package roster_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository/repositorytest"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	"github.com/clinicnexus/clinic-api/internal/service/roster"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

var testMetrics = metrics.New("roster_test")

type env struct {
	store   *repositorytest.Store
	service *roster.Service
}

func newEnv() *env {
	store := repositorytest.NewStore()
	svc := roster.NewService(
		&repositorytest.TxRunner{Store: store},
		&repositorytest.StaffRepo{Store: store},
		&repositorytest.RosterRepo{Store: store},
		&repositorytest.AppointmentRepo{Store: store},
		notify.NewService(&repositorytest.OutboxRepo{Store: store}),
		audit.NewService(zerolog.Nop()),
		testMetrics,
		zerolog.Nop(),
	)
	return &env{store: store, service: svc}
}

func (e *env) seedNurse(active bool) int64 {
	return e.store.AddStaff(model.Staff{Name: "Nina Cole", JobType: model.JobTypeNurse, Active: active})
}

func (e *env) seedDoctor() int64 {
	return e.store.AddStaff(model.Staff{Name: "Dr. Elena Park", JobType: model.JobTypeDoctor, Active: true})
}

// seedFullCoverage adds enough active staff to satisfy the clinic's
// minimum staffing levels.
func (e *env) seedFullCoverage() {
	e.seedDoctor()
	e.seedDoctor()
	e.store.AddStaff(model.Staff{Name: "Nurse", JobType: model.JobTypeNurse, Active: true})
	e.store.AddStaff(model.Staff{Name: "Admin", JobType: model.JobTypeAdmin, Active: true})
}

func TestScheduleShift(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(true)
	req := &model.ScheduleShiftRequest{
		ShiftDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		ShiftType: "Morning",
	}

	result := e.service.ScheduleShift(context.Background(), staffID, req)

	require.True(t, result.OK, result.Message)
	require.Len(t, e.store.Shifts, 1)
	assert.Equal(t, staffID, e.store.Shifts[0].StaffID)
	require.Len(t, e.store.Events, 1)
	assert.Equal(t, model.EventTypeShiftAssigned, e.store.Events[0].EventType)
}

func TestScheduleShiftDuplicateRejected(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(true)
	req := &model.ScheduleShiftRequest{
		ShiftDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		ShiftType: "Morning",
	}

	first := e.service.ScheduleShift(context.Background(), staffID, req)
	second := e.service.ScheduleShift(context.Background(), staffID, req)

	require.True(t, first.OK)
	require.False(t, second.OK)
	assert.Contains(t, second.Message, "already scheduled")
	assert.Len(t, e.store.Shifts, 1)

	// Same date, different shift type is fine.
	evening := e.service.ScheduleShift(context.Background(), staffID, &model.ScheduleShiftRequest{
		ShiftDate: req.ShiftDate,
		ShiftType: "Evening",
	})
	assert.True(t, evening.OK)
}

func TestScheduleShiftDuringTimeOffRejected(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(true)
	e.store.TimeOff = append(e.store.TimeOff, model.TimeOffRequest{
		StaffID:   staffID,
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		Status:    model.TimeOffStatusApproved,
	})

	result := e.service.ScheduleShift(context.Background(), staffID, &model.ScheduleShiftRequest{
		ShiftDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		ShiftType: "Morning",
	})

	require.False(t, result.OK)
	assert.Contains(t, result.Message, "time off")
	assert.Empty(t, e.store.Shifts)
}

func TestScheduleShiftConflictingAppointmentRejected(t *testing.T) {
	e := newEnv()
	doctorID := e.seedDoctor()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	e.store.AddAppointment(model.Appointment{
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: "10:00",
		Status:          model.AppointmentStatusNotDone,
	})

	// A 10:00 appointment falls outside the Evening shift.
	evening := e.service.ScheduleShift(context.Background(), doctorID, &model.ScheduleShiftRequest{
		ShiftDate: date,
		ShiftType: "Evening",
	})
	require.False(t, evening.OK)
	assert.Contains(t, evening.Message, "conflicting appointment")
	assert.Empty(t, e.store.Shifts)

	// The same appointment sits inside the Morning shift.
	morning := e.service.ScheduleShift(context.Background(), doctorID, &model.ScheduleShiftRequest{
		ShiftDate: date,
		ShiftType: "Morning",
	})
	require.True(t, morning.OK, morning.Message)
	assert.Len(t, e.store.Shifts, 1)
}

func TestScheduleShiftCanceledAppointmentIgnored(t *testing.T) {
	e := newEnv()
	doctorID := e.seedDoctor()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	e.store.AddAppointment(model.Appointment{
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: "10:00",
		Status:          model.AppointmentStatusCanceled,
	})

	result := e.service.ScheduleShift(context.Background(), doctorID, &model.ScheduleShiftRequest{
		ShiftDate: date,
		ShiftType: "Evening",
	})
	require.True(t, result.OK, result.Message)
}

func TestScheduleShiftWarnsBelowMinimumCoverage(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(true)

	result := e.service.ScheduleShift(context.Background(), staffID, &model.ScheduleShiftRequest{
		ShiftDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		ShiftType: "Morning",
	})

	// The shift is still recorded; the warning is advisory.
	require.True(t, result.OK, result.Message)
	require.Len(t, e.store.Shifts, 1)
	assert.Contains(t, result.Warning, "minimum coverage not met")
	assert.Contains(t, result.Warning, "doctors")
}

func TestScheduleShiftNoWarningWithFullCoverage(t *testing.T) {
	e := newEnv()
	e.seedFullCoverage()
	staffID := e.seedNurse(true)

	result := e.service.ScheduleShift(context.Background(), staffID, &model.ScheduleShiftRequest{
		ShiftDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		ShiftType: "Morning",
	})

	require.True(t, result.OK, result.Message)
	assert.Empty(t, result.Warning)
}

func TestScheduleShiftInactiveStaffRejected(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(false)

	result := e.service.ScheduleShift(context.Background(), staffID, &model.ScheduleShiftRequest{
		ShiftDate: time.Now(),
		ShiftType: "Morning",
	})

	require.False(t, result.OK)
	assert.Empty(t, e.store.Shifts)
	assert.Empty(t, e.store.Events)
}

func TestRequestTimeOff(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(true)

	result := e.service.RequestTimeOff(context.Background(), staffID, &model.RequestTimeOffRequest{
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Reason:    "vacation",
	})

	require.True(t, result.OK, result.Message)
	require.Len(t, e.store.TimeOff, 1)
	assert.Equal(t, model.TimeOffStatusApproved, e.store.TimeOff[0].Status)
	require.Len(t, e.store.Events, 1)
	assert.Equal(t, model.EventTypeTimeOffApproved, e.store.Events[0].EventType)
}

func TestRequestTimeOffOverlapRejected(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(true)

	first := e.service.RequestTimeOff(context.Background(), staffID, &model.RequestTimeOffRequest{
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	})
	overlapping := e.service.RequestTimeOff(context.Background(), staffID, &model.RequestTimeOffRequest{
		StartDate: time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC),
	})

	require.True(t, first.OK)
	require.False(t, overlapping.OK)
	assert.Contains(t, overlapping.Message, "overlapping")
	assert.Len(t, e.store.TimeOff, 1)
}

func TestRequestTimeOffWithBookedAppointmentsRejected(t *testing.T) {
	e := newEnv()
	doctorID := e.seedDoctor()
	e.store.AddAppointment(model.Appointment{
		DoctorID:        doctorID,
		AppointmentDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "09:30",
		Status:          model.AppointmentStatusNotDone,
	})

	result := e.service.RequestTimeOff(context.Background(), doctorID, &model.RequestTimeOffRequest{
		StartDate: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Reason:    "conference",
	})

	require.False(t, result.OK)
	assert.Contains(t, result.Message, "appointments scheduled")
	assert.Empty(t, e.store.TimeOff)
	assert.Empty(t, e.store.Events)
}

func TestRequestTimeOffCanceledAppointmentIgnored(t *testing.T) {
	e := newEnv()
	doctorID := e.seedDoctor()
	e.store.AddAppointment(model.Appointment{
		DoctorID:        doctorID,
		AppointmentDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "09:30",
		Status:          model.AppointmentStatusCanceled,
	})

	result := e.service.RequestTimeOff(context.Background(), doctorID, &model.RequestTimeOffRequest{
		StartDate: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	})

	require.True(t, result.OK, result.Message)
	assert.Len(t, e.store.TimeOff, 1)
}

func TestRequestTimeOffEndBeforeStart(t *testing.T) {
	e := newEnv()
	staffID := e.seedNurse(true)

	result := e.service.RequestTimeOff(context.Background(), staffID, &model.RequestTimeOffRequest{
		StartDate: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})

	require.False(t, result.OK)
	assert.Empty(t, e.store.TimeOff)
}

func TestCoverage(t *testing.T) {
	e := newEnv()
	for i := 0; i < 2; i++ {
		e.store.AddStaff(model.Staff{Name: "Doctor", JobType: model.JobTypeDoctor, Active: true})
	}
	e.store.AddStaff(model.Staff{Name: "Nurse", JobType: model.JobTypeNurse, Active: true})
	e.store.AddStaff(model.Staff{Name: "Admin", JobType: model.JobTypeAdmin, Active: true})
	// Inactive staff never count toward coverage.
	e.store.AddStaff(model.Staff{Name: "Former doctor", JobType: model.JobTypeDoctor, Active: false})

	report, err := e.service.Coverage(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Doctors)
	assert.Equal(t, 1, report.Nurses)
	assert.Equal(t, 1, report.Admins)
	assert.True(t, report.Adequate)
	assert.Empty(t, report.Shortfall)
}

func TestCoverageShortfall(t *testing.T) {
	e := newEnv()
	e.store.AddStaff(model.Staff{Name: "Doctor", JobType: model.JobTypeDoctor, Active: true})
	e.store.AddStaff(model.Staff{Name: "Admin", JobType: model.JobTypeAdmin, Active: true})

	report, err := e.service.Coverage(context.Background(), time.Now())
	require.NoError(t, err)
	assert.False(t, report.Adequate)
	require.Len(t, report.Shortfall, 2)
	assert.Contains(t, report.Shortfall[0], "doctors")
	assert.Contains(t, report.Shortfall[1], "nurses")
}

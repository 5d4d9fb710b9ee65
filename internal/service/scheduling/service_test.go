package scheduling_test

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
	"github.com/clinicnexus/clinic-api/internal/service/scheduling"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

var testMetrics = metrics.New("scheduling_test")

type env struct {
	store   *repositorytest.Store
	runner  *repositorytest.TxRunner
	service *scheduling.Service
}

func newEnv() *env {
	store := repositorytest.NewStore()
	runner := &repositorytest.TxRunner{Store: store}
	outbox := &repositorytest.OutboxRepo{Store: store}
	svc := scheduling.NewService(
		runner,
		&repositorytest.PatientRepo{Store: store},
		&repositorytest.StaffRepo{Store: store},
		&repositorytest.AppointmentRepo{Store: store},
		&repositorytest.BillingRepo{Store: store},
		notify.NewService(outbox),
		audit.NewService(zerolog.Nop()),
		testMetrics,
		zerolog.Nop(),
	)
	return &env{store: store, runner: runner, service: svc}
}

func (e *env) seedPatient(active bool) int64 {
	return e.store.AddPatient(model.Patient{Name: "Jordan Reyes", Email: "jordan@example.com", Active: active})
}

func (e *env) seedDoctor(active bool) int64 {
	return e.store.AddStaff(model.Staff{
		Name:        "Dr. Asha Patel",
		JobType:     model.JobTypeDoctor,
		WorkingDays: "Mon,Tue,Wed,Thu,Fri",
		Active:      active,
	})
}

func scheduleRequest(patientID, doctorID int64) *model.ScheduleAppointmentRequest {
	return &model.ScheduleAppointmentRequest{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "09:30",
		VisitType:       model.VisitTypeCheckup,
	}
}

func TestScheduleAppointmentSuccess(t *testing.T) {
	e := newEnv()
	patientID := e.seedPatient(true)
	doctorID := e.seedDoctor(true)

	result := e.service.ScheduleAppointment(context.Background(), scheduleRequest(patientID, doctorID))

	require.True(t, result.OK, result.Message)
	assert.Equal(t, float64(500), result.Fee)
	assert.Equal(t, 1, e.runner.Commits)

	apt, ok := e.store.Appointments[result.AppointmentID]
	require.True(t, ok)
	assert.Equal(t, model.AppointmentStatusNotDone, apt.Status)
	assert.Equal(t, model.DefaultDurationMinutes, apt.DurationMinutes)

	bill, ok := e.store.BillForAppointment(result.AppointmentID)
	require.True(t, ok)
	assert.Equal(t, float64(500), bill.Amount)
	assert.Equal(t, model.PaymentStatusPending, bill.PaymentStatus)

	patient := e.store.Patients[patientID]
	require.NotNil(t, patient.FirstVisitDate)

	require.Len(t, e.store.Events, 1)
	assert.Equal(t, model.EventTypeAppointmentScheduled, e.store.Events[0].EventType)
}

func TestScheduleAppointmentKeepsExplicitDuration(t *testing.T) {
	e := newEnv()
	req := scheduleRequest(e.seedPatient(true), e.seedDoctor(true))
	req.DurationMinutes = 45
	req.VisitType = model.VisitTypeProcedure

	result := e.service.ScheduleAppointment(context.Background(), req)

	require.True(t, result.OK)
	assert.Equal(t, float64(1500), result.Fee)
	assert.Equal(t, 45, e.store.Appointments[result.AppointmentID].DurationMinutes)
}

func TestScheduleAppointmentDoubleBookingRejected(t *testing.T) {
	e := newEnv()
	doctorID := e.seedDoctor(true)
	first := e.seedPatient(true)
	second := e.seedPatient(true)

	r1 := e.service.ScheduleAppointment(context.Background(), scheduleRequest(first, doctorID))
	r2 := e.service.ScheduleAppointment(context.Background(), scheduleRequest(second, doctorID))

	require.True(t, r1.OK)
	require.False(t, r2.OK)
	assert.Contains(t, r2.Message, "not available")
	assert.Len(t, e.store.Appointments, 1)
	assert.Len(t, e.store.Bills, 1)
	assert.Equal(t, 1, e.runner.Rollbacks)
}

func TestScheduleAppointmentCanceledSlotIsFree(t *testing.T) {
	e := newEnv()
	doctorID := e.seedDoctor(true)
	patientID := e.seedPatient(true)
	req := scheduleRequest(patientID, doctorID)

	e.store.AddAppointment(model.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          model.AppointmentStatusCanceled,
	})

	result := e.service.ScheduleAppointment(context.Background(), req)
	assert.True(t, result.OK, result.Message)
}

func TestScheduleAppointmentValidationRejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(e *env) (int64, int64)
		message string
	}{
		{
			name: "inactive patient",
			setup: func(e *env) (int64, int64) {
				return e.seedPatient(false), e.seedDoctor(true)
			},
			message: "patient not found or inactive",
		},
		{
			name: "unknown patient",
			setup: func(e *env) (int64, int64) {
				return 999, e.seedDoctor(true)
			},
			message: "patient not found or inactive",
		},
		{
			name: "inactive doctor",
			setup: func(e *env) (int64, int64) {
				return e.seedPatient(true), e.seedDoctor(false)
			},
			message: "doctor not found or inactive",
		},
		{
			name: "staff member is not a doctor",
			setup: func(e *env) (int64, int64) {
				nurseID := e.store.AddStaff(model.Staff{Name: "Nina Cole", JobType: model.JobTypeNurse, WorkingDays: "Mon", Active: true})
				return e.seedPatient(true), nurseID
			},
			message: "not a doctor",
		},
		{
			name: "no working days",
			setup: func(e *env) (int64, int64) {
				docID := e.store.AddStaff(model.Staff{Name: "Dr. Lee", JobType: model.JobTypeDoctor, Active: true})
				return e.seedPatient(true), docID
			},
			message: "no working days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			patientID, doctorID := tt.setup(e)

			result := e.service.ScheduleAppointment(context.Background(), scheduleRequest(patientID, doctorID))

			require.False(t, result.OK)
			assert.Contains(t, result.Message, tt.message)
			assert.Empty(t, e.store.Appointments)
			assert.Empty(t, e.store.Bills)
			assert.Empty(t, e.store.Events)
		})
	}
}

func TestAvailableTimeSlots(t *testing.T) {
	e := newEnv()
	doctorID := e.seedDoctor(true)
	patientID := e.seedPatient(true)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	for _, at := range []string{"09:00", "13:00"} {
		e.store.AddAppointment(model.Appointment{
			PatientID:       patientID,
			DoctorID:        doctorID,
			AppointmentDate: date,
			AppointmentTime: at,
			Status:          model.AppointmentStatusNotDone,
		})
	}

	free, err := e.service.AvailableTimeSlots(context.Background(), doctorID, date)
	require.NoError(t, err)
	assert.Len(t, free, 12)
	assert.NotContains(t, free, "09:00")
	assert.NotContains(t, free, "13:00")
	assert.Contains(t, free, "09:30")
}

func TestAvailableTimeSlotsRejectsNonDoctor(t *testing.T) {
	e := newEnv()
	nurseID := e.store.AddStaff(model.Staff{Name: "Nina Cole", JobType: model.JobTypeNurse, Active: true})

	_, err := e.service.AvailableTimeSlots(context.Background(), nurseID, time.Now())
	assert.Error(t, err)
}

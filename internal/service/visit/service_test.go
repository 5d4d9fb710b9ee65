package visit_test

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
	"github.com/clinicnexus/clinic-api/internal/service/visit"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

var testMetrics = metrics.New("visit_test")

type env struct {
	store   *repositorytest.Store
	runner  *repositorytest.TxRunner
	service *visit.Service

	patientID     int64
	doctorID      int64
	appointmentID int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := repositorytest.NewStore()
	runner := &repositorytest.TxRunner{Store: store}
	patients := &repositorytest.PatientRepo{Store: store}
	staff := &repositorytest.StaffRepo{Store: store}
	appointments := &repositorytest.AppointmentRepo{Store: store}
	billing := &repositorytest.BillingRepo{Store: store}
	inventory := &repositorytest.InventoryRepo{Store: store}
	usage := &repositorytest.UsageRepo{Store: store}
	notifier := notify.NewService(&repositorytest.OutboxRepo{Store: store})
	auditor := audit.NewService(zerolog.Nop())

	scheduler := scheduling.NewService(runner, patients, staff, appointments, billing, notifier, auditor, testMetrics, zerolog.Nop())
	svc := visit.NewService(runner, appointments, billing, inventory, usage, scheduler, notifier, auditor, testMetrics, zerolog.Nop())

	e := &env{store: store, runner: runner, service: svc}
	firstVisit := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	e.patientID = store.AddPatient(model.Patient{Name: "Jordan Reyes", Active: true, FirstVisitDate: &firstVisit})
	e.doctorID = store.AddStaff(model.Staff{
		Name:        "Dr. Asha Patel",
		JobType:     model.JobTypeDoctor,
		WorkingDays: "Mon,Tue,Wed,Thu,Fri",
		Active:      true,
	})
	e.appointmentID = store.AddAppointment(model.Appointment{
		PatientID:       e.patientID,
		DoctorID:        e.doctorID,
		AppointmentDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:00",
		VisitType:       model.VisitTypeProcedure,
		Status:          model.AppointmentStatusNotDone,
	})
	store.AddBill(model.Billing{
		AppointmentID: e.appointmentID,
		Amount:        model.VisitFee(model.VisitTypeProcedure),
		PaymentStatus: model.PaymentStatusPending,
	})
	return e
}

func TestProcessVisitSuccess(t *testing.T) {
	e := newEnv(t)
	gauze := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 40, ReorderThreshold: 10, UnitPrice: 12.5})
	syringe := e.store.AddItem(model.InventoryItem{Name: "Syringe", Quantity: 25, ReorderThreshold: 5, UnitPrice: 8})

	result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{
		AppointmentID: e.appointmentID,
		VisitNotes:    "minor procedure, no complications",
		ItemsUsed: []model.ItemUsage{
			{InventoryID: gauze, Quantity: 4},
			{InventoryID: syringe, Quantity: 2},
		},
	})

	require.True(t, result.OK, result.Message)
	// 1500 procedure fee + 4*12.5 + 2*8
	assert.Equal(t, float64(1566), result.TotalBill)
	assert.False(t, result.FollowUpScheduled)

	apt := e.store.Appointments[e.appointmentID]
	assert.Equal(t, model.AppointmentStatusDone, apt.Status)
	assert.Contains(t, apt.Notes, "no complications")

	bill, ok := e.store.BillForAppointment(e.appointmentID)
	require.True(t, ok)
	assert.Equal(t, float64(1566), bill.Amount)

	assert.Equal(t, 36, e.store.Items[gauze].Quantity)
	assert.Equal(t, 23, e.store.Items[syringe].Quantity)
	require.Len(t, e.store.Usage, 2)

	require.Len(t, e.store.Events, 1)
	assert.Equal(t, model.EventTypeAppointmentCompleted, e.store.Events[0].EventType)
}

func TestProcessVisitRecordsClinicalNotes(t *testing.T) {
	e := newEnv(t)

	result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{
		AppointmentID: e.appointmentID,
		VitalSigns: map[string]string{
			"temperature": "37.2C",
			"pulse":       "72",
			"bp":          "120/80",
		},
		Diagnosis:  "mild dehydration",
		Treatment:  "oral rehydration, rest",
		VisitNotes: "patient responded well",
	})

	require.True(t, result.OK, result.Message)

	notes := e.store.Appointments[e.appointmentID].Notes
	// Vitals are rendered in one line, sorted by name.
	assert.Contains(t, notes, "Vital signs: bp=120/80, pulse=72, temperature=37.2C")
	assert.Contains(t, notes, "Diagnosis: mild dehydration")
	assert.Contains(t, notes, "Treatment: oral rehydration, rest")
	assert.Contains(t, notes, "patient responded well")
}

func TestProcessVisitUsesRequestBaseCharge(t *testing.T) {
	e := newEnv(t)
	gauze := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 40, ReorderThreshold: 10, UnitPrice: 12.5})

	result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{
		AppointmentID: e.appointmentID,
		BaseCharge:    750,
		ItemsUsed:     []model.ItemUsage{{InventoryID: gauze, Quantity: 4}},
	})

	require.True(t, result.OK, result.Message)
	// 750 base charge + 4*12.5 in supplies.
	assert.Equal(t, float64(800), result.TotalBill)

	bill, ok := e.store.BillForAppointment(e.appointmentID)
	require.True(t, ok)
	assert.Equal(t, float64(800), bill.Amount)
}

func TestProcessVisitCreatesBillWhenMissing(t *testing.T) {
	e := newEnv(t)
	for id, b := range e.store.Bills {
		if b.AppointmentID == e.appointmentID {
			delete(e.store.Bills, id)
		}
	}

	result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{
		AppointmentID: e.appointmentID,
	})

	require.True(t, result.OK, result.Message)

	bill, ok := e.store.BillForAppointment(e.appointmentID)
	require.True(t, ok)
	assert.Equal(t, model.VisitFee(model.VisitTypeProcedure), bill.Amount)
	assert.Equal(t, model.PaymentStatusPending, bill.PaymentStatus)
}

func TestProcessVisitInsufficientStockRollsBack(t *testing.T) {
	e := newEnv(t)
	gauze := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 40, ReorderThreshold: 10, UnitPrice: 12.5})
	syringe := e.store.AddItem(model.InventoryItem{Name: "Syringe", Quantity: 1, ReorderThreshold: 5, UnitPrice: 8})

	result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{
		AppointmentID: e.appointmentID,
		ItemsUsed: []model.ItemUsage{
			{InventoryID: gauze, Quantity: 4},
			{InventoryID: syringe, Quantity: 2},
		},
	})

	require.False(t, result.OK)
	assert.Contains(t, result.Message, "insufficient stock for Syringe")
	assert.Zero(t, result.TotalBill)

	// First line's decrement must not survive the rollback.
	assert.Equal(t, 40, e.store.Items[gauze].Quantity)
	assert.Equal(t, 1, e.store.Items[syringe].Quantity)
	assert.Empty(t, e.store.Usage)
	assert.Equal(t, model.AppointmentStatusNotDone, e.store.Appointments[e.appointmentID].Status)
	assert.Empty(t, e.store.Events)
	assert.Equal(t, 1, e.runner.Rollbacks)
}

func TestProcessVisitRejectsCompletedAndCanceled(t *testing.T) {
	for _, status := range []model.AppointmentStatus{model.AppointmentStatusDone, model.AppointmentStatusCanceled} {
		t.Run(string(status), func(t *testing.T) {
			e := newEnv(t)
			apt := e.store.Appointments[e.appointmentID]
			apt.Status = status
			e.store.Appointments[e.appointmentID] = apt

			result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{AppointmentID: e.appointmentID})

			require.False(t, result.OK)
			assert.Empty(t, e.store.Events)
		})
	}
}

func TestProcessVisitWithFollowUp(t *testing.T) {
	e := newEnv(t)

	result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{
		AppointmentID: e.appointmentID,
		FollowUp: &model.FollowUp{
			Date: time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC),
			Time: "11:00",
		},
	})

	require.True(t, result.OK, result.Message)
	require.True(t, result.FollowUpScheduled)

	// Follow-ups book as a standard check-up.
	followUp, ok := e.store.Appointments[result.FollowUpID]
	require.True(t, ok)
	assert.Equal(t, model.VisitTypeCheckup, followUp.VisitType)
	assert.Equal(t, model.AppointmentStatusNotDone, followUp.Status)
	assert.Equal(t, e.patientID, followUp.PatientID)
	assert.Equal(t, e.doctorID, followUp.DoctorID)

	bill, ok := e.store.BillForAppointment(result.FollowUpID)
	require.True(t, ok)
	assert.Equal(t, model.VisitFee(model.VisitTypeCheckup), bill.Amount)

	// One completion event plus one scheduling event for the follow-up.
	assert.Len(t, e.store.Events, 2)
}

func TestProcessVisitFollowUpConflictFailsWholeVisit(t *testing.T) {
	e := newEnv(t)
	followUpDate := time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)

	// Another patient already holds the follow-up slot.
	otherPatient := e.store.AddPatient(model.Patient{Name: "Sam Okafor", Active: true})
	e.store.AddAppointment(model.Appointment{
		PatientID:       otherPatient,
		DoctorID:        e.doctorID,
		AppointmentDate: followUpDate,
		AppointmentTime: "11:00",
		Status:          model.AppointmentStatusNotDone,
	})

	result := e.service.ProcessVisit(context.Background(), &model.ProcessVisitRequest{
		AppointmentID: e.appointmentID,
		FollowUp: &model.FollowUp{
			Date: followUpDate,
			Time: "11:00",
		},
	})

	require.False(t, result.OK)
	assert.Contains(t, result.Message, "follow-up")
	assert.False(t, result.FollowUpScheduled)

	// Visit completion rolled back along with the failed booking.
	assert.Equal(t, model.AppointmentStatusNotDone, e.store.Appointments[e.appointmentID].Status)
	assert.Empty(t, e.store.Events)
}

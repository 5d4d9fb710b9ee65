package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicnexus/clinic-api/internal/model"
)

// TxRunner scopes a function to a single database transaction. The
// transaction is rolled back if fn returns an error or panics, and
// committed otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id int64) (*model.Patient, error)
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id int64) error
	GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Patient, error)
	SetFirstVisitDateTx(ctx context.Context, tx *sqlx.Tx, id int64, date time.Time) error
	ListAppointments(ctx context.Context, patientID int64) ([]*model.AppointmentSummary, error)
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	Get(ctx context.Context, id int64) (*model.Staff, error)
	List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id int64) error
	GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Staff, error)
	CountActiveByJobType(ctx context.Context, jobType model.JobType) (int, error)
	ListAppointments(ctx context.Context, staffID int64) ([]*model.AppointmentSummary, error)
}

type AppointmentRepository interface {
	Get(ctx context.Context, id int64) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	Cancel(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, apt *model.Appointment) error
	GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Appointment, error)
	HasConflictTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, date time.Time, timeOfDay string) (bool, error)
	HasActiveInRangeTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, start, end time.Time) (bool, error)
	BookedTimes(ctx context.Context, doctorID int64, date time.Time) ([]string, error)
	BookedTimesTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, date time.Time) ([]string, error)
	MarkDoneTx(ctx context.Context, tx *sqlx.Tx, id int64) error
	AppendNotesTx(ctx context.Context, tx *sqlx.Tx, id int64, notes string) error
}

type BillingRepository interface {
	Get(ctx context.Context, id int64) (*model.Billing, error)
	GetByAppointment(ctx context.Context, appointmentID int64) (*model.Billing, error)
	List(ctx context.Context, filters *model.BillingFilters) ([]*model.Billing, error)
	Update(ctx context.Context, billing *model.Billing) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, billing *model.Billing) error
	UpdateAmountByAppointmentTx(ctx context.Context, tx *sqlx.Tx, appointmentID int64, amount float64) error
}

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Get(ctx context.Context, id int64) (*model.InventoryItem, error)
	List(ctx context.Context, filters *model.InventoryFilters) ([]*model.InventoryItem, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id int64) error
	GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.InventoryItem, error)
	AdjustStockTx(ctx context.Context, tx *sqlx.Tx, id int64, delta int) error
	RestockTx(ctx context.Context, tx *sqlx.Tx, id int64, quantity int, restockedAt time.Time) error
	UpdateSupplierTx(ctx context.Context, tx *sqlx.Tx, id int64, supplierInfo string) error
	ListAll(ctx context.Context) ([]*model.InventoryItem, error)
}

type AppointmentInventoryRepository interface {
	UpsertUsageTx(ctx context.Context, tx *sqlx.Tx, appointmentID, inventoryID int64, quantity int) error
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.AppointmentInventory, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
	Get(ctx context.Context, id int64) (*model.Feedback, error)
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Feedback, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Feedback, error)
}

type RosterRepository interface {
	CreateShiftTx(ctx context.Context, tx *sqlx.Tx, shift *model.StaffShift) error
	ListShifts(ctx context.Context, staffID int64, from, to time.Time) ([]*model.StaffShift, error)
	HasShiftTx(ctx context.Context, tx *sqlx.Tx, staffID int64, date time.Time, shiftType string) (bool, error)
	CreateTimeOffTx(ctx context.Context, tx *sqlx.Tx, req *model.TimeOffRequest) error
	HasTimeOffOverlapTx(ctx context.Context, tx *sqlx.Tx, staffID int64, start, end time.Time) (bool, error)
	ListTimeOff(ctx context.Context, staffID int64) ([]*model.TimeOffRequest, error)
}

type OutboxRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}

type ReportRepository interface {
	Revenue(ctx context.Context, from, to time.Time) (*model.RevenueReport, error)
	AppointmentVolume(ctx context.Context, from, to time.Time) ([]*model.AppointmentVolumeRow, error)
	DoctorLoad(ctx context.Context, from, to time.Time) ([]*model.DoctorLoadRow, error)
	LowStock(ctx context.Context) ([]*model.LowStockRow, error)
}

// Package repositorytest provides in-memory repository fakes for service
// tests. A TxRunner snapshot-restores the store on error so rollback
// semantics can be asserted without a database.
package repositorytest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicnexus/clinic-api/internal/model"
	apperrors "github.com/clinicnexus/clinic-api/pkg/errors"
)

type Store struct {
	NextID       int64
	Patients     map[int64]model.Patient
	StaffMembers map[int64]model.Staff
	Appointments map[int64]model.Appointment
	Bills        map[int64]model.Billing
	Items        map[int64]model.InventoryItem
	Usage        []model.AppointmentInventory
	Shifts       []model.StaffShift
	TimeOff      []model.TimeOffRequest
	Events       []model.OutboxEvent
	Feedback     []model.Feedback
}

func NewStore() *Store {
	return &Store{
		NextID:       1,
		Patients:     map[int64]model.Patient{},
		StaffMembers: map[int64]model.Staff{},
		Appointments: map[int64]model.Appointment{},
		Bills:        map[int64]model.Billing{},
		Items:        map[int64]model.InventoryItem{},
	}
}

func (s *Store) nextID() int64 {
	id := s.NextID
	s.NextID++
	return id
}

func (s *Store) clone() *Store {
	c := &Store{
		NextID:       s.NextID,
		Patients:     make(map[int64]model.Patient, len(s.Patients)),
		StaffMembers: make(map[int64]model.Staff, len(s.StaffMembers)),
		Appointments: make(map[int64]model.Appointment, len(s.Appointments)),
		Bills:        make(map[int64]model.Billing, len(s.Bills)),
		Items:        make(map[int64]model.InventoryItem, len(s.Items)),
	}
	for k, v := range s.Patients {
		c.Patients[k] = v
	}
	for k, v := range s.StaffMembers {
		c.StaffMembers[k] = v
	}
	for k, v := range s.Appointments {
		c.Appointments[k] = v
	}
	for k, v := range s.Bills {
		c.Bills[k] = v
	}
	for k, v := range s.Items {
		c.Items[k] = v
	}
	c.Usage = append([]model.AppointmentInventory(nil), s.Usage...)
	c.Shifts = append([]model.StaffShift(nil), s.Shifts...)
	c.TimeOff = append([]model.TimeOffRequest(nil), s.TimeOff...)
	c.Events = append([]model.OutboxEvent(nil), s.Events...)
	c.Feedback = append([]model.Feedback(nil), s.Feedback...)
	return c
}

// Seeding helpers.

func (s *Store) AddPatient(p model.Patient) int64 {
	if p.ID == 0 {
		p.ID = s.nextID()
	}
	s.Patients[p.ID] = p
	return p.ID
}

func (s *Store) AddStaff(m model.Staff) int64 {
	if m.ID == 0 {
		m.ID = s.nextID()
	}
	s.StaffMembers[m.ID] = m
	return m.ID
}

func (s *Store) AddAppointment(a model.Appointment) int64 {
	if a.ID == 0 {
		a.ID = s.nextID()
	}
	s.Appointments[a.ID] = a
	return a.ID
}

func (s *Store) AddBill(b model.Billing) int64 {
	if b.ID == 0 {
		b.ID = s.nextID()
	}
	s.Bills[b.ID] = b
	return b.ID
}

func (s *Store) AddItem(i model.InventoryItem) int64 {
	if i.ID == 0 {
		i.ID = s.nextID()
	}
	s.Items[i.ID] = i
	return i.ID
}

// BillForAppointment returns the bill row tied to an appointment.
func (s *Store) BillForAppointment(appointmentID int64) (model.Billing, bool) {
	for _, b := range s.Bills {
		if b.AppointmentID == appointmentID {
			return b, true
		}
	}
	return model.Billing{}, false
}

// TxRunner snapshot-restores the store when fn fails.
type TxRunner struct {
	Store     *Store
	Commits   int
	Rollbacks int
}

func (r *TxRunner) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	snap := r.Store.clone()
	if err := fn(nil); err != nil {
		*r.Store = *snap
		r.Rollbacks++
		return err
	}
	r.Commits++
	return nil
}

type PatientRepo struct {
	Store *Store
}

func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	p.ID = r.Store.nextID()
	p.Active = true
	r.Store.Patients[p.ID] = *p
	return nil
}

func (r *PatientRepo) Get(ctx context.Context, id int64) (*model.Patient, error) {
	p, ok := r.Store.Patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient not found")
	}
	return &p, nil
}

func (r *PatientRepo) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Patient, error) {
	return r.Get(ctx, id)
}

func (r *PatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	out := []*model.Patient{}
	for id := range r.Store.Patients {
		p := r.Store.Patients[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *PatientRepo) Update(ctx context.Context, p *model.Patient) error {
	if _, ok := r.Store.Patients[p.ID]; !ok {
		return apperrors.NotFound("patient not found")
	}
	r.Store.Patients[p.ID] = *p
	return nil
}

func (r *PatientRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.Store.Patients[id]; !ok {
		return apperrors.NotFound("patient not found")
	}
	delete(r.Store.Patients, id)
	return nil
}

func (r *PatientRepo) SetFirstVisitDateTx(ctx context.Context, tx *sqlx.Tx, id int64, date time.Time) error {
	p, ok := r.Store.Patients[id]
	if !ok {
		return apperrors.NotFound("patient not found")
	}
	if p.FirstVisitDate == nil {
		d := date
		p.FirstVisitDate = &d
		r.Store.Patients[id] = p
	}
	return nil
}

func (r *PatientRepo) ListAppointments(ctx context.Context, patientID int64) ([]*model.AppointmentSummary, error) {
	return nil, nil
}

type StaffRepo struct {
	Store *Store
}

func (r *StaffRepo) Create(ctx context.Context, m *model.Staff) error {
	m.ID = r.Store.nextID()
	m.Active = true
	r.Store.StaffMembers[m.ID] = *m
	return nil
}

func (r *StaffRepo) Get(ctx context.Context, id int64) (*model.Staff, error) {
	m, ok := r.Store.StaffMembers[id]
	if !ok {
		return nil, apperrors.NotFound("staff not found")
	}
	return &m, nil
}

func (r *StaffRepo) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Staff, error) {
	return r.Get(ctx, id)
}

func (r *StaffRepo) List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error) {
	out := []*model.Staff{}
	for id := range r.Store.StaffMembers {
		m := r.Store.StaffMembers[id]
		out = append(out, &m)
	}
	return out, nil
}

func (r *StaffRepo) Update(ctx context.Context, m *model.Staff) error {
	if _, ok := r.Store.StaffMembers[m.ID]; !ok {
		return apperrors.NotFound("staff not found")
	}
	r.Store.StaffMembers[m.ID] = *m
	return nil
}

func (r *StaffRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.Store.StaffMembers[id]; !ok {
		return apperrors.NotFound("staff not found")
	}
	delete(r.Store.StaffMembers, id)
	return nil
}

func (r *StaffRepo) CountActiveByJobType(ctx context.Context, jobType model.JobType) (int, error) {
	count := 0
	for _, m := range r.Store.StaffMembers {
		if m.Active && m.JobType == jobType {
			count++
		}
	}
	return count, nil
}

func (r *StaffRepo) ListAppointments(ctx context.Context, staffID int64) ([]*model.AppointmentSummary, error) {
	return nil, nil
}

type AppointmentRepo struct {
	Store *Store
}

func (r *AppointmentRepo) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	a, ok := r.Store.Appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment not found")
	}
	return &a, nil
}

func (r *AppointmentRepo) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Appointment, error) {
	return r.Get(ctx, id)
}

func (r *AppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for id := range r.Store.Appointments {
		a := r.Store.Appointments[id]
		out = append(out, &a)
	}
	return out, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	if _, ok := r.Store.Appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment not found")
	}
	r.Store.Appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) Cancel(ctx context.Context, id int64) error {
	a, ok := r.Store.Appointments[id]
	if !ok {
		return apperrors.NotFound("appointment not found")
	}
	a.Status = model.AppointmentStatusCanceled
	r.Store.Appointments[id] = a
	return nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.Store.Appointments[id]; !ok {
		return apperrors.NotFound("appointment not found")
	}
	delete(r.Store.Appointments, id)
	return nil
}

func (r *AppointmentRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, a *model.Appointment) error {
	a.ID = r.Store.nextID()
	r.Store.Appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) HasConflictTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, date time.Time, timeOfDay string) (bool, error) {
	for _, a := range r.Store.Appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) &&
			a.AppointmentTime == timeOfDay && a.Status != model.AppointmentStatusCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (r *AppointmentRepo) HasActiveInRangeTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, start, end time.Time) (bool, error) {
	for _, a := range r.Store.Appointments {
		if a.DoctorID == doctorID && a.Status != model.AppointmentStatusCanceled &&
			!a.AppointmentDate.Before(start) && !a.AppointmentDate.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AppointmentRepo) BookedTimes(ctx context.Context, doctorID int64, date time.Time) ([]string, error) {
	times := []string{}
	for _, a := range r.Store.Appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) && a.Status != model.AppointmentStatusCanceled {
			times = append(times, a.AppointmentTime)
		}
	}
	return times, nil
}

func (r *AppointmentRepo) BookedTimesTx(ctx context.Context, tx *sqlx.Tx, doctorID int64, date time.Time) ([]string, error) {
	return r.BookedTimes(ctx, doctorID, date)
}

func (r *AppointmentRepo) MarkDoneTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	a, ok := r.Store.Appointments[id]
	if !ok {
		return apperrors.NotFound("appointment not found")
	}
	a.Status = model.AppointmentStatusDone
	r.Store.Appointments[id] = a
	return nil
}

func (r *AppointmentRepo) AppendNotesTx(ctx context.Context, tx *sqlx.Tx, id int64, notes string) error {
	a, ok := r.Store.Appointments[id]
	if !ok {
		return apperrors.NotFound("appointment not found")
	}
	if a.Notes == "" {
		a.Notes = notes
	} else {
		a.Notes = a.Notes + "\n" + notes
	}
	r.Store.Appointments[id] = a
	return nil
}

type BillingRepo struct {
	Store *Store
}

func (r *BillingRepo) Get(ctx context.Context, id int64) (*model.Billing, error) {
	b, ok := r.Store.Bills[id]
	if !ok {
		return nil, apperrors.NotFound("billing record not found")
	}
	return &b, nil
}

func (r *BillingRepo) GetByAppointment(ctx context.Context, appointmentID int64) (*model.Billing, error) {
	b, ok := r.Store.BillForAppointment(appointmentID)
	if !ok {
		return nil, apperrors.NotFound("billing record not found")
	}
	return &b, nil
}

func (r *BillingRepo) List(ctx context.Context, filters *model.BillingFilters) ([]*model.Billing, error) {
	out := []*model.Billing{}
	for id := range r.Store.Bills {
		b := r.Store.Bills[id]
		out = append(out, &b)
	}
	return out, nil
}

func (r *BillingRepo) Update(ctx context.Context, b *model.Billing) error {
	if _, ok := r.Store.Bills[b.ID]; !ok {
		return apperrors.NotFound("billing record not found")
	}
	r.Store.Bills[b.ID] = *b
	return nil
}

func (r *BillingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, b *model.Billing) error {
	b.ID = r.Store.nextID()
	r.Store.Bills[b.ID] = *b
	return nil
}

func (r *BillingRepo) UpdateAmountByAppointmentTx(ctx context.Context, tx *sqlx.Tx, appointmentID int64, amount float64) error {
	b, ok := r.Store.BillForAppointment(appointmentID)
	if !ok {
		created := model.Billing{
			ID:            r.Store.nextID(),
			AppointmentID: appointmentID,
			Amount:        amount,
			PaymentStatus: model.PaymentStatusPending,
		}
		r.Store.Bills[created.ID] = created
		return nil
	}
	b.Amount = amount
	r.Store.Bills[b.ID] = b
	return nil
}

type InventoryRepo struct {
	Store *Store
	// RestockErrFor injects a failure for specific item IDs.
	RestockErrFor map[int64]error
}

func (r *InventoryRepo) Create(ctx context.Context, i *model.InventoryItem) error {
	i.ID = r.Store.nextID()
	r.Store.Items[i.ID] = *i
	return nil
}

func (r *InventoryRepo) Get(ctx context.Context, id int64) (*model.InventoryItem, error) {
	i, ok := r.Store.Items[id]
	if !ok {
		return nil, apperrors.NotFound("inventory item not found")
	}
	return &i, nil
}

func (r *InventoryRepo) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.InventoryItem, error) {
	return r.Get(ctx, id)
}

func (r *InventoryRepo) List(ctx context.Context, filters *model.InventoryFilters) ([]*model.InventoryItem, error) {
	return r.ListAll(ctx)
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]*model.InventoryItem, error) {
	out := []*model.InventoryItem{}
	for id := int64(0); id < r.Store.NextID; id++ {
		if i, ok := r.Store.Items[id]; ok {
			item := i
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r *InventoryRepo) Update(ctx context.Context, i *model.InventoryItem) error {
	if _, ok := r.Store.Items[i.ID]; !ok {
		return apperrors.NotFound("inventory item not found")
	}
	r.Store.Items[i.ID] = *i
	return nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.Store.Items[id]; !ok {
		return apperrors.NotFound("inventory item not found")
	}
	delete(r.Store.Items, id)
	return nil
}

func (r *InventoryRepo) AdjustStockTx(ctx context.Context, tx *sqlx.Tx, id int64, delta int) error {
	i, ok := r.Store.Items[id]
	if !ok {
		return apperrors.NotFound("inventory item not found")
	}
	if i.Quantity+delta < 0 {
		return apperrors.Conflict("insufficient stock")
	}
	i.Quantity += delta
	r.Store.Items[id] = i
	return nil
}

func (r *InventoryRepo) RestockTx(ctx context.Context, tx *sqlx.Tx, id int64, quantity int, restockedAt time.Time) error {
	if err, ok := r.RestockErrFor[id]; ok {
		return err
	}
	i, ok := r.Store.Items[id]
	if !ok {
		return apperrors.NotFound("inventory item not found")
	}
	i.Quantity += quantity
	t := restockedAt
	i.LastRestocked = &t
	r.Store.Items[id] = i
	return nil
}

func (r *InventoryRepo) UpdateSupplierTx(ctx context.Context, tx *sqlx.Tx, id int64, supplierInfo string) error {
	i, ok := r.Store.Items[id]
	if !ok {
		return apperrors.NotFound("inventory item not found")
	}
	i.SupplierInfo = supplierInfo
	r.Store.Items[id] = i
	return nil
}

type UsageRepo struct {
	Store *Store
}

func (r *UsageRepo) UpsertUsageTx(ctx context.Context, tx *sqlx.Tx, appointmentID, inventoryID int64, quantity int) error {
	for idx, u := range r.Store.Usage {
		if u.AppointmentID == appointmentID && u.InventoryID == inventoryID {
			r.Store.Usage[idx].QuantityUsed += quantity
			return nil
		}
	}
	r.Store.Usage = append(r.Store.Usage, model.AppointmentInventory{
		ID:            r.Store.nextID(),
		AppointmentID: appointmentID,
		InventoryID:   inventoryID,
		QuantityUsed:  quantity,
	})
	return nil
}

func (r *UsageRepo) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.AppointmentInventory, error) {
	out := []*model.AppointmentInventory{}
	for idx := range r.Store.Usage {
		if r.Store.Usage[idx].AppointmentID == appointmentID {
			u := r.Store.Usage[idx]
			out = append(out, &u)
		}
	}
	return out, nil
}

type RosterRepo struct {
	Store *Store
}

func (r *RosterRepo) CreateShiftTx(ctx context.Context, tx *sqlx.Tx, shift *model.StaffShift) error {
	shift.ID = r.Store.nextID()
	r.Store.Shifts = append(r.Store.Shifts, *shift)
	return nil
}

func (r *RosterRepo) ListShifts(ctx context.Context, staffID int64, from, to time.Time) ([]*model.StaffShift, error) {
	out := []*model.StaffShift{}
	for idx := range r.Store.Shifts {
		s := r.Store.Shifts[idx]
		if s.StaffID == staffID && !s.ShiftDate.Before(from) && !s.ShiftDate.After(to) {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *RosterRepo) HasShiftTx(ctx context.Context, tx *sqlx.Tx, staffID int64, date time.Time, shiftType string) (bool, error) {
	for _, s := range r.Store.Shifts {
		if s.StaffID == staffID && s.ShiftDate.Equal(date) && s.ShiftType == shiftType {
			return true, nil
		}
	}
	return false, nil
}

func (r *RosterRepo) CreateTimeOffTx(ctx context.Context, tx *sqlx.Tx, req *model.TimeOffRequest) error {
	req.ID = r.Store.nextID()
	r.Store.TimeOff = append(r.Store.TimeOff, *req)
	return nil
}

func (r *RosterRepo) HasTimeOffOverlapTx(ctx context.Context, tx *sqlx.Tx, staffID int64, start, end time.Time) (bool, error) {
	for _, t := range r.Store.TimeOff {
		if t.StaffID == staffID && t.Status == model.TimeOffStatusApproved &&
			!t.StartDate.After(end) && !t.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *RosterRepo) ListTimeOff(ctx context.Context, staffID int64) ([]*model.TimeOffRequest, error) {
	out := []*model.TimeOffRequest{}
	for idx := range r.Store.TimeOff {
		t := r.Store.TimeOff[idx]
		if t.StaffID == staffID {
			out = append(out, &t)
		}
	}
	return out, nil
}

type FeedbackRepo struct {
	Store *Store
}

func (r *FeedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	fb.ID = r.Store.nextID()
	fb.CreatedAt = time.Now()
	r.Store.Feedback = append(r.Store.Feedback, *fb)
	return nil
}

func (r *FeedbackRepo) Get(ctx context.Context, id int64) (*model.Feedback, error) {
	for idx := range r.Store.Feedback {
		if r.Store.Feedback[idx].ID == id {
			fb := r.Store.Feedback[idx]
			return &fb, nil
		}
	}
	return nil, apperrors.NotFound("feedback not found")
}

func (r *FeedbackRepo) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Feedback, error) {
	out := []*model.Feedback{}
	for idx := range r.Store.Feedback {
		if r.Store.Feedback[idx].AppointmentID == appointmentID {
			fb := r.Store.Feedback[idx]
			out = append(out, &fb)
		}
	}
	return out, nil
}

func (r *FeedbackRepo) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Feedback, error) {
	out := []*model.Feedback{}
	for idx := range r.Store.Feedback {
		apt, ok := r.Store.Appointments[r.Store.Feedback[idx].AppointmentID]
		if ok && apt.DoctorID == doctorID {
			fb := r.Store.Feedback[idx]
			out = append(out, &fb)
		}
	}
	return out, nil
}

type OutboxRepo struct {
	Store *Store
	// CreateErr injects a failure when it returns non-nil for an event.
	CreateErr func(event *model.OutboxEvent) error
}

func (r *OutboxRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	if r.CreateErr != nil {
		if err := r.CreateErr(event); err != nil {
			return err
		}
	}
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	r.Store.Events = append(r.Store.Events, *event)
	return nil
}

func (r *OutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	out := []*model.OutboxEvent{}
	for idx := range r.Store.Events {
		if r.Store.Events[idx].Status == model.OutboxStatusPending && len(out) < limit {
			e := r.Store.Events[idx]
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *OutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	for idx := range r.Store.Events {
		if r.Store.Events[idx].ID == id {
			r.Store.Events[idx].Status = status
			r.Store.Events[idx].ErrorMessage = errMsg
			return nil
		}
	}
	return apperrors.NotFound("event not found")
}

func (r *OutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	kept := r.Store.Events[:0]
	var deleted int64
	for _, e := range r.Store.Events {
		if e.Status == model.OutboxStatusCompleted && e.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.Store.Events = kept
	return deleted, nil
}

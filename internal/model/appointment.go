package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusNotDone  AppointmentStatus = "Not Done"
	AppointmentStatusDone     AppointmentStatus = "Done"
	AppointmentStatusCanceled AppointmentStatus = "Canceled"
)

type VisitType string

const (
	VisitTypeCheckup   VisitType = "Check-up"
	VisitTypeProcedure VisitType = "Procedure"
	VisitTypeEmergency VisitType = "Emergency"
	VisitTypeFollowUp  VisitType = "Follow-up"
)

// DefaultDurationMinutes is applied when a scheduling request carries no
// duration.
const DefaultDurationMinutes = 30

// VisitFee returns the base consultation fee for a visit type. Unknown
// types fall back to the check-up fee.
func VisitFee(visitType VisitType) float64 {
	switch visitType {
	case VisitTypeCheckup:
		return 500
	case VisitTypeProcedure:
		return 1500
	case VisitTypeEmergency:
		return 2000
	default:
		return 500
	}
}

type Appointment struct {
	ID              int64             `db:"id" json:"id"`
	PatientID       int64             `db:"patient_id" json:"patient_id"`
	DoctorID        int64             `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string            `db:"appointment_time" json:"appointment_time"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	VisitType       VisitType         `db:"visit_type" json:"visit_type"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentSummary is the joined row returned by patient and staff
// detail lookups.
type AppointmentSummary struct {
	ID              int64             `db:"id" json:"id"`
	PatientID       int64             `db:"patient_id" json:"patient_id"`
	PatientName     string            `db:"patient_name" json:"patient_name"`
	DoctorID        int64             `db:"doctor_id" json:"doctor_id"`
	DoctorName      string            `db:"doctor_name" json:"doctor_name"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string            `db:"appointment_time" json:"appointment_time"`
	VisitType       VisitType         `db:"visit_type" json:"visit_type"`
	Status          AppointmentStatus `db:"status" json:"status"`
}

type ScheduleAppointmentRequest struct {
	PatientID       int64     `json:"patient_id" binding:"required"`
	DoctorID        int64     `json:"doctor_id" binding:"required"`
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
	AppointmentTime string    `json:"appointment_time" binding:"required,timeslot"`
	DurationMinutes int       `json:"duration_minutes"`
	VisitType       VisitType `json:"visit_type" binding:"required,visittype"`
	Notes           string    `json:"notes"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *time.Time         `json:"appointment_date"`
	AppointmentTime *string            `json:"appointment_time"`
	DurationMinutes *int               `json:"duration_minutes"`
	VisitType       *VisitType         `json:"visit_type"`
	Status          *AppointmentStatus `json:"status"`
	Notes           *string            `json:"notes"`
}

type AppointmentFilters struct {
	PatientID int64
	DoctorID  int64
	Date      *time.Time
	Status    AppointmentStatus
}

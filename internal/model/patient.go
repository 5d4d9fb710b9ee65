package model

import (
	"time"
)

type Patient struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	BirthDate       time.Time  `db:"birth_date" json:"birth_date"`
	Phone           string     `db:"phone" json:"phone"`
	Email           string     `db:"email" json:"email"`
	InsuranceInfo   string     `db:"insurance_info" json:"insurance_info"`
	FirstVisitDate  *time.Time `db:"first_visit_date" json:"first_visit_date,omitempty"`
	PrimaryDoctorID *int64     `db:"primary_doctor_id" json:"primary_doctor_id,omitempty"`
	Active          bool       `db:"active" json:"active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type CreatePatientRequest struct {
	Name            string     `json:"name" binding:"required,max=255"`
	BirthDate       time.Time  `json:"birth_date" binding:"required"`
	Phone           string     `json:"phone" binding:"max=32"`
	Email           string     `json:"email" binding:"omitempty,email"`
	InsuranceInfo   string     `json:"insurance_info"`
	FirstVisitDate  *time.Time `json:"first_visit_date"`
	PrimaryDoctorID *int64     `json:"primary_doctor_id"`
}

type UpdatePatientRequest struct {
	Name            *string    `json:"name"`
	BirthDate       *time.Time `json:"birth_date"`
	Phone           *string    `json:"phone"`
	Email           *string    `json:"email"`
	InsuranceInfo   *string    `json:"insurance_info"`
	FirstVisitDate  *time.Time `json:"first_visit_date"`
	PrimaryDoctorID *int64     `json:"primary_doctor_id"`
	Active          *bool      `json:"active"`
}

type PatientFilters struct {
	Name      string
	Insurance string
	Active    *bool
}

// PatientWithAppointments bundles a patient with their visit history.
type PatientWithAppointments struct {
	Patient      *Patient              `json:"patient"`
	Appointments []*AppointmentSummary `json:"appointments"`
}

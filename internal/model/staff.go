package model

import (
	"time"
)

type JobType string

const (
	JobTypeDoctor JobType = "Doctor"
	JobTypeNurse  JobType = "Nurse"
	JobTypeAdmin  JobType = "Admin"
)

type Staff struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	JobType        JobType   `db:"job_type" json:"job_type"`
	Specialization string    `db:"specialization" json:"specialization"`
	LicenseNumber  string    `db:"license_number" json:"license_number"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email"`
	HireDate       time.Time `db:"hire_date" json:"hire_date"`
	WorkingDays    string    `db:"working_days" json:"working_days"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreateStaffRequest struct {
	Name           string    `json:"name" binding:"required,max=255"`
	JobType        JobType   `json:"job_type" binding:"required,jobtype"`
	Specialization string    `json:"specialization"`
	LicenseNumber  string    `json:"license_number"`
	Phone          string    `json:"phone" binding:"max=32"`
	Email          string    `json:"email" binding:"omitempty,email"`
	HireDate       time.Time `json:"hire_date" binding:"required"`
	WorkingDays    string    `json:"working_days"`
}

type UpdateStaffRequest struct {
	Name           *string  `json:"name"`
	JobType        *JobType `json:"job_type"`
	Specialization *string  `json:"specialization"`
	LicenseNumber  *string  `json:"license_number"`
	Phone          *string  `json:"phone"`
	Email          *string  `json:"email"`
	WorkingDays    *string  `json:"working_days"`
	Active         *bool    `json:"active"`
}

type StaffFilters struct {
	JobType        JobType
	Specialization string
	Active         *bool
}

// StaffWithAppointments bundles a staff member with the appointments they
// hold as doctor.
type StaffWithAppointments struct {
	Staff        *Staff                `json:"staff"`
	Appointments []*AppointmentSummary `json:"appointments"`
}

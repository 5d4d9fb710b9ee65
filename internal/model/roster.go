package model

import (
	"time"
)

type StaffShift struct {
	ID        int64     `db:"id" json:"id"`
	StaffID   int64     `db:"staff_id" json:"staff_id"`
	ShiftDate time.Time `db:"shift_date" json:"shift_date"`
	ShiftType string    `db:"shift_type" json:"shift_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type TimeOffStatus string

const (
	TimeOffStatusApproved TimeOffStatus = "Approved"
	TimeOffStatusRejected TimeOffStatus = "Rejected"
)

type TimeOffRequest struct {
	ID        int64         `db:"id" json:"id"`
	StaffID   int64         `db:"staff_id" json:"staff_id"`
	StartDate time.Time     `db:"start_date" json:"start_date"`
	EndDate   time.Time     `db:"end_date" json:"end_date"`
	Reason    string        `db:"reason" json:"reason"`
	Status    TimeOffStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

type ScheduleShiftRequest struct {
	ShiftDate time.Time `json:"shift_date" binding:"required"`
	ShiftType string    `json:"shift_type" binding:"required"`
}

type RequestTimeOffRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    string    `json:"reason"`
}

package model

import (
	"time"
)

type Feedback struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id"`
	Rating        int       `db:"rating" json:"rating"`
	Comments      string    `db:"comments" json:"comments"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type CreateFeedbackRequest struct {
	AppointmentID int64  `json:"appointment_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comments      string `json:"comments" binding:"max=2000"`
}

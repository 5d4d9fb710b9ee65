package model

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusWaived  PaymentStatus = "Waived"
)

type Billing struct {
	ID            int64         `db:"id" json:"id"`
	AppointmentID int64         `db:"appointment_id" json:"appointment_id"`
	Amount        float64       `db:"amount" json:"amount"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentMethod string        `db:"payment_method" json:"payment_method"`
	PaymentDate   *time.Time    `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Overdue reports whether the bill is still awaiting payment.
func (b *Billing) Overdue() bool {
	return b.PaymentStatus == PaymentStatusPending
}

type UpdateBillingRequest struct {
	Amount        *float64       `json:"amount"`
	PaymentStatus *PaymentStatus `json:"payment_status"`
	PaymentMethod *string        `json:"payment_method"`
	PaymentDate   *time.Time     `json:"payment_date"`
}

type BillingFilters struct {
	AppointmentID int64
	PaymentStatus PaymentStatus
}

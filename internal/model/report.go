package model

import (
	"time"
)

type RevenueReport struct {
	From          time.Time          `json:"from"`
	To            time.Time          `json:"to"`
	TotalBilled   float64            `json:"total_billed"`
	TotalPaid     float64            `json:"total_paid"`
	TotalPending  float64            `json:"total_pending"`
	ByVisitType   map[string]float64 `json:"by_visit_type"`
	PaidInvoices  int                `json:"paid_invoices"`
	TotalInvoices int                `json:"total_invoices"`
}

type AppointmentVolumeRow struct {
	Date      time.Time `db:"date" json:"date"`
	Total     int       `db:"total" json:"total"`
	Completed int       `db:"completed" json:"completed"`
	Canceled  int       `db:"canceled" json:"canceled"`
}

type DoctorLoadRow struct {
	DoctorID     int64   `db:"doctor_id" json:"doctor_id"`
	DoctorName   string  `db:"doctor_name" json:"doctor_name"`
	Appointments int     `db:"appointments" json:"appointments"`
	Completed    int     `db:"completed" json:"completed"`
	AvgRating    float64 `db:"avg_rating" json:"avg_rating"`
}

type LowStockRow struct {
	InventoryID int64  `db:"id" json:"inventory_id"`
	Name        string `db:"name" json:"name"`
	Category    string `db:"category" json:"category"`
	Quantity    int    `db:"quantity" json:"quantity"`
	Threshold   int    `db:"reorder_threshold" json:"threshold"`
}

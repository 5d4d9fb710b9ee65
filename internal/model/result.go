package model

import (
	"time"
)

// Workflow entry points report outcomes through result structs rather
// than errors: a failed workflow is a normal business outcome and the
// transaction has already been rolled back by the time the caller sees
// it.

type SchedulingResult struct {
	OK            bool    `json:"ok"`
	Message       string  `json:"message"`
	AppointmentID int64   `json:"appointment_id,omitempty"`
	Fee           float64 `json:"fee,omitempty"`
}

type VisitResult struct {
	OK                bool    `json:"ok"`
	Message           string  `json:"message"`
	AppointmentID     int64   `json:"appointment_id,omitempty"`
	TotalBill         float64 `json:"total_bill,omitempty"`
	FollowUpID        int64   `json:"follow_up_id,omitempty"`
	FollowUpScheduled bool    `json:"follow_up_scheduled"`
}

type SweepResult struct {
	OK           bool          `json:"ok"`
	Message      string        `json:"message"`
	ItemsChecked int           `json:"items_checked"`
	Orders       []SweepOrder  `json:"orders"`
	Errors       []SweepError  `json:"errors,omitempty"`
	ExpiredItems []ExpiredItem `json:"expired_items,omitempty"`
}

type SweepOrder struct {
	InventoryID int64  `json:"inventory_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	OrderedQty  int    `json:"ordered_qty"`
}

type SweepError struct {
	InventoryID int64  `json:"inventory_id"`
	Reason      string `json:"reason"`
}

type ExpiredItem struct {
	InventoryID int64     `json:"inventory_id"`
	Name        string    `json:"name"`
	ExpiryDate  time.Time `json:"expiry_date"`
}

type RestockResult struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message"`
	InventoryID int64  `json:"inventory_id,omitempty"`
	NewQuantity int    `json:"new_quantity,omitempty"`
}

type UsageResult struct {
	OK            bool           `json:"ok"`
	Message       string         `json:"message"`
	AppointmentID int64          `json:"appointment_id,omitempty"`
	ReorderAlerts []ReorderAlert `json:"reorder_alerts,omitempty"`
}

type ReorderAlert struct {
	InventoryID int64  `json:"inventory_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Threshold   int    `json:"threshold"`
}

type ShiftResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	ShiftID int64  `json:"shift_id,omitempty"`
	// Warning flags a scheduled shift that still leaves the clinic
	// below minimum coverage.
	Warning string `json:"warning,omitempty"`
}

type TimeOffResult struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	RequestID int64  `json:"request_id,omitempty"`
}

// CoverageReport tallies active staff by job type against minimum
// staffing levels.
type CoverageReport struct {
	Date      time.Time `json:"date"`
	Doctors   int       `json:"doctors"`
	Nurses    int       `json:"nurses"`
	Admins    int       `json:"admins"`
	Adequate  bool      `json:"adequate"`
	Shortfall []string  `json:"shortfall,omitempty"`
}

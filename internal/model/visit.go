package model

import (
	"time"
)

// ProcessVisitRequest captures everything recorded when a patient visit
// is closed out. Vital signs, diagnosis, and treatment are appended to
// the appointment's notes; the base charge (if any) overrides the
// standard fee for the visit type.
type ProcessVisitRequest struct {
	AppointmentID int64             `json:"appointment_id" binding:"required"`
	VitalSigns    map[string]string `json:"vital_signs"`
	Diagnosis     string            `json:"diagnosis"`
	Treatment     string            `json:"treatment"`
	VisitNotes    string            `json:"visit_notes"`
	ItemsUsed     []ItemUsage       `json:"items_used" binding:"dive"`
	BaseCharge    float64           `json:"base_charge" binding:"min=0"`
	FollowUp      *FollowUp         `json:"follow_up"`
}

// FollowUp describes the follow-up appointment requested at the end of
// a visit. It is scheduled in the same transaction as the visit itself.
type FollowUp struct {
	Date            time.Time `json:"date" binding:"required"`
	Time            string    `json:"time" binding:"required,timeslot"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
}

// RestockRequest adds stock to an inventory item. SupplierInfo, when
// present, replaces the item's supplier descriptor.
type RestockRequest struct {
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	SupplierInfo string `json:"supplier_info"`
}

// RecordUsageRequest attributes inventory consumption to an appointment
// outside of visit processing.
type RecordUsageRequest struct {
	ItemsUsed []ItemUsage `json:"items_used" binding:"required,dive"`
}

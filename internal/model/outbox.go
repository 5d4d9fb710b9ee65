package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusCompleted  OutboxStatus = "completed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

const (
	EventTypeAppointmentScheduled = "appointment.scheduled"
	EventTypeAppointmentCompleted = "appointment.completed"
	EventTypeReorderPlaced        = "inventory.reorder_placed"
	EventTypeShiftAssigned        = "staff.shift_assigned"
	EventTypeTimeOffApproved      = "staff.time_off_approved"
)

// OutboxEvent is a notification written in the same transaction as the
// state change it announces, relayed to the broker by the worker.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

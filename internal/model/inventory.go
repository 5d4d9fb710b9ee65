package model

import (
	"time"
)

type InventoryItem struct {
	ID               int64      `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Category         string     `db:"category" json:"category"`
	Quantity         int        `db:"quantity" json:"quantity"`
	Unit             string     `db:"unit" json:"unit"`
	ReorderThreshold int        `db:"reorder_threshold" json:"reorder_threshold"`
	UnitPrice        float64    `db:"unit_price" json:"unit_price"`
	SupplierInfo     string     `db:"supplier_info" json:"supplier_info"`
	ExpiryDate       *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	LastRestocked    *time.Time `db:"last_restocked" json:"last_restocked,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// NeedsReorder reports whether quantity has fallen to or below the
// reorder threshold.
func (i *InventoryItem) NeedsReorder() bool {
	return i.Quantity <= i.ReorderThreshold
}

// Expired reports whether the item's expiry date has passed.
func (i *InventoryItem) Expired(now time.Time) bool {
	return i.ExpiryDate != nil && i.ExpiryDate.Before(now)
}

type CreateInventoryItemRequest struct {
	Name             string     `json:"name" binding:"required,max=255"`
	Category         string     `json:"category"`
	Quantity         int        `json:"quantity" binding:"min=0"`
	Unit             string     `json:"unit"`
	ReorderThreshold int        `json:"reorder_threshold" binding:"min=0"`
	UnitPrice        float64    `json:"unit_price" binding:"min=0"`
	SupplierInfo     string     `json:"supplier_info"`
	ExpiryDate       *time.Time `json:"expiry_date"`
}

type UpdateInventoryItemRequest struct {
	Name             *string    `json:"name"`
	Category         *string    `json:"category"`
	Quantity         *int       `json:"quantity"`
	Unit             *string    `json:"unit"`
	ReorderThreshold *int       `json:"reorder_threshold"`
	UnitPrice        *float64   `json:"unit_price"`
	SupplierInfo     *string    `json:"supplier_info"`
	ExpiryDate       *time.Time `json:"expiry_date"`
}

type InventoryFilters struct {
	Category string
	LowStock bool
	Expired  bool
}

// AppointmentInventory records consumption of an inventory item during
// a visit.
type AppointmentInventory struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id"`
	InventoryID   int64     `db:"inventory_id" json:"inventory_id"`
	QuantityUsed  int       `db:"quantity_used" json:"quantity_used"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ItemUsage is a single line of requested consumption.
type ItemUsage struct {
	InventoryID int64 `json:"inventory_id" binding:"required"`
	Quantity    int   `json:"quantity" binding:"required,min=1"`
}

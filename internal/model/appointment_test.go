package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinicnexus/clinic-api/internal/model"
)

func TestVisitFee(t *testing.T) {
	tests := []struct {
		visitType model.VisitType
		fee       float64
	}{
		{model.VisitTypeCheckup, 500},
		{model.VisitTypeProcedure, 1500},
		{model.VisitTypeEmergency, 2000},
		{model.VisitTypeFollowUp, 500},
		{model.VisitType("House call"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fee, model.VisitFee(tt.visitType), string(tt.visitType))
	}
}

func TestInventoryItemNeedsReorder(t *testing.T) {
	item := model.InventoryItem{Quantity: 10, ReorderThreshold: 10}
	assert.True(t, item.NeedsReorder())

	item.Quantity = 11
	assert.False(t, item.NeedsReorder())

	item.Quantity = 0
	assert.True(t, item.NeedsReorder())
}

func TestInventoryItemExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	var item model.InventoryItem
	assert.False(t, item.Expired(now))

	past := now.AddDate(0, 0, -1)
	item.ExpiryDate = &past
	assert.True(t, item.Expired(now))

	future := now.AddDate(0, 1, 0)
	item.ExpiryDate = &future
	assert.False(t, item.Expired(now))
}

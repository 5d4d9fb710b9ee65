package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

// minimumOrderQuantity is the floor for any automatic reorder.
const minimumOrderQuantity = 50

type Service struct {
	txRunner     repository.TxRunner
	inventory    repository.InventoryRepository
	usage        repository.AppointmentInventoryRepository
	appointments repository.AppointmentRepository
	notifier     notify.Notifier
	auditor      audit.Recorder
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	txRunner repository.TxRunner,
	inventory repository.InventoryRepository,
	usage repository.AppointmentInventoryRepository,
	appointments repository.AppointmentRepository,
	notifier notify.Notifier,
	auditor audit.Recorder,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		txRunner:     txRunner,
		inventory:    inventory,
		usage:        usage,
		appointments: appointments,
		notifier:     notifier,
		auditor:      auditor,
		metrics:      m,
		logger:       logger,
	}
}

// OrderQuantity computes how much to order for an item that has hit its
// reorder threshold: twice the threshold, with a floor.
func OrderQuantity(threshold int) int {
	qty := 2 * threshold
	if qty < minimumOrderQuantity {
		qty = minimumOrderQuantity
	}
	return qty
}

// Sweep scans the whole inventory and places an automatic reorder for
// every item at or below its threshold. Placing an order queues a
// supplier notification and leaves an audit trail; quantities only
// change when the delivery arrives and is recorded through Restock.
// Each item is handled in its own transaction: one failure is recorded
// and the sweep moves on, so a single bad row cannot block reordering
// of everything else.
func (s *Service) Sweep(ctx context.Context) *model.SweepResult {
	start := time.Now()
	result := &model.SweepResult{Orders: []model.SweepOrder{}}

	items, err := s.inventory.ListAll(ctx)
	if err != nil {
		s.metrics.WorkflowRuns.WithLabelValues("sweep", "rejected").Inc()
		result.OK = false
		result.Message = fmt.Sprintf("failed to load inventory: %v", err)
		return result
	}
	result.ItemsChecked = len(items)

	now := time.Now()
	for _, item := range items {
		if item.Expired(now) {
			result.ExpiredItems = append(result.ExpiredItems, model.ExpiredItem{
				InventoryID: item.ID,
				Name:        item.Name,
				ExpiryDate:  *item.ExpiryDate,
			})
		}
		if !item.NeedsReorder() {
			continue
		}

		orderQty := OrderQuantity(item.ReorderThreshold)
		err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
			return s.notifier.NotifyTx(ctx, tx, model.EventTypeReorderPlaced, map[string]interface{}{
				"inventory_id": item.ID,
				"name":         item.Name,
				"quantity":     item.Quantity,
				"ordered_qty":  orderQty,
				"supplier":     item.SupplierInfo,
			})
		})
		if err != nil {
			s.metrics.SweepItemErrors.Inc()
			result.Errors = append(result.Errors, model.SweepError{
				InventoryID: item.ID,
				Reason:      err.Error(),
			})
			s.logger.Error().Err(err).Int64("inventory_id", item.ID).Msg("sweep item failed")
			continue
		}

		s.metrics.SweepItemsOrdered.Inc()
		result.Orders = append(result.Orders, model.SweepOrder{
			InventoryID: item.ID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			OrderedQty:  orderQty,
		})
		s.auditor.Record(ctx, "auto_reorder", "inventory", item.ID,
			fmt.Sprintf("ordered=%d threshold=%d", orderQty, item.ReorderThreshold))
	}

	s.metrics.WorkflowRuns.WithLabelValues("sweep", "success").Inc()
	s.metrics.WorkflowDuration.WithLabelValues("sweep").Observe(time.Since(start).Seconds())
	result.OK = true
	result.Message = fmt.Sprintf("sweep complete: %d ordered, %d failed", len(result.Orders), len(result.Errors))
	return result
}

// Restock adds delivered stock to an item and stamps the restock time.
// A non-empty supplierInfo replaces the item's supplier descriptor in
// the same transaction.
func (s *Service) Restock(ctx context.Context, inventoryID int64, quantity int, supplierInfo string) *model.RestockResult {
	result := &model.RestockResult{}
	if quantity <= 0 {
		result.OK = false
		result.Message = "restock quantity must be positive"
		return result
	}

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.inventory.RestockTx(ctx, tx, inventoryID, quantity, time.Now()); err != nil {
			return err
		}
		if supplierInfo != "" {
			if err := s.inventory.UpdateSupplierTx(ctx, tx, inventoryID, supplierInfo); err != nil {
				return err
			}
		}
		item, err := s.inventory.GetTx(ctx, tx, inventoryID)
		if err != nil {
			return err
		}
		result.InventoryID = item.ID
		result.NewQuantity = item.Quantity
		return nil
	})
	if err != nil {
		s.metrics.WorkflowRuns.WithLabelValues("restock", "rejected").Inc()
		result.OK = false
		result.Message = err.Error()
		return result
	}

	s.metrics.WorkflowRuns.WithLabelValues("restock", "success").Inc()
	s.auditor.Record(ctx, "restock", "inventory", inventoryID, fmt.Sprintf("added=%d", quantity))
	result.OK = true
	result.Message = "restocked"
	return result
}

// RecordUsage attributes supply consumption to an appointment outside of
// visit processing, decrementing stock and reporting any items that fell
// to their reorder threshold as a consequence.
func (s *Service) RecordUsage(ctx context.Context, appointmentID int64, items []model.ItemUsage) *model.UsageResult {
	result := &model.UsageResult{}

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.appointments.GetTx(ctx, tx, appointmentID); err != nil {
			return fmt.Errorf("appointment not found")
		}

		for _, line := range items {
			item, err := s.inventory.GetTx(ctx, tx, line.InventoryID)
			if err != nil {
				return fmt.Errorf("inventory item %d not found", line.InventoryID)
			}
			if item.Quantity < line.Quantity {
				return fmt.Errorf("insufficient stock for %s: have %d, need %d", item.Name, item.Quantity, line.Quantity)
			}
			if err := s.inventory.AdjustStockTx(ctx, tx, item.ID, -line.Quantity); err != nil {
				return err
			}
			if err := s.usage.UpsertUsageTx(ctx, tx, appointmentID, item.ID, line.Quantity); err != nil {
				return err
			}

			remaining := item.Quantity - line.Quantity
			if remaining <= item.ReorderThreshold {
				result.ReorderAlerts = append(result.ReorderAlerts, model.ReorderAlert{
					InventoryID: item.ID,
					Name:        item.Name,
					Quantity:    remaining,
					Threshold:   item.ReorderThreshold,
				})
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.WorkflowRuns.WithLabelValues("usage", "rejected").Inc()
		result.OK = false
		result.Message = err.Error()
		result.ReorderAlerts = nil
		return result
	}

	s.metrics.WorkflowRuns.WithLabelValues("usage", "success").Inc()
	s.auditor.Record(ctx, "record_usage", "appointment", appointmentID, fmt.Sprintf("items=%d", len(items)))
	result.OK = true
	result.Message = "usage recorded"
	result.AppointmentID = appointmentID
	return result
}

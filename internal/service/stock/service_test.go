package stock_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository/repositorytest"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	"github.com/clinicnexus/clinic-api/internal/service/stock"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

var testMetrics = metrics.New("stock_test")

type env struct {
	store     *repositorytest.Store
	runner    *repositorytest.TxRunner
	inventory *repositorytest.InventoryRepo
	outbox    *repositorytest.OutboxRepo
	service   *stock.Service
}

func newEnv() *env {
	store := repositorytest.NewStore()
	runner := &repositorytest.TxRunner{Store: store}
	inventory := &repositorytest.InventoryRepo{Store: store}
	outbox := &repositorytest.OutboxRepo{Store: store}
	svc := stock.NewService(
		runner,
		inventory,
		&repositorytest.UsageRepo{Store: store},
		&repositorytest.AppointmentRepo{Store: store},
		notify.NewService(outbox),
		audit.NewService(zerolog.Nop()),
		testMetrics,
		zerolog.Nop(),
	)
	return &env{store: store, runner: runner, inventory: inventory, outbox: outbox, service: svc}
}

func TestOrderQuantity(t *testing.T) {
	assert.Equal(t, 50, stock.OrderQuantity(0))
	assert.Equal(t, 50, stock.OrderQuantity(10))
	assert.Equal(t, 50, stock.OrderQuantity(25))
	assert.Equal(t, 60, stock.OrderQuantity(30))
	assert.Equal(t, 200, stock.OrderQuantity(100))
}

func TestSweepOrdersLowItems(t *testing.T) {
	e := newEnv()
	low := e.store.AddItem(model.InventoryItem{Name: "Gloves", Quantity: 5, ReorderThreshold: 20})
	atThreshold := e.store.AddItem(model.InventoryItem{Name: "Masks", Quantity: 30, ReorderThreshold: 30})
	healthy := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 100, ReorderThreshold: 10})

	result := e.service.Sweep(context.Background())

	require.True(t, result.OK)
	assert.Equal(t, 3, result.ItemsChecked)
	require.Len(t, result.Orders, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 50, result.Orders[0].OrderedQty)
	assert.Equal(t, 60, result.Orders[1].OrderedQty)

	// An order is a queued supplier notification; stock only moves when
	// the delivery is recorded through Restock.
	assert.Equal(t, 5, e.store.Items[low].Quantity)
	assert.Equal(t, 30, e.store.Items[atThreshold].Quantity)
	assert.Equal(t, 100, e.store.Items[healthy].Quantity)
	assert.Nil(t, e.store.Items[low].LastRestocked)

	require.Len(t, e.store.Events, 2)
	assert.Equal(t, model.EventTypeReorderPlaced, e.store.Events[0].EventType)
}

func TestSweepContinuesPastFailures(t *testing.T) {
	e := newEnv()
	broken := e.store.AddItem(model.InventoryItem{Name: "Gloves", Quantity: 5, ReorderThreshold: 20})
	fine := e.store.AddItem(model.InventoryItem{Name: "Masks", Quantity: 2, ReorderThreshold: 20})
	e.outbox.CreateErr = func(event *model.OutboxEvent) error {
		if strings.Contains(string(event.Payload), "Gloves") {
			return errors.New("outbox unavailable")
		}
		return nil
	}

	result := e.service.Sweep(context.Background())

	require.True(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, broken, result.Errors[0].InventoryID)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, fine, result.Orders[0].InventoryID)

	// Only the successful order announces a reorder.
	assert.Len(t, e.store.Events, 1)
	assert.Equal(t, 1, e.runner.Rollbacks)
}

func TestSweepReportsExpiredItems(t *testing.T) {
	e := newEnv()
	expiry := time.Now().AddDate(0, -1, 0)
	expired := e.store.AddItem(model.InventoryItem{Name: "Saline", Quantity: 80, ReorderThreshold: 10, ExpiryDate: &expiry})

	result := e.service.Sweep(context.Background())

	require.True(t, result.OK)
	require.Len(t, result.ExpiredItems, 1)
	assert.Equal(t, expired, result.ExpiredItems[0].InventoryID)
	assert.Empty(t, result.Orders)
}

func TestRestock(t *testing.T) {
	e := newEnv()
	id := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 10, ReorderThreshold: 5, SupplierInfo: "MedSupply Co"})

	result := e.service.Restock(context.Background(), id, 40, "")

	require.True(t, result.OK)
	assert.Equal(t, 50, result.NewQuantity)
	assert.Equal(t, 50, e.store.Items[id].Quantity)
	assert.NotNil(t, e.store.Items[id].LastRestocked)
	// Supplier descriptor untouched when the delivery names none.
	assert.Equal(t, "MedSupply Co", e.store.Items[id].SupplierInfo)
}

func TestRestockUpdatesSupplierInfo(t *testing.T) {
	e := newEnv()
	id := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 10, ReorderThreshold: 5, SupplierInfo: "MedSupply Co"})

	result := e.service.Restock(context.Background(), id, 40, "HealthFirst Distributors")

	require.True(t, result.OK)
	assert.Equal(t, 50, e.store.Items[id].Quantity)
	assert.Equal(t, "HealthFirst Distributors", e.store.Items[id].SupplierInfo)
}

func TestRestockRejectsNonPositiveQuantity(t *testing.T) {
	e := newEnv()
	id := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 10, ReorderThreshold: 5})

	result := e.service.Restock(context.Background(), id, 0, "")

	require.False(t, result.OK)
	assert.Equal(t, 10, e.store.Items[id].Quantity)
}

func TestRestockFailureRollsBack(t *testing.T) {
	e := newEnv()
	id := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 10, ReorderThreshold: 5})
	e.inventory.RestockErrFor = map[int64]error{id: errors.New("row locked")}

	result := e.service.Restock(context.Background(), id, 40, "")

	require.False(t, result.OK)
	assert.Equal(t, 10, e.store.Items[id].Quantity)
	assert.Equal(t, 1, e.runner.Rollbacks)
}

func TestRestockUnknownItem(t *testing.T) {
	e := newEnv()

	result := e.service.Restock(context.Background(), 404, 10, "")

	require.False(t, result.OK)
	assert.Contains(t, result.Message, "not found")
}

func TestRecordUsage(t *testing.T) {
	e := newEnv()
	aptID := e.store.AddAppointment(model.Appointment{Status: model.AppointmentStatusNotDone})
	gauze := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 12, ReorderThreshold: 10})

	result := e.service.RecordUsage(context.Background(), aptID, []model.ItemUsage{{InventoryID: gauze, Quantity: 3}})

	require.True(t, result.OK, result.Message)
	assert.Equal(t, 9, e.store.Items[gauze].Quantity)
	require.Len(t, e.store.Usage, 1)

	// 12 - 3 = 9 is at or below the threshold of 10.
	require.Len(t, result.ReorderAlerts, 1)
	assert.Equal(t, gauze, result.ReorderAlerts[0].InventoryID)
	assert.Equal(t, 9, result.ReorderAlerts[0].Quantity)
}

func TestRecordUsageInsufficientStock(t *testing.T) {
	e := newEnv()
	aptID := e.store.AddAppointment(model.Appointment{Status: model.AppointmentStatusNotDone})
	gauze := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 2, ReorderThreshold: 1})

	result := e.service.RecordUsage(context.Background(), aptID, []model.ItemUsage{{InventoryID: gauze, Quantity: 5}})

	require.False(t, result.OK)
	assert.Empty(t, result.ReorderAlerts)
	assert.Equal(t, 2, e.store.Items[gauze].Quantity)
	assert.Empty(t, e.store.Usage)
}

func TestRecordUsageUnknownAppointment(t *testing.T) {
	e := newEnv()
	gauze := e.store.AddItem(model.InventoryItem{Name: "Gauze", Quantity: 10, ReorderThreshold: 1})

	result := e.service.RecordUsage(context.Background(), 404, []model.ItemUsage{{InventoryID: gauze, Quantity: 1}})

	require.False(t, result.OK)
	assert.Contains(t, result.Message, "appointment not found")
}

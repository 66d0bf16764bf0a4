package fulfillment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridha-415/filaops-sub002/internal/erp"
)

func TestCancelOrderRejectedForTerminalStatus(t *testing.T) {
	for _, status := range []erp.SalesOrderStatus{
		erp.OrderStatusShipped,
		erp.OrderStatusCompleted,
		erp.OrderStatusCancelled,
		erp.OrderStatusInProduction,
	} {
		t.Run(string(status), func(t *testing.T) {
			order := testOrder()
			order.Status = status
			backend := &fakeBackend{order: order}
			svc := newTestService(backend)

			_, err := svc.CancelOrder(context.Background(), 1)
			require.Error(t, err)

			var actionErr *ActionError
			assert.ErrorAs(t, err, &actionErr)
			// Rejected client-side: the cancel call never reaches the backend.
			assert.Zero(t, backend.cancelCalls)
		})
	}
}

func TestCancelOrderAllowedStatuses(t *testing.T) {
	for _, status := range []erp.SalesOrderStatus{
		erp.OrderStatusPending,
		erp.OrderStatusConfirmed,
		erp.OrderStatusOnHold,
	} {
		t.Run(string(status), func(t *testing.T) {
			order := testOrder()
			order.Status = status
			backend := &fakeBackend{order: order}
			svc := newTestService(backend)

			result, err := svc.CancelOrder(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, 1, backend.cancelCalls)
			assert.Equal(t, []Resource{ResourceOrder}, result.Affected)
		})
	}
}

func TestAdvanceOrder(t *testing.T) {
	t.Run("forward step", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder()}
		svc := newTestService(backend)

		result, err := svc.AdvanceOrder(context.Background(), 1, erp.OrderStatusInProduction)
		require.NoError(t, err)
		assert.Equal(t, 1, backend.statusCalls)
		assert.Equal(t, []Resource{ResourceOrder}, result.Affected)
	})

	t.Run("backward step never reaches the backend", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder()}
		svc := newTestService(backend)

		_, err := svc.AdvanceOrder(context.Background(), 1, erp.OrderStatusPending)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Zero(t, backend.statusCalls)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder()}
		svc := newTestService(backend)

		_, err := svc.AdvanceOrder(context.Background(), 1, erp.OrderStatusShipped)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Zero(t, backend.statusCalls)
	})
}

func TestGenerateOrderWOs(t *testing.T) {
	t.Run("creates when no work order exists", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder()}
		svc := newTestService(backend)

		result, err := svc.GenerateOrderWOs(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 1, backend.generateCalls)
		assert.ElementsMatch(t, []Resource{ResourceOrder, ResourceProductionOrders}, result.Affected)
	})

	t.Run("rejected when work order already covers the product", func(t *testing.T) {
		backend := &fakeBackend{
			order: testOrder(),
			wos:   []erp.ProductionOrder{{ProductID: 42}},
		}
		svc := newTestService(backend)

		_, err := svc.GenerateOrderWOs(context.Background(), 1)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Zero(t, backend.generateCalls)
	})

	t.Run("rejected without a resolvable product", func(t *testing.T) {
		order := testOrder()
		order.ProductID = nil
		backend := &fakeBackend{order: order}
		svc := newTestService(backend)

		_, err := svc.GenerateOrderWOs(context.Background(), 1)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Zero(t, backend.generateCalls)
	})
}

func TestCreateShortageWO(t *testing.T) {
	short := erp.UnitRequirement{
		ProductID:         50,
		SKU:               "SPOOL-CORE",
		GrossQuantity:     2,
		AvailableQuantity: 4,
		SafetyStock:       1,
		HasBOM:            true,
	}

	t.Run("creates with ceiled shortage quantity", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder(), units: []erp.UnitRequirement{short}}
		svc := newTestService(backend)

		// quantity 3: gross 6, shortage max(0, 6-4+1) = 3
		result, err := svc.CreateShortageWO(context.Background(), 1, 50)
		require.NoError(t, err)
		assert.Equal(t, 1, backend.createWOCalls)
		assert.InDelta(t, 3.0, backend.lastCreateWO.Quantity, 0.0001)
		assert.Equal(t, int64(50), backend.lastCreateWO.ProductID)
		require.NotNil(t, backend.lastCreateWO.SalesOrderID)
		assert.NotEmpty(t, backend.lastCreateWO.Reference)
		assert.ElementsMatch(t, []Resource{ResourceOrder, ResourceProductionOrders, ResourceRequirements}, result.Affected)
	})

	t.Run("fractional shortage rounds up", func(t *testing.T) {
		fractional := short
		fractional.GrossQuantity = 1.5
		fractional.AvailableQuantity = 0
		fractional.SafetyStock = 0
		backend := &fakeBackend{order: testOrder(), units: []erp.UnitRequirement{fractional}}
		svc := newTestService(backend)

		// quantity 3: gross 4.5, shortage 4.5, ceil to 5
		_, err := svc.CreateShortageWO(context.Background(), 1, 50)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, backend.lastCreateWO.Quantity, 0.0001)
	})

	t.Run("rejected without shortage", func(t *testing.T) {
		covered := short
		covered.AvailableQuantity = 100
		backend := &fakeBackend{order: testOrder(), units: []erp.UnitRequirement{covered}}
		svc := newTestService(backend)

		_, err := svc.CreateShortageWO(context.Background(), 1, 50)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Zero(t, backend.createWOCalls)
	})

	t.Run("rejected for bought parts", func(t *testing.T) {
		bought := short
		bought.HasBOM = false
		backend := &fakeBackend{order: testOrder(), units: []erp.UnitRequirement{bought}}
		svc := newTestService(backend)

		_, err := svc.CreateShortageWO(context.Background(), 1, 50)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Zero(t, backend.createWOCalls)
	})

	t.Run("rejected for unknown component", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder(), units: []erp.UnitRequirement{short}}
		svc := newTestService(backend)

		_, err := svc.CreateShortageWO(context.Background(), 1, 999)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Zero(t, backend.createWOCalls)
	})
}

func TestTransitionWorkOrder(t *testing.T) {
	t.Run("valid lifecycle steps", func(t *testing.T) {
		backend := &fakeBackend{
			order: testOrder(),
			wos: []erp.ProductionOrder{
				{ID: 5, Code: "WO-5", ProductID: 42, Status: erp.WOStatusDraft},
				{ID: 6, Code: "WO-6", ProductID: 42, Status: erp.WOStatusInProgress},
			},
		}
		svc := newTestService(backend)

		result, err := svc.TransitionWorkOrder(context.Background(), 1, 5, WORelease)
		require.NoError(t, err)
		assert.ElementsMatch(t, []Resource{ResourceOrder, ResourceProductionOrders}, result.Affected)

		_, err = svc.TransitionWorkOrder(context.Background(), 1, 6, WOComplete)
		require.NoError(t, err)
		assert.Equal(t, []string{"release", "complete"}, backend.woTransitions)
	})

	t.Run("wrong starting status", func(t *testing.T) {
		backend := &fakeBackend{
			order: testOrder(),
			wos:   []erp.ProductionOrder{{ID: 5, Code: "WO-5", Status: erp.WOStatusDraft}},
		}
		svc := newTestService(backend)

		_, err := svc.TransitionWorkOrder(context.Background(), 1, 5, WOStart)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Empty(t, backend.woTransitions)
	})

	t.Run("unlinked work order", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder()}
		svc := newTestService(backend)

		_, err := svc.TransitionWorkOrder(context.Background(), 1, 99, WORelease)
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
	})

	t.Run("unknown transition", func(t *testing.T) {
		backend := &fakeBackend{order: testOrder()}
		svc := newTestService(backend)

		_, err := svc.TransitionWorkOrder(context.Background(), 1, 5, WOTransition("scrap"))
		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
	})
}

func TestShipOrder(t *testing.T) {
	backend := &fakeBackend{order: testOrder()}
	svc := newTestService(backend)

	_, err := svc.ShipOrder(context.Background(), 1, "")
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Zero(t, backend.shipCalls)

	result, err := svc.ShipOrder(context.Background(), 1, "1Z999AA10123456784")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.shipCalls)
	assert.Equal(t, "1Z999AA10123456784", backend.lastShip.TrackingNumber)
	assert.ElementsMatch(t, []Resource{ResourceOrderList, ResourceOrder}, result.Affected)
}

func TestRecordPaymentGeneratesReference(t *testing.T) {
	backend := &fakeBackend{order: testOrder()}
	svc := newTestService(backend)

	result, err := svc.RecordPayment(context.Background(), erp.CreatePaymentRequest{
		OrderID: 1,
		Amount:  decimal.NewFromInt(50),
		Method:  "card",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.payCalls)
	assert.ElementsMatch(t, []Resource{ResourcePayments, ResourceOrder}, result.Affected)
}

func TestDeleteOrder(t *testing.T) {
	backend := &fakeBackend{order: testOrder()}
	svc := newTestService(backend)

	result, err := svc.DeleteOrder(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.deleteCalls)
	assert.Equal(t, []Resource{ResourceOrderList}, result.Affected)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "no can do", UserMessage(&ActionError{Message: "no can do"}))
	assert.Equal(t, "order already shipped", UserMessage(&erp.APIError{Status: 409, Detail: "order already shipped"}))
	assert.NotEmpty(t, UserMessage(assert.AnError))
}

package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/ridha-415/filaops-sub002/internal/erp"
	"github.com/ridha-415/filaops-sub002/internal/shared"
)

// Resource names a backend resource an action invalidates. The caller
// refetches exactly the named set after a successful action.
type Resource string

const (
	ResourceOrder            Resource = "order"
	ResourceProductionOrders Resource = "production_orders"
	ResourcePayments         Resource = "payments"
	ResourceRequirements     Resource = "requirements"
	ResourceOrderList        Resource = "order_list"
)

// ActionResult reports what a successful action touched.
type ActionResult struct {
	Affected []Resource
}

// ActionError is a precondition violation caught before any backend call.
type ActionError struct {
	Message string
}

func (e *ActionError) Error() string { return e.Message }

func rejectf(format string, args ...any) error {
	return &ActionError{Message: fmt.Sprintf(format, args...)}
}

// CancelOrder cancels the order. Rejected locally unless the status still
// allows cancellation; terminal orders never reach the backend.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*ActionResult, error) {
	order, err := s.backend.GetSalesOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if !order.Status.CanCancel() {
		return nil, rejectf("order %s cannot be cancelled in status %s", order.OrderNumber, order.Status)
	}
	if err := s.backend.CancelSalesOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrder}}, nil
}

// AdvanceOrder moves the order one step along the forward status path.
// Backward transitions never reach the backend; the backend may still
// reject the forward step.
func (s *Service) AdvanceOrder(ctx context.Context, orderID int64, next erp.SalesOrderStatus) (*ActionResult, error) {
	order, err := s.backend.GetSalesOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if !order.Status.CanAdvanceTo(next) {
		return nil, rejectf("order %s cannot move from %s to %s", order.OrderNumber, order.Status, next)
	}
	if err := s.backend.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrder}}, nil
}

// GenerateOrderWOs asks the backend to create production orders for the
// order's products. Rejected when the product is unresolvable or every
// product already has a linked work order.
func (s *Service) GenerateOrderWOs(ctx context.Context, orderID int64) (*ActionResult, error) {
	order, err := s.backend.GetSalesOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if _, ok := MainProductID(order); !ok {
		return nil, rejectf("order %s has no resolvable product", order.OrderNumber)
	}
	wos, err := s.backend.ListProductionOrders(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	if HasMainProductWO(order, wos) {
		return nil, rejectf("order %s already has work orders for its products", order.OrderNumber)
	}
	if _, err := s.backend.GenerateProductionOrders(ctx, orderID); err != nil {
		return nil, fmt.Errorf("generate production orders: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrder, ResourceProductionOrders}}, nil
}

// CreateShortageWO creates a sub-assembly work order covering a component
// shortage. The component must be short and buildable (has_bom); bought
// parts are resolved through purchasing instead.
func (s *Service) CreateShortageWO(ctx context.Context, orderID, componentID int64) (*ActionResult, error) {
	order, err := s.backend.GetSalesOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	explosion, err := s.loadRequirements(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("load requirements: %w", err)
	}
	if explosion == nil {
		return nil, rejectf("order %s has no material requirements", order.OrderNumber)
	}

	var requirement *MaterialRequirement
	for i := range explosion.Requirements {
		if explosion.Requirements[i].ProductID == componentID {
			requirement = &explosion.Requirements[i]
			break
		}
	}
	if requirement == nil {
		return nil, rejectf("component %d is not a requirement of order %s", componentID, order.OrderNumber)
	}
	if requirement.NetShortage <= 0 {
		return nil, rejectf("component %s has no shortage", requirement.SKU)
	}
	if !requirement.HasBOM {
		return nil, rejectf("component %s has no BOM, resolve the shortage via purchasing", requirement.SKU)
	}

	_, err = s.backend.CreateProductionOrder(ctx, erp.CreateProductionOrderRequest{
		ProductID:    componentID,
		Quantity:     math.Ceil(requirement.NetShortage),
		SalesOrderID: &orderID,
		Reference:    uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("create production order: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrder, ResourceProductionOrders, ResourceRequirements}}, nil
}

// WOTransition names a work-order lifecycle command.
type WOTransition string

const (
	WORelease  WOTransition = "release"
	WOStart    WOTransition = "start"
	WOComplete WOTransition = "complete"
)

// woTransitionFrom maps each transition to the status it departs from.
var woTransitionFrom = map[WOTransition]erp.ProductionOrderStatus{
	WORelease:  erp.WOStatusDraft,
	WOStart:    erp.WOStatusReleased,
	WOComplete: erp.WOStatusInProgress,
}

// TransitionWorkOrder issues a lifecycle command against one of the order's
// work orders. The work order must belong to the order and sit in the status
// the command departs from.
func (s *Service) TransitionWorkOrder(ctx context.Context, orderID, woID int64, transition WOTransition) (*ActionResult, error) {
	from, ok := woTransitionFrom[transition]
	if !ok {
		return nil, rejectf("unknown work order transition %q", transition)
	}
	wos, err := s.backend.ListProductionOrders(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	var target *erp.ProductionOrder
	for i := range wos {
		if wos[i].ID == woID {
			target = &wos[i]
			break
		}
	}
	if target == nil {
		return nil, rejectf("work order %d is not linked to this order", woID)
	}
	if target.Status != from {
		return nil, rejectf("work order %s cannot %s from status %s", target.Code, transition, target.Status)
	}

	switch transition {
	case WORelease:
		err = s.backend.ReleaseProductionOrder(ctx, woID)
	case WOStart:
		err = s.backend.StartProductionOrder(ctx, woID)
	case WOComplete:
		err = s.backend.CompleteProductionOrder(ctx, woID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s work order: %w", transition, err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrder, ResourceProductionOrders}}, nil
}

// RecordPayment records a payment or refund against the order. Amounts are
// validated upstream in the DTO layer; refunds are negative amounts.
func (s *Service) RecordPayment(ctx context.Context, req erp.CreatePaymentRequest) (*ActionResult, error) {
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}
	if _, err := s.backend.CreatePayment(ctx, req); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourcePayments, ResourceOrder}}, nil
}

// ShipOrder stores the tracking number and marks the order shipped. An
// empty tracking number is rejected before any call is issued.
func (s *Service) ShipOrder(ctx context.Context, orderID int64, trackingNumber string) (*ActionResult, error) {
	if trackingNumber == "" {
		return nil, rejectf("tracking number is required to ship")
	}
	if err := s.backend.ShipSalesOrder(ctx, orderID, erp.ShipRequest{TrackingNumber: trackingNumber}); err != nil {
		return nil, fmt.Errorf("ship order: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrderList, ResourceOrder}}, nil
}

// UpdateAddress patches the shipping address fields.
func (s *Service) UpdateAddress(ctx context.Context, orderID int64, req erp.UpdateAddressRequest) (*ActionResult, error) {
	if err := s.backend.UpdateShippingAddress(ctx, orderID, req); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrder}}, nil
}

// DeleteOrder hard-deletes the order. Nothing is left to refresh; the
// caller navigates away.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) (*ActionResult, error) {
	if err := s.backend.DeleteSalesOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}
	return &ActionResult{Affected: []Resource{ResourceOrderList}}, nil
}

// UserMessage maps an action failure to the operator-facing string: the
// precondition message, the backend detail, or a generic fallback.
func UserMessage(err error) string {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr.Message
	}
	var apiErr *erp.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return shared.UserSafeMessage(err)
}

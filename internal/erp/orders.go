package erp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderStatus represents the lifecycle of a sales order.
type SalesOrderStatus string

const (
	OrderStatusPending      SalesOrderStatus = "pending"
	OrderStatusConfirmed    SalesOrderStatus = "confirmed"
	OrderStatusOnHold       SalesOrderStatus = "on_hold"
	OrderStatusInProduction SalesOrderStatus = "in_production"
	OrderStatusReadyToShip  SalesOrderStatus = "ready_to_ship"
	OrderStatusShipped      SalesOrderStatus = "shipped"
	OrderStatusCompleted    SalesOrderStatus = "completed"
	OrderStatusCancelled    SalesOrderStatus = "cancelled"
)

// IsValid checks if the status is known.
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusOnHold,
		OrderStatusInProduction, OrderStatusReadyToShip, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanCancel reports whether an order may still be cancelled. The happy path
// only branches to cancelled from pending, confirmed or on hold.
func (s SalesOrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed || s == OrderStatusOnHold
}

// IsTerminal reports whether the order reached a final state.
func (s SalesOrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled || s == OrderStatusShipped
}

// next returns the forward transition for the linear happy path. The UI only
// offers forward transitions and cancel, never backward ones.
var forwardTransitions = map[SalesOrderStatus]SalesOrderStatus{
	OrderStatusPending:      OrderStatusConfirmed,
	OrderStatusConfirmed:    OrderStatusInProduction,
	OrderStatusInProduction: OrderStatusReadyToShip,
	OrderStatusReadyToShip:  OrderStatusShipped,
	OrderStatusShipped:      OrderStatusCompleted,
}

// CanAdvanceTo reports whether moving to next is a forward step.
func (s SalesOrderStatus) CanAdvanceTo(next SalesOrderStatus) bool {
	return forwardTransitions[s] == next
}

// SalesOrder is the backend-owned order record. Older orders carry a single
// product_id; newer ones carry line items.
type SalesOrder struct {
	ID             int64            `json:"id"`
	OrderNumber    string           `json:"order_number"`
	Status         SalesOrderStatus `json:"status"`
	Quantity       float64          `json:"quantity"`
	ProductID      *int64           `json:"product_id,omitempty"`
	GrandTotal     decimal.Decimal  `json:"grand_total"`
	PaymentStatus  string           `json:"payment_status"`
	TrackingNumber *string          `json:"tracking_number,omitempty"`
	ShippingName   string           `json:"shipping_name"`
	ShippingStreet string           `json:"shipping_street"`
	ShippingCity   string           `json:"shipping_city"`
	ShippingState  string           `json:"shipping_state"`
	ShippingZip    string           `json:"shipping_zip"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Lines          []SalesOrderLine `json:"lines,omitempty"`
}

// SalesOrderLine is one order line on the multi-line schema.
type SalesOrderLine struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// UpdateAddressRequest patches the shipping address fields.
type UpdateAddressRequest struct {
	ShippingName   *string `json:"shipping_name,omitempty"`
	ShippingStreet *string `json:"shipping_street,omitempty"`
	ShippingCity   *string `json:"shipping_city,omitempty"`
	ShippingState  *string `json:"shipping_state,omitempty"`
	ShippingZip    *string `json:"shipping_zip,omitempty"`
}

// ShipRequest records the carrier tracking number and marks the order shipped.
type ShipRequest struct {
	TrackingNumber string `json:"tracking_number"`
}

// GetSalesOrder fetches one order by id.
func (c *Client) GetSalesOrder(ctx context.Context, id int64) (*SalesOrder, error) {
	var order SalesOrder
	if err := c.do(ctx, "GET", fmt.Sprintf("/sales-orders/%d", id), "sales_order", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListSalesOrders fetches the order list with optional status filter.
func (c *Client) ListSalesOrders(ctx context.Context, status *SalesOrderStatus) ([]SalesOrder, error) {
	path := "/sales-orders"
	if status != nil {
		path += "?status=" + url.QueryEscape(string(*status))
	}
	var orders []SalesOrder
	if err := c.do(ctx, "GET", path, "sales_orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus advances the order to a new status. The backend remains
// authoritative and may still reject the transition.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status SalesOrderStatus) error {
	body := struct {
		Status SalesOrderStatus `json:"status"`
	}{Status: status}
	return c.do(ctx, "PATCH", fmt.Sprintf("/sales-orders/%d/status", id), "sales_order_status", body, nil)
}

// CancelSalesOrder cancels the order.
func (c *Client) CancelSalesOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "POST", fmt.Sprintf("/sales-orders/%d/cancel", id), "sales_order_cancel", nil, nil)
}

// ShipSalesOrder marks the order shipped with a tracking number.
func (c *Client) ShipSalesOrder(ctx context.Context, id int64, req ShipRequest) error {
	return c.do(ctx, "POST", fmt.Sprintf("/sales-orders/%d/ship", id), "sales_order_ship", req, nil)
}

// UpdateShippingAddress patches the address fields on the order.
func (c *Client) UpdateShippingAddress(ctx context.Context, id int64, req UpdateAddressRequest) error {
	return c.do(ctx, "PATCH", fmt.Sprintf("/sales-orders/%d/address", id), "sales_order_address", req, nil)
}

// DeleteSalesOrder hard-deletes the order.
func (c *Client) DeleteSalesOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/sales-orders/%d", id), "sales_order_delete", nil, nil)
}

// GenerateProductionOrders asks the backend to create production orders for
// every product on the order.
func (c *Client) GenerateProductionOrders(ctx context.Context, id int64) ([]ProductionOrder, error) {
	var created []ProductionOrder
	if err := c.do(ctx, "POST", fmt.Sprintf("/sales-orders/%d/generate-production-orders", id), "generate_production_orders", nil, &created); err != nil {
		return nil, err
	}
	return created, nil
}

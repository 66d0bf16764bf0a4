package erp

import (
	"context"
	"fmt"
	"time"
)

// ProductionOrderStatus represents the lifecycle of a production order:
// draft -> released -> in_progress -> {complete, scrapped} -> closed.
type ProductionOrderStatus string

const (
	WOStatusDraft      ProductionOrderStatus = "draft"
	WOStatusReleased   ProductionOrderStatus = "released"
	WOStatusInProgress ProductionOrderStatus = "in_progress"
	WOStatusComplete   ProductionOrderStatus = "complete"
	WOStatusScrapped   ProductionOrderStatus = "scrapped"
	WOStatusClosed     ProductionOrderStatus = "closed"
)

// IsValid checks if the status is known.
func (s ProductionOrderStatus) IsValid() bool {
	switch s {
	case WOStatusDraft, WOStatusReleased, WOStatusInProgress,
		WOStatusComplete, WOStatusScrapped, WOStatusClosed:
		return true
	default:
		return false
	}
}

// ProductionOrder is a backend-owned work order. A nil SalesOrderID means
// make-to-stock.
type ProductionOrder struct {
	ID                int64                 `json:"id"`
	Code              string                `json:"code"`
	Status            ProductionOrderStatus `json:"status"`
	ProductID         int64                 `json:"product_id"`
	QuantityOrdered   float64               `json:"quantity_ordered"`
	QuantityCompleted float64               `json:"quantity_completed"`
	SalesOrderID      *int64                `json:"sales_order_id,omitempty"`
	SalesOrderLineID  *int64                `json:"sales_order_line_id,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// CreateProductionOrderRequest creates a work order, typically for a
// sub-assembly shortage.
type CreateProductionOrderRequest struct {
	ProductID    int64   `json:"product_id"`
	Quantity     float64 `json:"quantity"`
	SalesOrderID *int64  `json:"sales_order_id,omitempty"`
	Reference    string  `json:"reference,omitempty"`
}

// ListProductionOrders fetches the work orders linked to a sales order.
func (c *Client) ListProductionOrders(ctx context.Context, salesOrderID int64) ([]ProductionOrder, error) {
	var orders []ProductionOrder
	path := fmt.Sprintf("/production-orders?sales_order_id=%d", salesOrderID)
	if err := c.do(ctx, "GET", path, "production_orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateProductionOrder creates one work order.
func (c *Client) CreateProductionOrder(ctx context.Context, req CreateProductionOrderRequest) (*ProductionOrder, error) {
	var created ProductionOrder
	if err := c.do(ctx, "POST", "/production-orders", "production_order_create", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ReleaseProductionOrder moves a draft work order to released.
func (c *Client) ReleaseProductionOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "POST", fmt.Sprintf("/production-orders/%d/release", id), "production_order_release", nil, nil)
}

// StartProductionOrder moves a released work order to in progress.
func (c *Client) StartProductionOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "POST", fmt.Sprintf("/production-orders/%d/start", id), "production_order_start", nil, nil)
}

// CompleteProductionOrder marks the work order complete.
func (c *Client) CompleteProductionOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "POST", fmt.Sprintf("/production-orders/%d/complete", id), "production_order_complete", nil, nil)
}

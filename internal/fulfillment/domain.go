// Package fulfillment assembles the per-order fulfillment view: it merges
// the sales order, its production orders, material requirements and payment
// summary into one read model and drives status-transition actions against
// the ERP backend.
package fulfillment

import (
	"github.com/ridha-415/filaops-sub002/internal/erp"
)

// ExplosionMode tags which shortage semantics apply to a requirement set.
type ExplosionMode string

const (
	// ModeNetted means requirements came from the MRP endpoint and are
	// netted against on-hand and incoming inventory.
	ModeNetted ExplosionMode = "netted"
	// ModeRaw means the MRP endpoint was unavailable and requirements came
	// from the raw BOM explosion: nothing is assumed in stock, so the net
	// shortage equals the gross quantity.
	ModeRaw ExplosionMode = "raw"
)

// MaterialRequirement is a derived requirement row at order quantity. It is
// recomputed on every fetch and never cached beyond the current view.
type MaterialRequirement struct {
	ProductID         int64   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	SKU               string  `json:"sku"`
	GrossQuantity     float64 `json:"gross_quantity"`
	OnHandQuantity    float64 `json:"on_hand_quantity"`
	AvailableQuantity float64 `json:"available_quantity"`
	IncomingQuantity  float64 `json:"incoming_quantity"`
	SafetyStock       float64 `json:"safety_stock"`
	UnitCost          float64 `json:"unit_cost"`
	HasBOM            bool    `json:"has_bom"`
	NetShortage       float64 `json:"net_shortage"`
}

// Explosion is the tagged result of the two-tier requirements fetch.
type Explosion struct {
	Mode         ExplosionMode         `json:"mode"`
	Requirements []MaterialRequirement `json:"requirements"`
}

// CapacityRequirement is the derived time load for one routing operation.
type CapacityRequirement struct {
	OperationName  string  `json:"operation_name"`
	WorkCenterName string  `json:"work_center_name"`
	SetupTimeMin   float64 `json:"setup_time_minutes"`
	RunTimeMin     float64 `json:"run_time_minutes"`
	TotalTimeMin   float64 `json:"total_time_minutes"`
}

// ProductionOrderView decorates a work order with its completion percentage.
type ProductionOrderView struct {
	erp.ProductionOrder
	CompletionPercent float64 `json:"completion_percent"`
}

// Projection holds the derived predicates for one order.
type Projection struct {
	HasMainProductWO  bool    `json:"has_main_product_wo"`
	CanShip           bool    `json:"can_ship"`
	AggregateProgress float64 `json:"aggregate_progress"`
}

// View is the assembled read model for one order. Sections that failed to
// load are absent and named in Degraded; only the order itself is required.
type View struct {
	Order            *erp.SalesOrder       `json:"order"`
	ProductionOrders []ProductionOrderView `json:"production_orders"`
	Requirements     *Explosion            `json:"requirements,omitempty"`
	Capacity         []CapacityRequirement `json:"capacity,omitempty"`
	TotalHours       float64               `json:"total_hours"`
	Payments         []erp.Payment         `json:"payments,omitempty"`
	PaymentSummary   *erp.PaymentSummary   `json:"payment_summary,omitempty"`
	Projection       Projection            `json:"projection"`
	Degraded         []string              `json:"degraded,omitempty"`
}

// MainProductID resolves the product the order is for: the legacy single
// product_id when present, otherwise the first line item.
func MainProductID(order *erp.SalesOrder) (int64, bool) {
	if order == nil {
		return 0, false
	}
	if order.ProductID != nil && *order.ProductID > 0 {
		return *order.ProductID, true
	}
	if len(order.Lines) > 0 {
		return order.Lines[0].ProductID, true
	}
	return 0, false
}

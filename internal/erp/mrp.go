package erp

import (
	"context"
	"fmt"
)

// UnitRequirement is one BOM/MRP requirement row on a quantity = 1 basis.
// The gateway rescales these to the order quantity.
type UnitRequirement struct {
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
}

// BOMComponent is one line from the raw BOM explosion endpoint. It carries
// no inventory netting data.
type BOMComponent struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	HasBOM      bool    `json:"has_bom"`
}

// GetRequirements fetches netted MRP requirements for a product at unit
// quantity.
func (c *Client) GetRequirements(ctx context.Context, productID int64) ([]UnitRequirement, error) {
	var reqs []UnitRequirement
	path := fmt.Sprintf("/mrp/requirements?product_id=%d", productID)
	if err := c.do(ctx, "GET", path, "mrp_requirements", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ExplodeBOM fetches the raw component list for a product at the given
// quantity, without inventory netting.
func (c *Client) ExplodeBOM(ctx context.Context, productID int64, quantity float64) ([]BOMComponent, error) {
	var components []BOMComponent
	path := fmt.Sprintf("/mrp/explode-bom/%d?quantity=%g", productID, quantity)
	if err := c.do(ctx, "GET", path, "bom_explode", nil, &components); err != nil {
		return nil, err
	}
	return components, nil
}

package erp

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridha-415/filaops-sub002/internal/shared"
)

// RoutingOperation is one manufacturing step with its time estimates.
type RoutingOperation struct {
	Sequence       int     `json:"sequence"`
	OperationName  string  `json:"operation_name"`
	WorkCenterName string  `json:"work_center_name"`
	SetupTimeMin   float64 `json:"setup_time_minutes"`
	RunTimeMin     float64 `json:"run_time_minutes"`
}

// Routing is the ordered operation sequence for a product.
type Routing struct {
	ID         int64              `json:"id"`
	ProductID  int64              `json:"product_id"`
	Operations []RoutingOperation `json:"operations"`
}

// GetRoutingByProduct fetches the routing for a product. A missing routing
// is not an error: the capacity section is optional.
func (c *Client) GetRoutingByProduct(ctx context.Context, productID int64) (*Routing, error) {
	var routing Routing
	path := fmt.Sprintf("/routings/product/%d", productID)
	if err := c.do(ctx, "GET", path, "routing", nil, &routing); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &routing, nil
}

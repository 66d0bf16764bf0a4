package fulfillment

import (
	"github.com/ridha-415/filaops-sub002/internal/erp"
)

// CompletionPercent reports quantity_completed / quantity_ordered * 100,
// guarding zero-quantity orders.
func CompletionPercent(wo erp.ProductionOrder) float64 {
	if wo.QuantityOrdered == 0 {
		return 0
	}
	return wo.QuantityCompleted / wo.QuantityOrdered * 100
}

// AggregateProgress reports the share of complete work orders as a
// percentage. An empty list is 0.
func AggregateProgress(wos []erp.ProductionOrder) float64 {
	if len(wos) == 0 {
		return 0
	}
	var complete int
	for _, wo := range wos {
		if wo.Status == erp.WOStatusComplete {
			complete++
		}
	}
	return float64(complete) / float64(len(wos)) * 100
}

// HasMainProductWO reports whether every product the order is for has a
// linked work order. Multi-line orders require a work order with its
// sales_order_line_id set for each distinct line product; legacy
// single-product orders match by product_id alone.
func HasMainProductWO(order *erp.SalesOrder, wos []erp.ProductionOrder) bool {
	if order == nil {
		return false
	}

	if len(order.Lines) > 0 {
		covered := make(map[int64]bool)
		for _, wo := range wos {
			if wo.SalesOrderLineID != nil {
				covered[wo.ProductID] = true
			}
		}
		for _, line := range order.Lines {
			if !covered[line.ProductID] {
				return false
			}
		}
		return true
	}

	if order.ProductID == nil {
		return false
	}
	for _, wo := range wos {
		if wo.ProductID == *order.ProductID {
			return true
		}
	}
	return false
}

// CanShip reports shipping eligibility: at least one work order, every work
// order complete, and no requirement short.
func CanShip(wos []erp.ProductionOrder, reqs []MaterialRequirement) bool {
	if len(wos) == 0 {
		return false
	}
	for _, wo := range wos {
		if wo.Status != erp.WOStatusComplete {
			return false
		}
	}
	for _, req := range reqs {
		if req.NetShortage > 0 {
			return false
		}
	}
	return true
}

// Project computes the derived predicates for one order.
func Project(order *erp.SalesOrder, wos []erp.ProductionOrder, reqs []MaterialRequirement) Projection {
	return Projection{
		HasMainProductWO:  HasMainProductWO(order, wos),
		CanShip:           CanShip(wos, reqs),
		AggregateProgress: AggregateProgress(wos),
	}
}

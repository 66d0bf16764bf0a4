package fulfillment

import (
	"github.com/ridha-415/filaops-sub002/internal/erp"
)

// AggregateCapacity computes per-operation time load for an order quantity:
// total = setup + run * quantity. An absent routing yields an empty list;
// the capacity section is optional.
func AggregateCapacity(ops []erp.RoutingOperation, orderQty float64) []CapacityRequirement {
	if len(ops) == 0 {
		return nil
	}
	reqs := make([]CapacityRequirement, 0, len(ops))
	for _, op := range ops {
		reqs = append(reqs, CapacityRequirement{
			OperationName:  op.OperationName,
			WorkCenterName: op.WorkCenterName,
			SetupTimeMin:   op.SetupTimeMin,
			RunTimeMin:     op.RunTimeMin,
			TotalTimeMin:   op.SetupTimeMin + op.RunTimeMin*orderQty,
		})
	}
	return reqs
}

// TotalHours sums the total operation minutes and converts to hours.
func TotalHours(reqs []CapacityRequirement) float64 {
	var minutes float64
	for _, req := range reqs {
		minutes += req.TotalTimeMin
	}
	return minutes / 60
}

package fulfillment

import (
	"github.com/ridha-415/filaops-sub002/internal/erp"
)

// NetShortage applies the floor-at-zero netting rule:
// max(0, gross - (available + incoming) + safety_stock).
func NetShortage(gross, available, incoming, safetyStock float64) float64 {
	shortage := gross - (available + incoming) + safetyStock
	if shortage < 0 {
		return 0
	}
	return shortage
}

// ScaleRequirements rescales unit-basis requirements to the order quantity
// and recomputes each net shortage. Requirements are unit basis, so gross
// scales linearly while inventory figures do not.
func ScaleRequirements(units []erp.UnitRequirement, orderQty float64) []MaterialRequirement {
	if orderQty <= 0 || len(units) == 0 {
		return nil
	}
	scaled := make([]MaterialRequirement, 0, len(units))
	for _, u := range units {
		gross := u.GrossQuantity * orderQty
		scaled = append(scaled, MaterialRequirement{
			ProductID:         u.ProductID,
			ProductName:       u.ProductName,
			SKU:               u.SKU,
			GrossQuantity:     gross,
			OnHandQuantity:    u.OnHandQuantity,
			AvailableQuantity: u.AvailableQuantity,
			IncomingQuantity:  u.IncomingQuantity,
			SafetyStock:       u.SafetyStock,
			UnitCost:          u.UnitCost,
			HasBOM:            u.HasBOM,
			NetShortage:       NetShortage(gross, u.AvailableQuantity, u.IncomingQuantity, u.SafetyStock),
		})
	}
	return scaled
}

// RawRequirements converts a raw BOM explosion into requirement rows. The
// explosion is already at order quantity and carries no inventory data, so
// every row assumes nothing is in stock: net shortage equals gross.
func RawRequirements(components []erp.BOMComponent) []MaterialRequirement {
	if len(components) == 0 {
		return nil
	}
	reqs := make([]MaterialRequirement, 0, len(components))
	for _, comp := range components {
		reqs = append(reqs, MaterialRequirement{
			ProductID:     comp.ProductID,
			ProductName:   comp.ProductName,
			SKU:           comp.SKU,
			GrossQuantity: comp.Quantity,
			UnitCost:      comp.UnitCost,
			HasBOM:        comp.HasBOM,
			NetShortage:   comp.Quantity,
		})
	}
	return reqs
}

package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridha-415/filaops-sub002/internal/erp"
)

func TestNetShortageFloorsAtZero(t *testing.T) {
	tests := []struct {
		name      string
		gross     float64
		available float64
		incoming  float64
		safety    float64
		want      float64
	}{
		{"fully covered", 6, 10, 0, 0, 0},
		{"exactly covered", 6, 6, 0, 0, 0},
		{"short", 6, 4, 0, 1, 3},
		{"incoming counts as supply", 10, 4, 6, 0, 0},
		{"safety stock raises the bar", 10, 10, 0, 5, 5},
		{"oversupplied never negative", 1, 100, 50, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetShortage(tt.gross, tt.available, tt.incoming, tt.safety)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestScaleRequirements(t *testing.T) {
	units := []erp.UnitRequirement{
		{
			ProductID:         42,
			SKU:               "PLA-BLK",
			GrossQuantity:     2,
			AvailableQuantity: 4,
			IncomingQuantity:  0,
			SafetyStock:       1,
			HasBOM:            true,
		},
	}

	scaled := ScaleRequirements(units, 3)
	require.Len(t, scaled, 1)
	assert.InDelta(t, 6.0, scaled[0].GrossQuantity, 0.0001)
	assert.InDelta(t, 3.0, scaled[0].NetShortage, 0.0001)
	assert.True(t, scaled[0].HasBOM)
}

func TestScaleRequirementsLinearity(t *testing.T) {
	units := []erp.UnitRequirement{
		{ProductID: 1, GrossQuantity: 2.5, AvailableQuantity: 3, SafetyStock: 0.5},
		{ProductID: 2, GrossQuantity: 1, IncomingQuantity: 2},
	}

	direct := ScaleRequirements(units, 7)
	rescaled := ScaleRequirements(units, 7)
	require.Equal(t, direct, rescaled)

	// Gross scales linearly with quantity; inventory figures do not.
	byOne := ScaleRequirements(units, 1)
	for i := range direct {
		assert.InDelta(t, byOne[i].GrossQuantity*7, direct[i].GrossQuantity, 0.0001)
		assert.Equal(t, byOne[i].AvailableQuantity, direct[i].AvailableQuantity)
	}
}

func TestScaleRequirementsRejectsNonPositiveQuantity(t *testing.T) {
	units := []erp.UnitRequirement{{ProductID: 1, GrossQuantity: 2}}
	assert.Nil(t, ScaleRequirements(units, 0))
	assert.Nil(t, ScaleRequirements(units, -1))
	assert.Nil(t, ScaleRequirements(nil, 5))
}

func TestRawRequirementsAssumeNothingInStock(t *testing.T) {
	components := []erp.BOMComponent{
		{ProductID: 42, SKU: "PLA-BLK", Quantity: 6, HasBOM: true},
		{ProductID: 43, SKU: "BOX-S", Quantity: 3},
	}

	reqs := RawRequirements(components)
	require.Len(t, reqs, 2)
	for i, req := range reqs {
		assert.InDelta(t, components[i].Quantity, req.GrossQuantity, 0.0001)
		assert.InDelta(t, req.GrossQuantity, req.NetShortage, 0.0001)
		assert.Zero(t, req.OnHandQuantity)
		assert.Zero(t, req.AvailableQuantity)
		assert.Zero(t, req.IncomingQuantity)
	}
}

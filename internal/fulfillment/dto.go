package fulfillment

import (
	"github.com/shopspring/decimal"

	"github.com/ridha-415/filaops-sub002/internal/shared"
)

// RecordPaymentRequest records a payment; a negative amount is a refund.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Method      string          `json:"method" validate:"required,max=40"`
	Reference   string          `json:"reference,omitempty" validate:"omitempty,max=100"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=500"`
}

// AdvanceOrderRequest moves the order to the next forward status.
type AdvanceOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// ShipOrderRequest stores the tracking number and ships the order.
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required,max=100"`
}

// CreateWorkOrderRequest creates a sub-assembly work order for a short
// component.
type CreateWorkOrderRequest struct {
	ComponentID int64 `json:"component_id" validate:"required,gt=0"`
}

// UpdateAddressRequest patches the shipping address.
type UpdateAddressRequest struct {
	ShippingName   *string `json:"shipping_name,omitempty" validate:"omitempty,max=200"`
	ShippingStreet *string `json:"shipping_street,omitempty" validate:"omitempty,max=200"`
	ShippingCity   *string `json:"shipping_city,omitempty" validate:"omitempty,max=100"`
	ShippingState  *string `json:"shipping_state,omitempty" validate:"omitempty,max=100"`
	ShippingZip    *string `json:"shipping_zip,omitempty" validate:"omitempty,max=20"`
}

// ActionResponse is the envelope returned by every mutating endpoint: the
// affected resource set plus the refreshed view when one still exists.
type ActionResponse struct {
	Affected []Resource `json:"affected"`
	View     *View      `json:"view,omitempty"`
}

// ListOrdersResponse wraps one page of the order list. The backend list
// endpoint is unpaginated, so the page window is applied here.
type ListOrdersResponse struct {
	Orders     []OrderSummary    `json:"orders"`
	Pagination shared.Pagination `json:"pagination"`
}

// OrderSummary is one row of the admin order list.
type OrderSummary struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	Quantity      float64         `json:"quantity"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentStatus string          `json:"payment_status"`
}

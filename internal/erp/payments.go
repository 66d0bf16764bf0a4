package erp

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one recorded payment. A negative amount denotes a refund.
type Payment struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference,omitempty"`
	ReceivedAt  time.Time       `json:"received_at"`
	RecordedAt  time.Time       `json:"recorded_at"`
	Description string          `json:"description,omitempty"`
}

// PaymentSummary is the backend-computed balance for one order.
type PaymentSummary struct {
	OrderID       int64           `json:"order_id"`
	OrderTotal    decimal.Decimal `json:"order_total"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// CreatePaymentRequest records a payment or, with a negative amount, a refund.
type CreatePaymentRequest struct {
	OrderID     int64           `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ListOrderPayments fetches all payments recorded against an order.
func (c *Client) ListOrderPayments(ctx context.Context, orderID int64) ([]Payment, error) {
	var payments []Payment
	path := fmt.Sprintf("/payments?order_id=%d", orderID)
	if err := c.do(ctx, "GET", path, "payments", nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// GetPaymentSummary fetches the payment totals for an order.
func (c *Client) GetPaymentSummary(ctx context.Context, orderID int64) (*PaymentSummary, error) {
	var summary PaymentSummary
	path := fmt.Sprintf("/payments/order/%d/summary", orderID)
	if err := c.do(ctx, "GET", path, "payment_summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreatePayment records a payment against an order.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	var created Payment
	if err := c.do(ctx, "POST", "/payments", "payment_create", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REFUND REQUEST ENTITY
// =====================================================

// RefundRequest is what the customer submitted: line items, the reason
// and evidence. Owned exclusively by its RefundCase.
type RefundRequest struct {
	ID            uuid.UUID  `json:"id"`
	SupportCaseID uuid.UUID  `json:"support_case_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	OrderID       uuid.UUID  `json:"order_id"`
	Items         []LineItem `json:"items"`

	Reason     string     `json:"reason"`
	ReasonCode ReasonCode `json:"reason_code"`

	// Object keys in evidence storage (customer photos etc.)
	EvidenceRefs []string `json:"evidence_refs,omitempty"`

	RequestedAmount Money `json:"requested_amount"`

	// Request-level delivery date, applied to items that carry none
	DeliveryDate time.Time `json:"delivery_date,omitempty"`
}

// NewRefundRequest constructs a validated refund request. Items without
// a delivery date inherit the request-level one; the requested amount
// must reconcile with the item totals within AmountTolerance.
func NewRefundRequest(
	id, supportCaseID, customerID, orderID uuid.UUID,
	items []LineItem,
	reason string,
	reasonCode ReasonCode,
	evidenceRefs []string,
	requestedAmount Money,
	deliveryDate time.Time,
) (*RefundRequest, error) {
	if len(items) == 0 {
		return nil, NewRefundError(
			ErrCodeInvalidInput,
			"At least one refund item is required",
			ErrInvalidInput,
		)
	}
	if reason == "" {
		return nil, NewRefundError(
			ErrCodeInvalidInput,
			"Refund reason is required",
			ErrInvalidInput,
		)
	}
	if !reasonCode.IsValid() {
		return nil, NewRefundError(
			ErrCodeInvalidInput,
			fmt.Sprintf("Invalid reason code: %s", reasonCode),
			ErrInvalidInput,
		)
	}

	// Backfill per-item delivery dates from the request-level one
	resolved := make([]LineItem, len(items))
	for i, item := range items {
		if item.DeliveryDate.IsZero() {
			if deliveryDate.IsZero() {
				return nil, NewRefundError(
					ErrCodeInvalidInput,
					fmt.Sprintf("Item %s has no delivery date and the request carries none", item.ProductID),
					ErrInvalidInput,
				)
			}
			item.DeliveryDate = deliveryDate
		}
		resolved[i] = item
	}

	req := &RefundRequest{
		ID:              id,
		SupportCaseID:   supportCaseID,
		CustomerID:      customerID,
		OrderID:         orderID,
		Items:           resolved,
		Reason:          reason,
		ReasonCode:      reasonCode,
		EvidenceRefs:    evidenceRefs,
		RequestedAmount: requestedAmount,
		DeliveryDate:    deliveryDate,
	}

	if err := req.reconcileAmount(); err != nil {
		return nil, err
	}
	return req, nil
}

// ItemTotal sums all line totals
func (r *RefundRequest) ItemTotal() (Money, error) {
	total := ZeroMoney(r.RequestedAmount.Currency)
	var err error
	for _, item := range r.Items {
		total, err = total.Add(item.LineTotal())
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// OverridesWindow reports whether the request reason bypasses the
// delivery-window rule
func (r *RefundRequest) OverridesWindow() bool {
	return r.ReasonCode.OverridesWindow()
}

func (r *RefundRequest) reconcileAmount() error {
	total, err := r.ItemTotal()
	if err != nil {
		return err
	}
	tolerance := decimal.RequireFromString(AmountTolerance)
	if r.RequestedAmount.Amount.Sub(total.Amount).Abs().GreaterThan(tolerance) {
		return NewRefundError(
			ErrCodeAmountReconciliation,
			fmt.Sprintf("Requested amount %s does not match item total %s", r.RequestedAmount.String(), total.String()),
			ErrAmountReconciliation,
		)
	}
	return nil
}

package model

import (
	"fmt"
	"time"
)

// =====================================================
// LINE ITEM
// =====================================================

// LineItem is one product position on a refund request. Immutable once
// constructed; eligibility is evaluated per item against its own
// delivery date.
type LineItem struct {
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	UnitPrice    Money     `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	DeliveryDate time.Time `json:"delivery_date"`
}

// NewLineItem constructs a validated line item. The delivery date may be
// zero when the request carries a request-level date instead.
func NewLineItem(productID, productName string, unitPrice Money, quantity int, deliveryDate time.Time) (LineItem, error) {
	if productID == "" {
		return LineItem{}, NewRefundError(
			ErrCodeInvalidInput,
			"Product ID is required",
			ErrInvalidInput,
		)
	}
	if quantity <= 0 {
		return LineItem{}, NewRefundError(
			ErrCodeInvalidInput,
			fmt.Sprintf("Quantity must be positive, got %d", quantity),
			ErrInvalidInput,
		)
	}
	if unitPrice.IsZero() || unitPrice.Amount.IsNegative() {
		return LineItem{}, NewRefundError(
			ErrCodeInvalidInput,
			fmt.Sprintf("Unit price must be positive, got %s", unitPrice.String()),
			ErrInvalidInput,
		)
	}
	return LineItem{
		ProductID:    productID,
		ProductName:  productName,
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		DeliveryDate: deliveryDate,
	}, nil
}

// LineTotal returns unit price * quantity
func (li LineItem) LineTotal() Money {
	return li.UnitPrice.Mul(li.Quantity)
}

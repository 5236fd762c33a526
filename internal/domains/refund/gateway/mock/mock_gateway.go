package mock

import (
	"context"
	"fmt"
	"time"

	"furnishop-backend/internal/domains/refund/gateway"
	"furnishop-backend/internal/domains/refund/model"
)

// =====================================================
// MOCK PAYMENT GATEWAY FOR TESTING / LOCAL DEV
// =====================================================

type MockPaymentGateway struct {
	// ShouldError makes InitiateRefund return a remote error
	ShouldError bool
	// ShouldDecline makes the provider answer success=false
	ShouldDecline bool
}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (m *MockPaymentGateway) InitiateRefund(ctx context.Context, referenceID string, amount model.Money) (*gateway.RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ShouldError {
		return nil, fmt.Errorf("mock gateway unreachable")
	}
	if m.ShouldDecline {
		return &gateway.RefundResult{
			Success: false,
			Message: "mock refund declined",
		}, nil
	}

	return &gateway.RefundResult{
		Success:       true,
		TransactionID: fmt.Sprintf("MOCK_SETTLE_%d", time.Now().UnixNano()),
		Message:       "mock refund success",
		RawResponse: map[string]interface{}{
			"reference_id": referenceID,
			"amount":       amount.Amount.StringFixed(2),
			"currency":     amount.Currency,
		},
	}, nil
}

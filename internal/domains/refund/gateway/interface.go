package gateway

import (
	"context"

	"furnishop-backend/internal/domains/refund/model"
)

// =====================================================
// PAYMENT GATEWAY INTERFACE
// =====================================================

// PaymentGateway is the narrow client the refund core needs from the
// payment provider. Implementations may fail with remote errors; the
// execution service absorbs those into a failed case, they never reach
// API callers.
type PaymentGateway interface {
	// InitiateRefund pushes money back to the customer. referenceID is
	// the refund case id (or the settlement reference on a retry).
	InitiateRefund(ctx context.Context, referenceID string, amount model.Money) (*RefundResult, error)
}

// RefundResult is the provider's answer to an initiate-refund call
type RefundResult struct {
	Success       bool                   // provider accepted the refund
	TransactionID string                 // provider transaction id, recorded as settlement reference
	Message       string                 // provider message, used in failure reasons
	RawResponse   map[string]interface{} // full response for audit
}

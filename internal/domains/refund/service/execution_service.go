package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"furnishop-backend/internal/domains/refund/gateway"
	"furnishop-backend/internal/domains/refund/model"
	"furnishop-backend/internal/domains/refund/repository"
)

// =====================================================
// EXECUTION SERVICE
// =====================================================

// ExecutionService drives approved refund cases through the payment
// gateway. Gateway outcomes of every kind, including transport errors
// and context cancellation, are recorded on the case; the only errors
// this service returns are persistence failures and illegal states.
type ExecutionService struct {
	repo    repository.RefundCaseRepository
	gateway gateway.PaymentGateway
}

func NewExecutionService(repo repository.RefundCaseRepository, gw gateway.PaymentGateway) *ExecutionService {
	return &ExecutionService{
		repo:    repo,
		gateway: gw,
	}
}

// Execute settles an approved case.
//
// Business logic:
// 1. The case must be approved
// 2. Call the gateway with the approved amount
// 3. Success - mark executed with the settlement reference
// 4. Decline, error or cancellation - mark failed with the reason
// 5. Persist the outcome either way
func (s *ExecutionService) Execute(ctx context.Context, refundCase *model.RefundCase) (*model.RefundCase, error) {
	if !refundCase.IsApproved() {
		return nil, model.NewTransitionError(refundCase.Status, model.EventExecute)
	}

	now := time.Now()
	result, err := s.gateway.InitiateRefund(ctx, refundCase.ID.String(), *refundCase.ApprovedAmount)

	switch {
	case err != nil:
		log.Error().
			Err(err).
			Str("refund_case_id", refundCase.ID.String()).
			Msg("Payment gateway call failed")
		if markErr := refundCase.MarkFailed(err.Error(), now); markErr != nil {
			return nil, markErr
		}

	case !result.Success:
		log.Warn().
			Str("refund_case_id", refundCase.ID.String()).
			Str("gateway_message", result.Message).
			Msg("Payment gateway declined refund")
		if markErr := refundCase.MarkFailed(result.Message, now); markErr != nil {
			return nil, markErr
		}

	default:
		if markErr := refundCase.MarkExecuted(result.TransactionID, now); markErr != nil {
			return nil, markErr
		}
		log.Info().
			Str("refund_case_id", refundCase.ID.String()).
			Str("settlement_reference", result.TransactionID).
			Str("amount", refundCase.ApprovedAmount.String()).
			Msg("Refund executed")
	}

	if err := s.repo.Save(ctx, refundCase); err != nil {
		return nil, err
	}
	return refundCase, nil
}

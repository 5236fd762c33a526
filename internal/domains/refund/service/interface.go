package service

import (
	"context"

	"github.com/google/uuid"

	"furnishop-backend/internal/domains/refund/model"
	supportmodel "furnishop-backend/internal/domains/support/model"
)

// =====================================================
// WORKFLOW INTERFACE
// =====================================================

// RefundWorkflow is the surface exposed to the HTTP layer. Every
// operation returns the full updated case or a taxonomy error; the
// handler maps those to transport responses.
type RefundWorkflow interface {
	// Submit opens a pending refund case against an open,
	// refund-eligible support case
	Submit(ctx context.Context, customerID uuid.UUID, req model.SubmitRefundRequest) (*model.RefundCase, error)

	// Decide approves or rejects a pending case. Approval re-validates
	// the delivery window at decision time.
	Decide(ctx context.Context, caseID, agentID uuid.UUID, req model.DecideRefundRequest) (*model.RefundCase, error)

	// Execute drives an approved case through the payment gateway.
	// Gateway failures land the case in failed status - they are never
	// an error to the caller.
	Execute(ctx context.Context, caseID uuid.UUID) (*model.RefundCase, error)

	// Retry resubmits a failed case for execution
	Retry(ctx context.Context, caseID, agentID uuid.UUID) (*model.RefundCase, error)

	// Cancel withdraws a pending or failed case
	Cancel(ctx context.Context, caseID, agentID uuid.UUID) (*model.RefundCase, error)

	// GetCase loads a single case
	GetCase(ctx context.Context, caseID uuid.UUID) (*model.RefundCase, error)

	// ListCases pages through cases in a given status
	ListCases(ctx context.Context, status model.RefundStatus, page, limit int) ([]*model.RefundCase, int, error)
}

// =====================================================
// COLLABORATOR INTERFACES
// =====================================================

// SupportCaseLookup resolves the support case a refund is attached to.
// Contract: (case, nil) when found, the support domain's ErrCaseNotFound
// when absent, any other error when the lookup is unavailable.
type SupportCaseLookup interface {
	GetCase(ctx context.Context, id uuid.UUID) (*supportmodel.SupportCase, error)
}

// ExecutionEnqueuer hands an approved case to the background worker.
// Enqueue failures must not fail the approval - execution can always be
// triggered again explicitly.
type ExecutionEnqueuer interface {
	EnqueueExecution(ctx context.Context, caseID uuid.UUID) error
}

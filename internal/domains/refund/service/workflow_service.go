package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"furnishop-backend/internal/domains/refund/model"
	"furnishop-backend/internal/domains/refund/repository"
	supportmodel "furnishop-backend/internal/domains/support/model"
)

// =====================================================
// REFUND WORKFLOW IMPLEMENTATION
// =====================================================

type refundWorkflow struct {
	repo       repository.RefundCaseRepository
	lookup     SupportCaseLookup
	executor   *ExecutionService
	enqueuer   ExecutionEnqueuer
	windowDays int
}

// NewRefundWorkflow wires the workflow with its collaborators. enqueuer
// may be nil, in which case approvals are not queued for background
// execution and Execute must be called explicitly.
func NewRefundWorkflow(
	repo repository.RefundCaseRepository,
	lookup SupportCaseLookup,
	executor *ExecutionService,
	enqueuer ExecutionEnqueuer,
	windowDays int,
) RefundWorkflow {
	if windowDays <= 0 {
		windowDays = model.DefaultWindowDays
	}
	return &refundWorkflow{
		repo:       repo,
		lookup:     lookup,
		executor:   executor,
		enqueuer:   enqueuer,
		windowDays: windowDays,
	}
}

// =====================================================
// SUBMIT
// =====================================================

// Submit creates a pending refund case.
//
// Business logic:
// 1. Validate the request body
// 2. Resolve the support case - must exist, be open and of a
//    refund-eligible type
// 3. Build the refund request (line items, amount reconciliation)
// 4. Compute the submission-time eligibility verdict
// 5. Persist the case in pending status
func (w *refundWorkflow) Submit(ctx context.Context, customerID uuid.UUID, req model.SubmitRefundRequest) (*model.RefundCase, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewRefundError(model.ErrCodeInvalidInput, err.Error(), model.ErrInvalidInput)
	}

	// Step 2: Resolve support case
	supportCase, err := w.lookup.GetCase(ctx, req.SupportCaseID)
	if err != nil {
		if errors.Is(err, supportmodel.ErrCaseNotFound) {
			return nil, model.NewRefundError(
				model.ErrCodeSupportCaseNotFound,
				fmt.Sprintf("Support case not found: %s", req.SupportCaseID),
				model.ErrSupportCaseNotFound,
			)
		}
		return nil, fmt.Errorf("support case lookup failed: %w", err)
	}
	if !supportCase.IsOpen() {
		return nil, model.NewSupportCaseNotOpenError(supportCase.Status.String())
	}
	if !supportCase.CaseType.RefundEligible() {
		return nil, model.NewRefundError(
			model.ErrCodeSupportCaseType,
			fmt.Sprintf("Support case type '%s' does not allow refunds", supportCase.CaseType),
			model.ErrSupportCaseType,
		)
	}

	// Step 3: Build the refund request
	refundRequest, err := w.buildRequest(customerID, req)
	if err != nil {
		return nil, err
	}

	// Step 4: Compute submission-time verdict
	now := time.Now()
	verdict, err := model.EvaluateEligibility(refundRequest.Items, now, w.windowDays, refundRequest.OverridesWindow())
	if err != nil {
		return nil, err
	}

	// Step 5: Persist
	refundCase := model.NewRefundCase(uuid.New(), refundRequest, verdict, w.windowDays, now)
	if err := w.repo.Create(ctx, refundCase); err != nil {
		return nil, err
	}

	log.Info().
		Str("refund_case_id", refundCase.ID.String()).
		Str("support_case_id", req.SupportCaseID.String()).
		Str("verdict", verdict.Status.String()).
		Str("refund_amount", verdict.RefundAmount.String()).
		Msg("Refund case submitted")

	return refundCase, nil
}

// =====================================================
// DECIDE
// =====================================================

// Decide applies an agent decision to a pending case. The repository's
// version check guarantees exactly one concurrent decision wins; the
// loser observes a stale write and gets an invalid-transition error.
func (w *refundWorkflow) Decide(ctx context.Context, caseID, agentID uuid.UUID, req model.DecideRefundRequest) (*model.RefundCase, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewRefundError(model.ErrCodeInvalidInput, err.Error(), model.ErrInvalidInput)
	}

	refundCase, err := w.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch req.Decision {
	case model.DecisionApprove:
		var amount *model.Money
		if req.Amount != nil {
			m, err := model.NewMoney(*req.Amount, refundCase.Request.RequestedAmount.Currency)
			if err != nil {
				return nil, err
			}
			amount = &m
		}
		if err := refundCase.Approve(agentID, now, amount); err != nil {
			return nil, err
		}

	case model.DecisionReject:
		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}
		if err := refundCase.Reject(agentID, now, reason); err != nil {
			return nil, err
		}
	}

	if err := w.save(ctx, refundCase, model.Event(req.Decision)); err != nil {
		return nil, err
	}

	log.Info().
		Str("refund_case_id", caseID.String()).
		Str("agent_id", agentID.String()).
		Str("decision", req.Decision).
		Str("status", refundCase.Status.String()).
		Msg("Refund decision recorded")

	// Queue approved cases for background execution; a full queue or a
	// dead broker only delays execution, it never undoes the approval
	if refundCase.IsApproved() && w.enqueuer != nil {
		if err := w.enqueuer.EnqueueExecution(ctx, refundCase.ID); err != nil {
			log.Error().Err(err).Str("refund_case_id", caseID.String()).Msg("Failed to enqueue refund execution")
		}
	}

	return refundCase, nil
}

// =====================================================
// EXECUTE / RETRY
// =====================================================

// Execute runs the approved case through the execution service
func (w *refundWorkflow) Execute(ctx context.Context, caseID uuid.UUID) (*model.RefundCase, error) {
	refundCase, err := w.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return w.executor.Execute(ctx, refundCase)
}

// Retry moves a failed case back to approved and queues it again
func (w *refundWorkflow) Retry(ctx context.Context, caseID, agentID uuid.UUID) (*model.RefundCase, error) {
	refundCase, err := w.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if err := refundCase.Retry(agentID, time.Now()); err != nil {
		return nil, err
	}
	if err := w.save(ctx, refundCase, model.EventRetry); err != nil {
		return nil, err
	}

	log.Info().
		Str("refund_case_id", caseID.String()).
		Str("agent_id", agentID.String()).
		Int("retry_count", refundCase.RetryCount).
		Msg("Refund case resubmitted for execution")

	if w.enqueuer != nil {
		if err := w.enqueuer.EnqueueExecution(ctx, refundCase.ID); err != nil {
			log.Error().Err(err).Str("refund_case_id", caseID.String()).Msg("Failed to enqueue refund execution")
		}
	}

	return refundCase, nil
}

// Cancel withdraws a pending or failed case
func (w *refundWorkflow) Cancel(ctx context.Context, caseID, agentID uuid.UUID) (*model.RefundCase, error) {
	refundCase, err := w.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if err := refundCase.Cancel(agentID, time.Now()); err != nil {
		return nil, err
	}
	if err := w.save(ctx, refundCase, model.EventCancel); err != nil {
		return nil, err
	}

	log.Info().
		Str("refund_case_id", caseID.String()).
		Str("agent_id", agentID.String()).
		Msg("Refund case cancelled")

	return refundCase, nil
}

// =====================================================
// QUERIES
// =====================================================

func (w *refundWorkflow) GetCase(ctx context.Context, caseID uuid.UUID) (*model.RefundCase, error) {
	return w.repo.GetByID(ctx, caseID)
}

func (w *refundWorkflow) ListCases(ctx context.Context, status model.RefundStatus, page, limit int) ([]*model.RefundCase, int, error) {
	if !status.IsValid() {
		return nil, 0, model.NewRefundError(
			model.ErrCodeInvalidInput,
			fmt.Sprintf("Invalid refund status: %s", status),
			model.ErrInvalidInput,
		)
	}
	return w.repo.ListByStatus(ctx, status, page, limit)
}

// =====================================================
// HELPERS
// =====================================================

func (w *refundWorkflow) buildRequest(customerID uuid.UUID, req model.SubmitRefundRequest) (*model.RefundRequest, error) {
	currency := req.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	items := make([]model.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		unitPrice, err := model.NewMoney(it.UnitPrice, currency)
		if err != nil {
			return nil, err
		}
		deliveryDate := time.Time{}
		if it.DeliveryDate != nil {
			deliveryDate = *it.DeliveryDate
		}
		item, err := model.NewLineItem(it.ProductID, it.ProductName, unitPrice, it.Quantity, deliveryDate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	requestedAmount, err := model.NewMoney(req.RequestedAmount, currency)
	if err != nil {
		return nil, err
	}

	requestDeliveryDate := time.Time{}
	if req.DeliveryDate != nil {
		requestDeliveryDate = *req.DeliveryDate
	}

	return model.NewRefundRequest(
		uuid.New(),
		req.SupportCaseID,
		customerID,
		req.OrderID,
		items,
		req.Reason,
		model.ReasonCode(req.ReasonCode),
		req.EvidenceRefs,
		requestedAmount,
		requestDeliveryDate,
	)
}

// save persists a transition, translating a stale write into the
// invalid-transition business error the losing decision deserves
func (w *refundWorkflow) save(ctx context.Context, refundCase *model.RefundCase, event model.Event) error {
	err := w.repo.Save(ctx, refundCase)
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrStaleCase) {
		return model.NewRefundError(
			model.ErrCodeStaleCase,
			fmt.Sprintf("Refund case was decided concurrently, %s lost", event),
			model.ErrInvalidTransition,
		)
	}
	return err
}

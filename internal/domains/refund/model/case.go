package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// REFUND CASE AGGREGATE
// =====================================================

// RefundCase is the aggregate root for one refund. It owns its
// RefundRequest exclusively and is mutated only through the transition
// methods below. Executed, Rejected and Cancelled are terminal; Failed
// only allows retry back to Approved. Cases are never hard-deleted.
type RefundCase struct {
	ID      uuid.UUID      `json:"id"`
	Request *RefundRequest `json:"request"`
	Status  RefundStatus   `json:"status"`

	// Verdict computed at submission time, kept for audit. Approval
	// re-evaluates against the current date rather than trusting this.
	Verdict    EligibilityVerdict `json:"verdict"`
	WindowDays int                `json:"window_days"`

	// Approval details
	ApprovedAmount *Money     `json:"approved_amount,omitempty"`
	ApprovedBy     *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`

	// Rejection details
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	// Cancellation details
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Execution details
	ExecutedAt          *time.Time `json:"executed_at,omitempty"`
	SettlementReference *string    `json:"settlement_reference,omitempty"`
	FailureReason       *string    `json:"failure_reason,omitempty"`
	RetryCount          int        `json:"retry_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Optimistic lock; bumped by the repository on every save
	Version int `json:"version"`
}

// NewRefundCase opens a case in pending status with the submission-time
// verdict attached.
func NewRefundCase(id uuid.UUID, request *RefundRequest, verdict EligibilityVerdict, windowDays int, now time.Time) *RefundCase {
	return &RefundCase{
		ID:         id,
		Request:    request,
		Status:     StatusPending,
		Verdict:    verdict,
		WindowDays: windowDays,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// =====================================================
// STATUS CHECKS
// =====================================================

func (c *RefundCase) IsPending() bool  { return c.Status == StatusPending }
func (c *RefundCase) IsApproved() bool { return c.Status == StatusApproved }
func (c *RefundCase) IsExecuted() bool { return c.Status == StatusExecuted }
func (c *RefundCase) IsFailed() bool   { return c.Status == StatusFailed }
func (c *RefundCase) IsTerminal() bool { return c.Status.IsTerminal() }

// EvaluateAtDecision recomputes the eligibility verdict against the
// given reference date. Approval must use this, not the stored verdict:
// the window may have lapsed between submission and decision.
func (c *RefundCase) EvaluateAtDecision(referenceDate time.Time) (EligibilityVerdict, error) {
	return EvaluateEligibility(c.Request.Items, referenceDate, c.WindowDays, c.Request.OverridesWindow())
}

// =====================================================
// TRANSITIONS
// =====================================================

// Approve moves a pending case to approved. The delivery window is
// re-validated against now; when no item remains eligible the approval
// fails with a window-expired error. A nil amount defaults to the full
// eligible amount from the fresh verdict; anything above it is refused.
// All checks run before any field is written.
func (c *RefundCase) Approve(agentID uuid.UUID, now time.Time, amount *Money) error {
	if c.Status != StatusPending {
		return NewTransitionError(c.Status, EventApprove)
	}

	verdict, err := c.EvaluateAtDecision(now)
	if err != nil {
		return err
	}
	if !verdict.IsEligible() {
		return NewWindowExpiredError(c.WindowDays)
	}

	approved := verdict.RefundAmount
	if amount != nil {
		cmp, err := amount.Cmp(verdict.RefundAmount)
		if err != nil {
			return err
		}
		if cmp > 0 {
			return NewAmountExceedsEligibleError(amount.String(), verdict.RefundAmount.String())
		}
		approved = *amount
	}

	c.Status = StatusApproved
	c.Verdict = verdict
	c.ApprovedAmount = &approved
	c.ApprovedBy = &agentID
	c.ApprovedAt = &now
	c.UpdatedAt = now
	return nil
}

// Reject moves a pending case to rejected. Terminal.
func (c *RefundCase) Reject(agentID uuid.UUID, now time.Time, reason string) error {
	if c.Status != StatusPending {
		return NewTransitionError(c.Status, EventReject)
	}
	if reason == "" {
		return NewRefundError(
			ErrCodeInvalidInput,
			"Rejection reason is required",
			ErrInvalidInput,
		)
	}

	c.Status = StatusRejected
	c.RejectedBy = &agentID
	c.RejectedAt = &now
	c.RejectionReason = &reason
	c.UpdatedAt = now
	return nil
}

// Cancel withdraws a pending or failed case. Terminal.
func (c *RefundCase) Cancel(agentID uuid.UUID, now time.Time) error {
	if c.Status != StatusPending && c.Status != StatusFailed {
		return NewTransitionError(c.Status, EventCancel)
	}

	c.Status = StatusCancelled
	c.CancelledBy = &agentID
	c.CancelledAt = &now
	c.UpdatedAt = now
	return nil
}

// MarkExecuted records a successful payment-gateway execution
func (c *RefundCase) MarkExecuted(settlementReference string, now time.Time) error {
	if c.Status != StatusApproved {
		return NewTransitionError(c.Status, EventExecute)
	}

	c.Status = StatusExecuted
	c.SettlementReference = &settlementReference
	c.ExecutedAt = &now
	c.UpdatedAt = now
	return nil
}

// MarkFailed records a failed payment-gateway execution. The failure is
// a recorded business outcome, not an error to the caller.
func (c *RefundCase) MarkFailed(failureReason string, now time.Time) error {
	if c.Status != StatusApproved {
		return NewTransitionError(c.Status, EventExecute)
	}
	if failureReason == "" {
		failureReason = "refund execution failed"
	}

	c.Status = StatusFailed
	c.FailureReason = &failureReason
	c.UpdatedAt = now
	return nil
}

// Retry resubmits a failed case for execution, clearing the failure
// reason. How often a case may be retried is the caller's policy.
func (c *RefundCase) Retry(agentID uuid.UUID, now time.Time) error {
	if c.Status != StatusFailed {
		return NewTransitionError(c.Status, EventRetry)
	}

	c.Status = StatusApproved
	c.FailureReason = nil
	c.RetryCount++
	c.ApprovedBy = &agentID
	c.UpdatedAt = now
	return nil
}

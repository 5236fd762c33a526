package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrInvalidAmount         = errors.New("amount cannot be negative")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
	ErrNegativeResult        = errors.New("resulting amount cannot be negative")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidTransition     = errors.New("invalid state transition")
	ErrWindowExpired         = errors.New("delivery window expired")
	ErrAmountExceedsEligible = errors.New("approved amount exceeds eligible amount")
	ErrCaseNotFound          = errors.New("refund case not found")
	ErrStaleCase             = errors.New("refund case was modified concurrently")
	ErrSupportCaseNotFound   = errors.New("support case not found")
	ErrSupportCaseNotOpen    = errors.New("support case is not open")
	ErrSupportCaseType       = errors.New("support case type is not refund eligible")
	ErrAmountReconciliation  = errors.New("requested amount does not match item totals")
)

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeInvalidAmount         = "RFD001"
	ErrCodeCurrencyMismatch      = "RFD002"
	ErrCodeNegativeResult        = "RFD003"
	ErrCodeInvalidInput          = "RFD004"
	ErrCodeInvalidTransition     = "RFD005"
	ErrCodeWindowExpired         = "RFD006"
	ErrCodeAmountExceedsEligible = "RFD007"
	ErrCodeCaseNotFound          = "RFD008"
	ErrCodeStaleCase             = "RFD009"
	ErrCodeSupportCaseNotFound   = "RFD010"
	ErrCodeSupportCaseNotOpen    = "RFD011"
	ErrCodeSupportCaseType       = "RFD012"
	ErrCodeAmountReconciliation  = "RFD013"
	ErrCodeUnauthorized          = "RFD014"
	ErrCodeInternalError         = "RFD015"
)

// =====================================================
// CUSTOM REFUND ERROR
// =====================================================

type RefundError struct {
	Code    string
	Message string
	Err     error
}

func (e *RefundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RefundError) Unwrap() error {
	return e.Err
}

// NewRefundError creates a new refund error
func NewRefundError(code, message string, err error) *RefundError {
	return &RefundError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// TRANSITION ERROR
// =====================================================

// TransitionError reports an illegal state-machine event. The case is
// left untouched whenever one of these is returned.
type TransitionError struct {
	From  RefundStatus
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s refund case in '%s' status", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewTransitionError creates an invalid-transition error
func NewTransitionError(from RefundStatus, event Event) *TransitionError {
	return &TransitionError{From: from, Event: event}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewWindowExpiredError(windowDays int) *RefundError {
	return NewRefundError(
		ErrCodeWindowExpired,
		fmt.Sprintf("Refund approval window has expired (%d-day delivery window)", windowDays),
		ErrWindowExpired,
	)
}

func NewAmountExceedsEligibleError(requested, eligible string) *RefundError {
	return NewRefundError(
		ErrCodeAmountExceedsEligible,
		fmt.Sprintf("Approved amount %s exceeds eligible amount %s", requested, eligible),
		ErrAmountExceedsEligible,
	)
}

func NewCaseNotFoundError(id string) *RefundError {
	return NewRefundError(
		ErrCodeCaseNotFound,
		fmt.Sprintf("Refund case not found: %s", id),
		ErrCaseNotFound,
	)
}

func NewSupportCaseNotOpenError(status string) *RefundError {
	return NewRefundError(
		ErrCodeSupportCaseNotOpen,
		fmt.Sprintf("Support case status is '%s', must be open to attach a refund", status),
		ErrSupportCaseNotOpen,
	)
}

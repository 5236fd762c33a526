package model

// =====================================================
// REFUND CASE STATUS
// =====================================================

// RefundStatus represents the lifecycle state of a refund case
type RefundStatus string

const (
	StatusPending   RefundStatus = "pending"
	StatusApproved  RefundStatus = "approved"
	StatusRejected  RefundStatus = "rejected"
	StatusExecuted  RefundStatus = "executed"
	StatusFailed    RefundStatus = "failed"
	StatusCancelled RefundStatus = "cancelled"
)

var ValidStatuses = []RefundStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusExecuted,
	StatusFailed,
	StatusCancelled,
}

func (s RefundStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected,
		StatusExecuted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func (s RefundStatus) String() string {
	return string(s)
}

// IsTerminal returns true when no further transition is defined.
// Failed is semi-terminal: retry back to approved is still legal.
func (s RefundStatus) IsTerminal() bool {
	return s == StatusExecuted || s == StatusRejected || s == StatusCancelled
}

// =====================================================
// TRANSITION EVENTS
// =====================================================

// Event names a state-machine transition attempt, used in
// invalid-transition errors and audit logs.
type Event string

const (
	EventApprove Event = "approve"
	EventReject  Event = "reject"
	EventCancel  Event = "cancel"
	EventExecute Event = "execute"
	EventRetry   Event = "retry"
)

// =====================================================
// ELIGIBILITY STATUS
// =====================================================

// EligibilityStatus is the aggregated verdict over a request's line items
type EligibilityStatus string

const (
	EligibilityEligible          EligibilityStatus = "eligible"
	EligibilityPartiallyEligible EligibilityStatus = "partially_eligible"
	EligibilityIneligible        EligibilityStatus = "ineligible"
)

func (s EligibilityStatus) String() string {
	return string(s)
}

// =====================================================
// REQUEST REASON CODES
// =====================================================

// ReasonCode categorizes why the customer wants a refund.
// Defect and damage reasons override the delivery window check.
type ReasonCode string

const (
	ReasonDefective   ReasonCode = "defective"
	ReasonDamaged     ReasonCode = "damaged_in_transit"
	ReasonWrongItem   ReasonCode = "wrong_item"
	ReasonNotAsListed ReasonCode = "not_as_listed"
	ReasonChangedMind ReasonCode = "changed_mind"
	ReasonOther       ReasonCode = "other"
)

var ValidReasonCodes = []ReasonCode{
	ReasonDefective,
	ReasonDamaged,
	ReasonWrongItem,
	ReasonNotAsListed,
	ReasonChangedMind,
	ReasonOther,
}

func (r ReasonCode) IsValid() bool {
	switch r {
	case ReasonDefective, ReasonDamaged, ReasonWrongItem,
		ReasonNotAsListed, ReasonChangedMind, ReasonOther:
		return true
	}
	return false
}

// OverridesWindow reports whether this reason makes every item
// refundable regardless of the delivery window.
func (r ReasonCode) OverridesWindow() bool {
	return r == ReasonDefective || r == ReasonDamaged
}

// =====================================================
// BUSINESS CONSTANTS
// =====================================================
const (
	// Delivery window (days after delivery a refund may be requested,
	// inclusive on both ends)
	DefaultWindowDays = 14

	// Default currency
	DefaultCurrency = "USD"

	// Tolerance when reconciling requested_amount against item totals
	AmountTolerance = "0.01"
)

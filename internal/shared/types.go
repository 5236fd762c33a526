package shared

import "github.com/google/uuid"

// Task type names shared between the API (producer) and the worker
// (consumer)
const (
	TypeExecuteRefund = "refund:execute"
)

// ExecuteRefundPayload carries an approved case to the worker
type ExecuteRefundPayload struct {
	RefundCaseID uuid.UUID `json:"refund_case_id"`
}

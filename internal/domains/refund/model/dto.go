package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// SUBMIT REFUND REQUEST
// =====================================================

type SubmitRefundItem struct {
	ProductID    string          `json:"product_id" binding:"required"`
	ProductName  string          `json:"product_name"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
}

type SubmitRefundRequest struct {
	SupportCaseID   uuid.UUID          `json:"support_case_id" binding:"required"`
	OrderID         uuid.UUID          `json:"order_id" binding:"required"`
	Items           []SubmitRefundItem `json:"items" binding:"required,min=1"`
	Reason          string             `json:"reason" binding:"required"`
	ReasonCode      string             `json:"reason_code" binding:"required"`
	EvidenceRefs    []string           `json:"evidence_refs,omitempty"`
	RequestedAmount decimal.Decimal    `json:"requested_amount" binding:"required"`
	Currency        string             `json:"currency,omitempty"`
	DeliveryDate    *time.Time         `json:"delivery_date,omitempty"`
}

// Validate validates SubmitRefundRequest
func (req SubmitRefundRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SupportCaseID, validation.Required),
		validation.Field(&req.OrderID, validation.Required),
		validation.Field(&req.Items, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 2000)),
		validation.Field(&req.ReasonCode, validation.Required, validation.In(
			string(ReasonDefective),
			string(ReasonDamaged),
			string(ReasonWrongItem),
			string(ReasonNotAsListed),
			string(ReasonChangedMind),
			string(ReasonOther),
		)),
	)
}

// =====================================================
// DECIDE REQUEST (APPROVE / REJECT)
// =====================================================

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type DecideRefundRequest struct {
	Decision string `json:"decision" binding:"required"`

	// Approve only; defaults to the full eligible amount
	Amount *decimal.Decimal `json:"amount,omitempty"`

	// Reject only; required for rejections
	Reason *string `json:"reason,omitempty"`
}

// Validate validates DecideRefundRequest
func (req DecideRefundRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Decision, validation.Required, validation.In(
			DecisionApprove,
			DecisionReject,
		)),
		validation.Field(&req.Reason, validation.Required.When(req.Decision == DecisionReject)),
	)
}

// =====================================================
// RESPONSES
// =====================================================

type RefundItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	DeliveryDate time.Time       `json:"delivery_date"`
}

type VerdictResponse struct {
	Status       string          `json:"status"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Currency     string          `json:"currency"`
	Items        []ItemVerdict   `json:"items"`
}

type RefundCaseResponse struct {
	ID            uuid.UUID `json:"id"`
	SupportCaseID uuid.UUID `json:"support_case_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	OrderID       uuid.UUID `json:"order_id"`
	Status        string    `json:"status"`

	Items           []RefundItemResponse `json:"items"`
	Reason          string               `json:"reason"`
	ReasonCode      string               `json:"reason_code"`
	EvidenceRefs    []string             `json:"evidence_refs,omitempty"`
	RequestedAmount decimal.Decimal      `json:"requested_amount"`
	Currency        string               `json:"currency"`

	Verdict VerdictResponse `json:"verdict"`

	ApprovedAmount      *decimal.Decimal `json:"approved_amount,omitempty"`
	ApprovedBy          *uuid.UUID       `json:"approved_by,omitempty"`
	ApprovedAt          *time.Time       `json:"approved_at,omitempty"`
	RejectionReason     *string          `json:"rejection_reason,omitempty"`
	SettlementReference *string          `json:"settlement_reference,omitempty"`
	FailureReason       *string          `json:"failure_reason,omitempty"`
	ExecutedAt          *time.Time       `json:"executed_at,omitempty"`
	RetryCount          int              `json:"retry_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRefundCaseResponse maps the aggregate to its API shape
func NewRefundCaseResponse(c *RefundCase) *RefundCaseResponse {
	items := make([]RefundItemResponse, 0, len(c.Request.Items))
	for _, item := range c.Request.Items {
		items = append(items, RefundItemResponse{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			UnitPrice:    item.UnitPrice.Amount,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal().Amount,
			DeliveryDate: item.DeliveryDate,
		})
	}

	resp := &RefundCaseResponse{
		ID:              c.ID,
		SupportCaseID:   c.Request.SupportCaseID,
		CustomerID:      c.Request.CustomerID,
		OrderID:         c.Request.OrderID,
		Status:          c.Status.String(),
		Items:           items,
		Reason:          c.Request.Reason,
		ReasonCode:      string(c.Request.ReasonCode),
		EvidenceRefs:    c.Request.EvidenceRefs,
		RequestedAmount: c.Request.RequestedAmount.Amount,
		Currency:        c.Request.RequestedAmount.Currency,
		Verdict: VerdictResponse{
			Status:       c.Verdict.Status.String(),
			RefundAmount: c.Verdict.RefundAmount.Amount,
			Currency:     c.Verdict.RefundAmount.Currency,
			Items:        c.Verdict.Items,
		},
		ApprovedBy:          c.ApprovedBy,
		ApprovedAt:          c.ApprovedAt,
		RejectionReason:     c.RejectionReason,
		SettlementReference: c.SettlementReference,
		FailureReason:       c.FailureReason,
		ExecutedAt:          c.ExecutedAt,
		RetryCount:          c.RetryCount,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if c.ApprovedAmount != nil {
		resp.ApprovedAmount = &c.ApprovedAmount.Amount
	}
	return resp
}

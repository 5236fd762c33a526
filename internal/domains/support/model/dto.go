package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// CREATE SUPPORT CASE REQUEST
// =====================================================

type CreateSupportCaseRequest struct {
	OrderID          uuid.UUID `json:"order_id" binding:"required"`
	CaseType         string    `json:"case_type" binding:"required"`
	IssueDescription string    `json:"issue_description" binding:"required"`
}

// Validate validates CreateSupportCaseRequest
func (req CreateSupportCaseRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.OrderID, validation.Required),
		validation.Field(&req.CaseType, validation.Required, validation.In(
			string(CaseTypeRefundRequest),
			string(CaseTypeDamagedItem),
			string(CaseTypeDefectiveItem),
			string(CaseTypeDeliveryIssue),
			string(CaseTypeGeneralInquiry),
		)),
		validation.Field(&req.IssueDescription, validation.Required, validation.Length(1, 4000)),
	)
}

// =====================================================
// SUPPORT CASE RESPONSE
// =====================================================

type SupportCaseResponse struct {
	ID               uuid.UUID      `json:"id"`
	CustomerID       uuid.UUID      `json:"customer_id"`
	OrderID          uuid.UUID      `json:"order_id"`
	CaseType         string         `json:"case_type"`
	IssueDescription string         `json:"issue_description"`
	Status           string         `json:"status"`
	AssignedAgentID  *uuid.UUID     `json:"assigned_agent_id,omitempty"`
	History          []HistoryEntry `json:"history,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	ClosedAt         *time.Time     `json:"closed_at,omitempty"`
}

// NewSupportCaseResponse maps the entity to its API shape
func NewSupportCaseResponse(c *SupportCase) *SupportCaseResponse {
	return &SupportCaseResponse{
		ID:               c.ID,
		CustomerID:       c.CustomerID,
		OrderID:          c.OrderID,
		CaseType:         string(c.CaseType),
		IssueDescription: c.IssueDescription,
		Status:           c.Status.String(),
		AssignedAgentID:  c.AssignedAgentID,
		History:          c.History,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		ClosedAt:         c.ClosedAt,
	}
}

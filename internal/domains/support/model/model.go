package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// SUPPORT CASE STATUS
// =====================================================

type CaseStatus string

const (
	CaseStatusOpen   CaseStatus = "open"
	CaseStatusClosed CaseStatus = "closed"
)

func (s CaseStatus) IsValid() bool {
	return s == CaseStatusOpen || s == CaseStatusClosed
}

func (s CaseStatus) String() string {
	return string(s)
}

// =====================================================
// SUPPORT CASE TYPE
// =====================================================

type CaseType string

const (
	CaseTypeRefundRequest  CaseType = "refund_request"
	CaseTypeDamagedItem    CaseType = "damaged_item"
	CaseTypeDefectiveItem  CaseType = "defective_item"
	CaseTypeDeliveryIssue  CaseType = "delivery_issue"
	CaseTypeGeneralInquiry CaseType = "general_inquiry"
)

var ValidCaseTypes = []CaseType{
	CaseTypeRefundRequest,
	CaseTypeDamagedItem,
	CaseTypeDefectiveItem,
	CaseTypeDeliveryIssue,
	CaseTypeGeneralInquiry,
}

func (t CaseType) IsValid() bool {
	switch t {
	case CaseTypeRefundRequest, CaseTypeDamagedItem, CaseTypeDefectiveItem,
		CaseTypeDeliveryIssue, CaseTypeGeneralInquiry:
		return true
	}
	return false
}

// RefundEligible reports whether a refund case may be attached to a
// support case of this type
func (t CaseType) RefundEligible() bool {
	switch t {
	case CaseTypeRefundRequest, CaseTypeDamagedItem, CaseTypeDefectiveItem:
		return true
	}
	return false
}

// =====================================================
// SUPPORT CASE ENTITY
// =====================================================

// HistoryEntry is one audit record on a support case
type HistoryEntry struct {
	Action    string                 `json:"action"`
	Timestamp time.Time              `json:"timestamp"`
	ActorID   string                 `json:"actor_id"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// SupportCase is the customer-facing case a refund hangs off. Closing a
// support case has no effect on refund cases already opened against it.
type SupportCase struct {
	ID               uuid.UUID      `json:"id"`
	CustomerID       uuid.UUID      `json:"customer_id"`
	OrderID          uuid.UUID      `json:"order_id"`
	CaseType         CaseType       `json:"case_type"`
	IssueDescription string         `json:"issue_description"`
	Status           CaseStatus     `json:"status"`
	AssignedAgentID  *uuid.UUID     `json:"assigned_agent_id,omitempty"`
	History          []HistoryEntry `json:"history,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// IsOpen reports whether the case still accepts refund requests
func (c *SupportCase) IsOpen() bool {
	return c.Status == CaseStatusOpen
}

// CanAttachRefund checks the two preconditions for opening a refund
// case against this support case
func (c *SupportCase) CanAttachRefund() bool {
	return c.IsOpen() && c.CaseType.RefundEligible()
}

// AddHistory appends an audit entry
func (c *SupportCase) AddHistory(action, actorID string, details map[string]interface{}) {
	c.History = append(c.History, HistoryEntry{
		Action:    action,
		Timestamp: time.Now(),
		ActorID:   actorID,
		Details:   details,
	})
}

// Close closes the case. Already-closed cases cannot be closed again.
func (c *SupportCase) Close(agentID uuid.UUID, now time.Time) error {
	if c.Status == CaseStatusClosed {
		return ErrCaseAlreadyClosed
	}
	c.Status = CaseStatusClosed
	c.ClosedAt = &now
	c.UpdatedAt = now
	c.AddHistory("case_closed", agentID.String(), map[string]interface{}{"status": CaseStatusClosed.String()})
	return nil
}

// Reopen reopens a closed case
func (c *SupportCase) Reopen(agentID uuid.UUID, now time.Time) error {
	if c.Status == CaseStatusOpen {
		return ErrCaseAlreadyOpen
	}
	c.Status = CaseStatusOpen
	c.ClosedAt = nil
	c.UpdatedAt = now
	c.AddHistory("case_reopened", agentID.String(), map[string]interface{}{"status": CaseStatusOpen.String()})
	return nil
}

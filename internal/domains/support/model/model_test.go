package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCase(caseType CaseType) *SupportCase {
	return &SupportCase{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		CaseType:   caseType,
		Status:     CaseStatusOpen,
	}
}

func TestCanAttachRefund(t *testing.T) {
	cases := []struct {
		name     string
		caseType CaseType
		status   CaseStatus
		want     bool
	}{
		{"open refund request", CaseTypeRefundRequest, CaseStatusOpen, true},
		{"open damaged item", CaseTypeDamagedItem, CaseStatusOpen, true},
		{"open defective item", CaseTypeDefectiveItem, CaseStatusOpen, true},
		{"open delivery issue", CaseTypeDeliveryIssue, CaseStatusOpen, false},
		{"open general inquiry", CaseTypeGeneralInquiry, CaseStatusOpen, false},
		{"closed refund request", CaseTypeRefundRequest, CaseStatusClosed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := openCase(tc.caseType)
			c.Status = tc.status
			assert.Equal(t, tc.want, c.CanAttachRefund())
		})
	}
}

func TestCloseAndReopen(t *testing.T) {
	agentID := uuid.New()
	now := time.Now()

	t.Run("close records timestamp and history", func(t *testing.T) {
		c := openCase(CaseTypeRefundRequest)

		require.NoError(t, c.Close(agentID, now))
		assert.Equal(t, CaseStatusClosed, c.Status)
		require.NotNil(t, c.ClosedAt)

		require.Len(t, c.History, 1)
		assert.Equal(t, "case_closed", c.History[0].Action)
		assert.Equal(t, agentID.String(), c.History[0].ActorID)
	})

	t.Run("double close refused", func(t *testing.T) {
		c := openCase(CaseTypeRefundRequest)
		require.NoError(t, c.Close(agentID, now))

		err := c.Close(agentID, now)
		assert.ErrorIs(t, err, ErrCaseAlreadyClosed)
	})

	t.Run("reopen clears closed timestamp", func(t *testing.T) {
		c := openCase(CaseTypeRefundRequest)
		require.NoError(t, c.Close(agentID, now))

		require.NoError(t, c.Reopen(agentID, now))
		assert.Equal(t, CaseStatusOpen, c.Status)
		assert.Nil(t, c.ClosedAt)
		assert.Len(t, c.History, 2)
	})

	t.Run("reopen of an open case refused", func(t *testing.T) {
		c := openCase(CaseTypeRefundRequest)
		err := c.Reopen(agentID, now)
		assert.ErrorIs(t, err, ErrCaseAlreadyOpen)
	})
}

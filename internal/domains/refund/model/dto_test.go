package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmitRequest() SubmitRefundRequest {
	return SubmitRefundRequest{
		SupportCaseID: uuid.New(),
		OrderID:       uuid.New(),
		Items: []SubmitRefundItem{
			{ProductID: "sofa-1", UnitPrice: decimal.RequireFromString("899.00"), Quantity: 1},
		},
		Reason:          "arrived damaged",
		ReasonCode:      string(ReasonDamaged),
		RequestedAmount: decimal.RequireFromString("899.00"),
	}
}

func TestSubmitRefundRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validSubmitRequest().Validate())
	})

	t.Run("unknown reason code", func(t *testing.T) {
		req := validSubmitRequest()
		req.ReasonCode = "buyer_remorse"
		assert.Error(t, req.Validate())
	})

	t.Run("missing items", func(t *testing.T) {
		req := validSubmitRequest()
		req.Items = nil
		assert.Error(t, req.Validate())
	})

	t.Run("missing reason", func(t *testing.T) {
		req := validSubmitRequest()
		req.Reason = ""
		assert.Error(t, req.Validate())
	})
}

func TestDecideRefundRequestValidate(t *testing.T) {
	t.Run("approve without amount", func(t *testing.T) {
		req := DecideRefundRequest{Decision: DecisionApprove}
		require.NoError(t, req.Validate())
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		req := DecideRefundRequest{Decision: DecisionReject}
		assert.Error(t, req.Validate())

		reason := "not covered"
		req.Reason = &reason
		require.NoError(t, req.Validate())
	})

	t.Run("unknown decision", func(t *testing.T) {
		req := DecideRefundRequest{Decision: "escalate"}
		assert.Error(t, req.Validate())
	})
}

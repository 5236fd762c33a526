package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestCase(t *testing.T, delivered time.Time, reasonCode ReasonCode) *RefundCase {
	t.Helper()

	items := []LineItem{mustItem(t, "sofa-1", "899.00", 1, delivered)}
	req, err := NewRefundRequest(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		items, "item arrived scratched", reasonCode, nil,
		MustMoney("899.00", "USD"), delivered,
	)
	require.NoError(t, err)

	verdict, err := EvaluateEligibility(items, testNow, DefaultWindowDays, req.OverridesWindow())
	require.NoError(t, err)

	return NewRefundCase(uuid.New(), req, verdict, DefaultWindowDays, testNow)
}

func TestApprove(t *testing.T) {
	agentID := uuid.New()

	t.Run("full eligible amount by default", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)

		err := c.Approve(agentID, testNow, nil)
		require.NoError(t, err)

		assert.Equal(t, StatusApproved, c.Status)
		require.NotNil(t, c.ApprovedAmount)
		assert.True(t, c.ApprovedAmount.Equal(MustMoney("899.00", "USD")))
		assert.Equal(t, agentID, *c.ApprovedBy)
	})

	t.Run("partial amount", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		partial := MustMoney("400.00", "USD")

		err := c.Approve(agentID, testNow, &partial)
		require.NoError(t, err)
		assert.True(t, c.ApprovedAmount.Equal(partial))
	})

	t.Run("amount above eligible refused", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		tooMuch := MustMoney("1000.00", "USD")

		err := c.Approve(agentID, testNow, &tooMuch)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAmountExceedsEligible))
		assert.Equal(t, StatusPending, c.Status)
		assert.Nil(t, c.ApprovedAmount)
	})

	t.Run("window re-validated at decision time", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -10), ReasonChangedMind)

		// Submission-time verdict said eligible, but the clock moved on
		lateDecision := testNow.AddDate(0, 0, 10)
		err := c.Approve(agentID, lateDecision, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWindowExpired))
		assert.Equal(t, StatusPending, c.Status)
	})

	t.Run("defect reason survives a late decision", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -10), ReasonDefective)

		err := c.Approve(agentID, testNow.AddDate(0, 0, 10), nil)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, c.Status)
	})

	t.Run("only pending cases can be approved", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		require.NoError(t, c.Approve(agentID, testNow, nil))

		err := c.Approve(agentID, testNow, nil)
		var transErr *TransitionError
		require.ErrorAs(t, err, &transErr)
		assert.Equal(t, StatusApproved, transErr.From)
		assert.Equal(t, EventApprove, transErr.Event)
	})
}

func TestReject(t *testing.T) {
	agentID := uuid.New()

	t.Run("pending to rejected", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)

		err := c.Reject(agentID, testNow, "outside return policy")
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, c.Status)
		assert.Equal(t, "outside return policy", *c.RejectionReason)
	})

	t.Run("reason required", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)

		err := c.Reject(agentID, testNow, "")
		require.Error(t, err)
		assert.Equal(t, StatusPending, c.Status)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		require.NoError(t, c.Reject(agentID, testNow, "no"))

		assert.True(t, c.IsTerminal())
		assert.Error(t, c.Approve(agentID, testNow, nil))
		assert.Error(t, c.Cancel(agentID, testNow))
	})
}

func TestCancel(t *testing.T) {
	agentID := uuid.New()

	t.Run("pending can be cancelled", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		require.NoError(t, c.Cancel(agentID, testNow))
		assert.Equal(t, StatusCancelled, c.Status)
	})

	t.Run("failed can be cancelled", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		require.NoError(t, c.Approve(agentID, testNow, nil))
		require.NoError(t, c.MarkFailed("gateway declined", testNow))

		require.NoError(t, c.Cancel(agentID, testNow))
		assert.Equal(t, StatusCancelled, c.Status)
	})

	t.Run("approved cannot be cancelled", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		require.NoError(t, c.Approve(agentID, testNow, nil))

		err := c.Cancel(agentID, testNow)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
	})
}

func TestExecutionTransitions(t *testing.T) {
	agentID := uuid.New()

	approved := func(t *testing.T) *RefundCase {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)
		require.NoError(t, c.Approve(agentID, testNow, nil))
		return c
	}

	t.Run("mark executed", func(t *testing.T) {
		c := approved(t)
		require.NoError(t, c.MarkExecuted("txn-1234", testNow))

		assert.Equal(t, StatusExecuted, c.Status)
		assert.Equal(t, "txn-1234", *c.SettlementReference)
		assert.True(t, c.IsTerminal())
	})

	t.Run("mark failed records the reason", func(t *testing.T) {
		c := approved(t)
		require.NoError(t, c.MarkFailed("insufficient balance", testNow))

		assert.Equal(t, StatusFailed, c.Status)
		assert.Equal(t, "insufficient balance", *c.FailureReason)
		assert.False(t, c.IsTerminal())
	})

	t.Run("execute requires approved", func(t *testing.T) {
		c := newTestCase(t, testNow.AddDate(0, 0, -5), ReasonChangedMind)

		assert.Error(t, c.MarkExecuted("txn-1", testNow))
		assert.Error(t, c.MarkFailed("boom", testNow))
		assert.Equal(t, StatusPending, c.Status)
	})

	t.Run("retry returns a failed case to approved", func(t *testing.T) {
		c := approved(t)
		require.NoError(t, c.MarkFailed("timeout", testNow))

		require.NoError(t, c.Retry(agentID, testNow))
		assert.Equal(t, StatusApproved, c.Status)
		assert.Nil(t, c.FailureReason)
		assert.Equal(t, 1, c.RetryCount)
	})

	t.Run("retry requires failed", func(t *testing.T) {
		c := approved(t)
		err := c.Retry(agentID, testNow)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
	})
}

func TestNewRefundRequest(t *testing.T) {
	delivered := testNow.AddDate(0, 0, -3)
	items := []LineItem{mustItem(t, "sofa-1", "899.00", 1, delivered)}

	t.Run("requested amount must reconcile", func(t *testing.T) {
		_, err := NewRefundRequest(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			items, "broken leg", ReasonDefective, nil,
			MustMoney("500.00", "USD"), delivered,
		)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAmountReconciliation))
	})

	t.Run("tolerance absorbs rounding noise", func(t *testing.T) {
		_, err := NewRefundRequest(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			items, "broken leg", ReasonDefective, nil,
			MustMoney("899.01", "USD"), delivered,
		)
		require.NoError(t, err)
	})

	t.Run("items inherit the request delivery date", func(t *testing.T) {
		noDate, err := NewLineItem("chair-2", "chair", MustMoney("120.00", "USD"), 1, time.Time{})
		require.NoError(t, err)

		req, err := NewRefundRequest(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			[]LineItem{noDate}, "wrong color", ReasonNotAsListed, nil,
			MustMoney("120.00", "USD"), delivered,
		)
		require.NoError(t, err)
		assert.Equal(t, delivered, req.Items[0].DeliveryDate)
	})

	t.Run("item without any delivery date rejected", func(t *testing.T) {
		noDate, err := NewLineItem("chair-2", "chair", MustMoney("120.00", "USD"), 1, time.Time{})
		require.NoError(t, err)

		_, err = NewRefundRequest(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			[]LineItem{noDate}, "wrong color", ReasonNotAsListed, nil,
			MustMoney("120.00", "USD"), time.Time{},
		)
		require.Error(t, err)
	})

	t.Run("empty items rejected", func(t *testing.T) {
		_, err := NewRefundRequest(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			nil, "broken", ReasonDefective, nil,
			MustMoney("0", "USD"), delivered,
		)
		require.Error(t, err)
	})

	t.Run("invalid reason code rejected", func(t *testing.T) {
		_, err := NewRefundRequest(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			items, "broken", ReasonCode("whatever"), nil,
			MustMoney("899.00", "USD"), delivered,
		)
		require.Error(t, err)
	})
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"furnishop-backend/internal/domains/refund/gateway"
	"furnishop-backend/internal/domains/refund/model"
	supportmodel "furnishop-backend/internal/domains/support/model"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// --- Mock Support Lookup ---

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) GetCase(ctx context.Context, id uuid.UUID) (*supportmodel.SupportCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supportmodel.SupportCase), args.Error(1)
}

// --- Mock Enqueuer ---

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueExecution(ctx context.Context, caseID uuid.UUID) error {
	args := m.Called(ctx, caseID)
	return args.Error(0)
}

// --- Fixtures ---

func openSupportCase(caseType supportmodel.CaseType) *supportmodel.SupportCase {
	return &supportmodel.SupportCase{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		CaseType:   caseType,
		Status:     supportmodel.CaseStatusOpen,
	}
}

func submitRequest(supportCaseID uuid.UUID, delivered time.Time) model.SubmitRefundRequest {
	return model.SubmitRefundRequest{
		SupportCaseID: supportCaseID,
		OrderID:       uuid.New(),
		Items: []model.SubmitRefundItem{
			{
				ProductID:    "sofa-1",
				ProductName:  "leather sofa",
				UnitPrice:    decimal.RequireFromString("899.00"),
				Quantity:     1,
				DeliveryDate: &delivered,
			},
		},
		Reason:          "arrived with a broken leg",
		ReasonCode:      string(model.ReasonChangedMind),
		RequestedAmount: decimal.RequireFromString("899.00"),
	}
}

func newWorkflowFixture(t *testing.T) (*mockRepository, *mockLookup, *mockGateway, *mockEnqueuer, RefundWorkflow) {
	t.Helper()
	repo := new(mockRepository)
	lookup := new(mockLookup)
	gw := new(mockGateway)
	enq := new(mockEnqueuer)
	workflow := NewRefundWorkflow(repo, lookup, NewExecutionService(repo, gw), enq, model.DefaultWindowDays)
	return repo, lookup, gw, enq, workflow
}

// --- Submit ---

func TestSubmit(t *testing.T) {
	customerID := uuid.New()

	t.Run("opens a pending case with an eligibility verdict", func(t *testing.T) {
		repo, lookup, _, _, workflow := newWorkflowFixture(t)

		supportCase := openSupportCase(supportmodel.CaseTypeDamagedItem)
		lookup.On("GetCase", mock.Anything, supportCase.ID).Return(supportCase, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.RefundCase")).Return(nil)

		req := submitRequest(supportCase.ID, time.Now().AddDate(0, 0, -3))
		c, err := workflow.Submit(context.Background(), customerID, req)
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, c.Status)
		assert.Equal(t, model.EligibilityEligible, c.Verdict.Status)
		assert.Equal(t, customerID, c.Request.CustomerID)
		repo.AssertExpectations(t)
	})

	t.Run("ineligible requests still open a case", func(t *testing.T) {
		repo, lookup, _, _, workflow := newWorkflowFixture(t)

		supportCase := openSupportCase(supportmodel.CaseTypeRefundRequest)
		lookup.On("GetCase", mock.Anything, supportCase.ID).Return(supportCase, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.RefundCase")).Return(nil)

		req := submitRequest(supportCase.ID, time.Now().AddDate(0, 0, -30))
		c, err := workflow.Submit(context.Background(), customerID, req)
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, c.Status)
		assert.Equal(t, model.EligibilityIneligible, c.Verdict.Status)
	})

	t.Run("support case not found", func(t *testing.T) {
		_, lookup, _, _, workflow := newWorkflowFixture(t)

		caseID := uuid.New()
		lookup.On("GetCase", mock.Anything, caseID).Return(nil, supportmodel.ErrCaseNotFound)

		_, err := workflow.Submit(context.Background(), customerID, submitRequest(caseID, time.Now()))
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrSupportCaseNotFound))
	})

	t.Run("closed support case refused", func(t *testing.T) {
		_, lookup, _, _, workflow := newWorkflowFixture(t)

		supportCase := openSupportCase(supportmodel.CaseTypeDamagedItem)
		supportCase.Status = supportmodel.CaseStatusClosed
		lookup.On("GetCase", mock.Anything, supportCase.ID).Return(supportCase, nil)

		_, err := workflow.Submit(context.Background(), customerID, submitRequest(supportCase.ID, time.Now()))
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrSupportCaseNotOpen))
	})

	t.Run("general inquiry cannot carry a refund", func(t *testing.T) {
		_, lookup, _, _, workflow := newWorkflowFixture(t)

		supportCase := openSupportCase(supportmodel.CaseTypeGeneralInquiry)
		lookup.On("GetCase", mock.Anything, supportCase.ID).Return(supportCase, nil)

		_, err := workflow.Submit(context.Background(), customerID, submitRequest(supportCase.ID, time.Now()))
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrSupportCaseType))
	})

	t.Run("invalid body rejected before any lookup", func(t *testing.T) {
		_, lookup, _, _, workflow := newWorkflowFixture(t)

		_, err := workflow.Submit(context.Background(), customerID, model.SubmitRefundRequest{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidInput))
		lookup.AssertNotCalled(t, "GetCase", mock.Anything, mock.Anything)
	})
}

// --- Decide ---

func TestDecide(t *testing.T) {
	agentID := uuid.New()

	pendingCase := func(t *testing.T) *model.RefundCase {
		t.Helper()
		c := approvedCase(t)
		c.Status = model.StatusPending
		c.ApprovedAmount = nil
		c.ApprovedBy = nil
		c.ApprovedAt = nil
		return c
	}

	t.Run("approve queues background execution", func(t *testing.T) {
		repo, _, _, enq, workflow := newWorkflowFixture(t)

		c := pendingCase(t)
		repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil)
		enq.On("EnqueueExecution", mock.Anything, c.ID).Return(nil)

		decided, err := workflow.Decide(context.Background(), c.ID, agentID, model.DecideRefundRequest{
			Decision: model.DecisionApprove,
		})
		require.NoError(t, err)

		assert.Equal(t, model.StatusApproved, decided.Status)
		enq.AssertExpectations(t)
	})

	t.Run("enqueue failure does not undo the approval", func(t *testing.T) {
		repo, _, _, enq, workflow := newWorkflowFixture(t)

		c := pendingCase(t)
		repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil)
		enq.On("EnqueueExecution", mock.Anything, c.ID).Return(errors.New("broker down"))

		decided, err := workflow.Decide(context.Background(), c.ID, agentID, model.DecideRefundRequest{
			Decision: model.DecisionApprove,
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, decided.Status)
	})

	t.Run("reject records the reason", func(t *testing.T) {
		repo, _, _, enq, workflow := newWorkflowFixture(t)

		c := pendingCase(t)
		reason := "outside return policy"
		repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil)

		decided, err := workflow.Decide(context.Background(), c.ID, agentID, model.DecideRefundRequest{
			Decision: model.DecisionReject,
			Reason:   &reason,
		})
		require.NoError(t, err)

		assert.Equal(t, model.StatusRejected, decided.Status)
		assert.Equal(t, reason, *decided.RejectionReason)
		enq.AssertNotCalled(t, "EnqueueExecution", mock.Anything, mock.Anything)
	})

	t.Run("reject without a reason fails validation", func(t *testing.T) {
		repo, _, _, _, workflow := newWorkflowFixture(t)

		_, err := workflow.Decide(context.Background(), uuid.New(), agentID, model.DecideRefundRequest{
			Decision: model.DecisionReject,
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("concurrent decision loses on stale save", func(t *testing.T) {
		repo, _, _, _, workflow := newWorkflowFixture(t)

		c := pendingCase(t)
		repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(model.ErrStaleCase)

		_, err := workflow.Decide(context.Background(), c.ID, agentID, model.DecideRefundRequest{
			Decision: model.DecisionApprove,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidTransition))
	})
}

// --- Retry / Cancel ---

func TestRetry(t *testing.T) {
	agentID := uuid.New()

	t.Run("failed case is re-approved and re-queued", func(t *testing.T) {
		repo, _, _, enq, workflow := newWorkflowFixture(t)

		c := approvedCase(t)
		require.NoError(t, c.MarkFailed("timeout", time.Now()))

		repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil)
		enq.On("EnqueueExecution", mock.Anything, c.ID).Return(nil)

		retried, err := workflow.Retry(context.Background(), c.ID, agentID)
		require.NoError(t, err)

		assert.Equal(t, model.StatusApproved, retried.Status)
		assert.Nil(t, retried.FailureReason)
		assert.Equal(t, 1, retried.RetryCount)
		enq.AssertExpectations(t)
	})

	t.Run("only failed cases may retry", func(t *testing.T) {
		repo, _, _, _, workflow := newWorkflowFixture(t)

		c := approvedCase(t)
		repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)

		_, err := workflow.Retry(context.Background(), c.ID, agentID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidTransition))
	})
}

func TestCancelWorkflow(t *testing.T) {
	agentID := uuid.New()

	repo, _, _, _, workflow := newWorkflowFixture(t)

	c := approvedCase(t)
	c.Status = model.StatusPending
	repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)

	cancelled, err := workflow.Cancel(context.Background(), c.ID, agentID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

// --- Queries ---

func TestListCasesRejectsUnknownStatus(t *testing.T) {
	repo, _, _, _, workflow := newWorkflowFixture(t)

	_, _, err := workflow.ListCases(context.Background(), model.RefundStatus("bogus"), 1, 20)
	require.Error(t, err)
	repo.AssertNotCalled(t, "ListByStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- End to end through the executor ---

func TestExecuteThroughWorkflow(t *testing.T) {
	repo, _, gw, _, workflow := newWorkflowFixture(t)

	c := approvedCase(t)
	repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)
	gw.On("InitiateRefund", mock.Anything, c.ID.String(), *c.ApprovedAmount).
		Return(&gateway.RefundResult{Success: true, TransactionID: "txn-77"}, nil)

	executed, err := workflow.Execute(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExecuted, executed.Status)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"furnishop-backend/internal/domains/refund/gateway"
	"furnishop-backend/internal/domains/refund/model"
)

// --- Mock Repository ---

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, refundCase *model.RefundCase) error {
	args := m.Called(ctx, refundCase)
	return args.Error(0)
}

func (m *mockRepository) Save(ctx context.Context, refundCase *model.RefundCase) error {
	args := m.Called(ctx, refundCase)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RefundCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundCase), args.Error(1)
}

func (m *mockRepository) ListByStatus(ctx context.Context, status model.RefundStatus, page, limit int) ([]*model.RefundCase, int, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.RefundCase), args.Int(1), args.Error(2)
}

func (m *mockRepository) ListBySupportCase(ctx context.Context, supportCaseID uuid.UUID) ([]*model.RefundCase, error) {
	args := m.Called(ctx, supportCaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RefundCase), args.Error(1)
}

// --- Mock Gateway ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) InitiateRefund(ctx context.Context, referenceID string, amount model.Money) (*gateway.RefundResult, error) {
	args := m.Called(ctx, referenceID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.RefundResult), args.Error(1)
}

// --- Fixtures ---

func approvedCase(t *testing.T) *model.RefundCase {
	t.Helper()

	now := time.Now()
	delivered := now.AddDate(0, 0, -3)

	unitPrice, err := model.NewMoney(decimalFromString(t, "899.00"), "USD")
	require.NoError(t, err)
	item, err := model.NewLineItem("sofa-1", "leather sofa", unitPrice, 1, delivered)
	require.NoError(t, err)

	req, err := model.NewRefundRequest(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		[]model.LineItem{item}, "arrived scratched", model.ReasonDamaged, nil,
		unitPrice, delivered,
	)
	require.NoError(t, err)

	verdict, err := model.EvaluateEligibility(req.Items, now, model.DefaultWindowDays, true)
	require.NoError(t, err)

	c := model.NewRefundCase(uuid.New(), req, verdict, model.DefaultWindowDays, now)
	require.NoError(t, c.Approve(uuid.New(), now, nil))
	return c
}

// --- Tests ---

func TestExecuteSuccess(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockGateway)
	svc := NewExecutionService(repo, gw)

	c := approvedCase(t)

	gw.On("InitiateRefund", mock.Anything, c.ID.String(), *c.ApprovedAmount).
		Return(&gateway.RefundResult{Success: true, TransactionID: "txn-42"}, nil)
	repo.On("Save", mock.Anything, c).Return(nil)

	result, err := svc.Execute(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, model.StatusExecuted, result.Status)
	assert.Equal(t, "txn-42", *result.SettlementReference)
	repo.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestExecuteGatewayErrorBecomesFailedCase(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockGateway)
	svc := NewExecutionService(repo, gw)

	c := approvedCase(t)

	gw.On("InitiateRefund", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))
	repo.On("Save", mock.Anything, c).Return(nil)

	result, err := svc.Execute(context.Background(), c)
	require.NoError(t, err, "gateway errors must not surface to the caller")

	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Equal(t, "connection reset", *result.FailureReason)
}

func TestExecuteGatewayDeclineBecomesFailedCase(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockGateway)
	svc := NewExecutionService(repo, gw)

	c := approvedCase(t)

	gw.On("InitiateRefund", mock.Anything, mock.Anything, mock.Anything).
		Return(&gateway.RefundResult{Success: false, Message: "insufficient merchant balance"}, nil)
	repo.On("Save", mock.Anything, c).Return(nil)

	result, err := svc.Execute(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Equal(t, "insufficient merchant balance", *result.FailureReason)
}

func TestExecuteCancelledContextBecomesFailedCase(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockGateway)
	svc := NewExecutionService(repo, gw)

	c := approvedCase(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gw.On("InitiateRefund", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ctx.Err())
	repo.On("Save", mock.Anything, c).Return(nil)

	result, err := svc.Execute(ctx, c)
	require.NoError(t, err, "cancellation must not surface to the caller")

	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Equal(t, context.Canceled.Error(), *result.FailureReason)
	repo.AssertExpectations(t)
}

func TestExecuteRequiresApprovedStatus(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockGateway)
	svc := NewExecutionService(repo, gw)

	c := approvedCase(t)
	require.NoError(t, c.MarkExecuted("txn-1", time.Now()))

	_, err := svc.Execute(context.Background(), c)
	var transErr *model.TransitionError
	require.ErrorAs(t, err, &transErr)
	gw.AssertNotCalled(t, "InitiateRefund", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutePersistenceErrorSurfaces(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockGateway)
	svc := NewExecutionService(repo, gw)

	c := approvedCase(t)

	gw.On("InitiateRefund", mock.Anything, mock.Anything, mock.Anything).
		Return(&gateway.RefundResult{Success: true, TransactionID: "txn-9"}, nil)
	repo.On("Save", mock.Anything, c).Return(errors.New("db down"))

	_, err := svc.Execute(context.Background(), c)
	require.Error(t, err)
}

package job

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnishop-backend/internal/domains/refund/gateway"
	"furnishop-backend/internal/domains/refund/model"
	"furnishop-backend/internal/domains/refund/service"
	"furnishop-backend/internal/shared"
)

// In-memory repository, enough to drive the task handler
type fakeRepo struct {
	cases map[uuid.UUID]*model.RefundCase
	saved int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cases: map[uuid.UUID]*model.RefundCase{}}
}

func (r *fakeRepo) Create(ctx context.Context, c *model.RefundCase) error {
	r.cases[c.ID] = c
	return nil
}

func (r *fakeRepo) Save(ctx context.Context, c *model.RefundCase) error {
	r.saved++
	r.cases[c.ID] = c
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.RefundCase, error) {
	c, ok := r.cases[id]
	if !ok {
		return nil, model.NewCaseNotFoundError(id.String())
	}
	return c, nil
}

func (r *fakeRepo) ListByStatus(ctx context.Context, status model.RefundStatus, page, limit int) ([]*model.RefundCase, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) ListBySupportCase(ctx context.Context, supportCaseID uuid.UUID) ([]*model.RefundCase, error) {
	return nil, nil
}

type fakeGateway struct {
	calls  int
	result *gateway.RefundResult
}

func (g *fakeGateway) InitiateRefund(ctx context.Context, referenceID string, amount model.Money) (*gateway.RefundResult, error) {
	g.calls++
	return g.result, nil
}

func buildApprovedCase(t *testing.T) *model.RefundCase {
	t.Helper()

	now := time.Now()
	delivered := now.AddDate(0, 0, -2)

	price, err := model.NewMoney(decimal.RequireFromString("250.00"), "USD")
	require.NoError(t, err)
	item, err := model.NewLineItem("desk-1", "oak desk", price, 1, delivered)
	require.NoError(t, err)

	req, err := model.NewRefundRequest(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		[]model.LineItem{item}, "wobbly legs", model.ReasonDefective, nil,
		price, delivered,
	)
	require.NoError(t, err)

	verdict, err := model.EvaluateEligibility(req.Items, now, model.DefaultWindowDays, true)
	require.NoError(t, err)

	c := model.NewRefundCase(uuid.New(), req, verdict, model.DefaultWindowDays, now)
	require.NoError(t, c.Approve(uuid.New(), now, nil))
	return c
}

func executeTask(t *testing.T, caseID uuid.UUID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(shared.ExecuteRefundPayload{RefundCaseID: caseID})
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeExecuteRefund, payload)
}

func TestProcessTaskExecutesApprovedCase(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{result: &gateway.RefundResult{Success: true, TransactionID: "txn-1"}}
	handler := NewExecuteRefundHandler(repo, service.NewExecutionService(repo, gw))

	c := buildApprovedCase(t)
	repo.cases[c.ID] = c

	err := handler.ProcessTask(context.Background(), executeTask(t, c.ID))
	require.NoError(t, err)

	assert.Equal(t, model.StatusExecuted, repo.cases[c.ID].Status)
	assert.Equal(t, 1, gw.calls)
}

func TestProcessTaskDropsMissingCase(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	handler := NewExecuteRefundHandler(repo, service.NewExecutionService(repo, gw))

	// Missing cases are not retryable, the handler must swallow them
	err := handler.ProcessTask(context.Background(), executeTask(t, uuid.New()))
	require.NoError(t, err)
	assert.Zero(t, gw.calls)
}

func TestProcessTaskIsIdempotentOnDuplicateDelivery(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{result: &gateway.RefundResult{Success: true, TransactionID: "txn-1"}}
	handler := NewExecuteRefundHandler(repo, service.NewExecutionService(repo, gw))

	c := buildApprovedCase(t)
	repo.cases[c.ID] = c

	require.NoError(t, handler.ProcessTask(context.Background(), executeTask(t, c.ID)))
	require.NoError(t, handler.ProcessTask(context.Background(), executeTask(t, c.ID)))

	assert.Equal(t, 1, gw.calls, "second delivery must not hit the gateway again")
	assert.Equal(t, model.StatusExecuted, repo.cases[c.ID].Status)
}

func TestProcessTaskRejectsGarbagePayload(t *testing.T) {
	repo := newFakeRepo()
	handler := NewExecuteRefundHandler(repo, service.NewExecutionService(repo, &fakeGateway{}))

	err := handler.ProcessTask(context.Background(), asynq.NewTask(shared.TypeExecuteRefund, []byte("not-json")))
	require.Error(t, err)
}

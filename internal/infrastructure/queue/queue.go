package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"furnishop-backend/internal/shared"
)

// NewAsynqClient creates the task producer used by the API process
func NewAsynqClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
}

// Enqueuer hands approved refund cases to the worker process
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates new enqueuer
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueExecution queues a refund execution task. Retries are left to
// asynq; the worker re-checks case status so duplicate deliveries are
// harmless.
func (e *Enqueuer) EnqueueExecution(ctx context.Context, caseID uuid.UUID) error {
	payload, err := json.Marshal(shared.ExecuteRefundPayload{RefundCaseID: caseID})
	if err != nil {
		return fmt.Errorf("marshal execute refund payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeExecuteRefund, payload)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Queue("refunds"),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeExecuteRefund, err)
	}
	return nil
}

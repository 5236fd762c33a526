package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"furnishop-backend/internal/domains/refund/model"
	"furnishop-backend/internal/domains/refund/repository"
	"furnishop-backend/internal/domains/refund/service"
	"furnishop-backend/internal/shared"
	"furnishop-backend/internal/shared/utils"
	"furnishop-backend/pkg/logger"
)

// ExecuteRefundHandler settles approved refund cases from the queue
type ExecuteRefundHandler struct {
	repo     repository.RefundCaseRepository
	executor *service.ExecutionService
}

func NewExecuteRefundHandler(repo repository.RefundCaseRepository, executor *service.ExecutionService) *ExecuteRefundHandler {
	return &ExecuteRefundHandler{
		repo:     repo,
		executor: executor,
	}
}

func (h *ExecuteRefundHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ExecuteRefundPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	logger.Info("Processing refund execution task", map[string]interface{}{
		"refund_case_id": payload.RefundCaseID,
	})

	refundCase, err := h.repo.GetByID(ctx, payload.RefundCaseID)
	if err != nil {
		if errors.Is(err, model.ErrCaseNotFound) {
			// Nothing to do and nothing to retry
			logger.Info("Refund case gone, dropping task", map[string]interface{}{
				"refund_case_id": payload.RefundCaseID,
			})
			return nil
		}
		return fmt.Errorf("load refund case: %w", err)
	}

	// Duplicate deliveries and manually executed cases land here
	if !refundCase.IsApproved() {
		logger.Info("Refund case no longer approved, dropping task", map[string]interface{}{
			"refund_case_id": payload.RefundCaseID,
			"status":         refundCase.Status.String(),
		})
		return nil
	}

	updated, err := h.executor.Execute(ctx, refundCase)
	if err != nil {
		return fmt.Errorf("execute refund: %w", err)
	}

	logger.Info("Refund execution task finished", map[string]interface{}{
		"refund_case_id": payload.RefundCaseID,
		"status":         updated.Status.String(),
	})

	return nil
}

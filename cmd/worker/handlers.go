package main

import (
	"github.com/hibiken/asynq"

	refundJob "furnishop-backend/internal/domains/refund/job"
	"furnishop-backend/internal/shared"
	"furnishop-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	executeRefund *refundJob.ExecuteRefundHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		executeRefund: refundJob.NewExecuteRefundHandler(c.RefundCaseRepo, c.ExecutionService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExecuteRefund, h.executeRefund.ProcessTask)
}

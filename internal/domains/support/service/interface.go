package service

import (
	"context"

	"github.com/google/uuid"

	"furnishop-backend/internal/domains/support/model"
)

// SupportCaseService is the business surface for support cases
type SupportCaseService interface {
	CreateCase(ctx context.Context, customerID uuid.UUID, req model.CreateSupportCaseRequest) (*model.SupportCase, error)
	GetCase(ctx context.Context, id uuid.UUID) (*model.SupportCase, error)
	ListCasesByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*model.SupportCase, int, error)
	CloseCase(ctx context.Context, id, agentID uuid.UUID) (*model.SupportCase, error)
	ReopenCase(ctx context.Context, id, agentID uuid.UUID) (*model.SupportCase, error)
}

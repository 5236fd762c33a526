package repository

import (
	"context"

	"github.com/google/uuid"

	"furnishop-backend/internal/domains/support/model"
)

// SupportCaseRepository persists support cases
type SupportCaseRepository interface {
	Create(ctx context.Context, supportCase *model.SupportCase) error
	Update(ctx context.Context, supportCase *model.SupportCase) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SupportCase, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*model.SupportCase, int, error)
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"furnishop-backend/internal/domains/refund/model"
)

// RefundCaseRepository persists refund cases. Save is the serialization
// point for concurrent decisions: it writes with an optimistic version
// check and fails with model.ErrStaleCase when another writer got there
// first, so exactly one transition on a case wins.
type RefundCaseRepository interface {
	// Create inserts a freshly submitted case (version 1)
	Create(ctx context.Context, refundCase *model.RefundCase) error

	// Save updates an existing case; fails with model.ErrStaleCase when
	// the in-memory version is behind the stored one
	Save(ctx context.Context, refundCase *model.RefundCase) error

	// GetByID loads one case; model.ErrCaseNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.RefundCase, error)

	// ListByStatus pages through cases in the given status, newest first
	ListByStatus(ctx context.Context, status model.RefundStatus, page, limit int) ([]*model.RefundCase, int, error)

	// ListBySupportCase returns all cases attached to a support case
	ListBySupportCase(ctx context.Context, supportCaseID uuid.UUID) ([]*model.RefundCase, error)
}

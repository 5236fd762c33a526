package repository

import (
	"context"

	"github.com/google/uuid"

	"furnishop-backend/internal/domains/agent/model"
)

// AgentRepository is the data access surface for agents
type AgentRepository interface {
	Create(ctx context.Context, agent *model.Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Agent, error)
	GetByEmail(ctx context.Context, email string) (*model.Agent, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

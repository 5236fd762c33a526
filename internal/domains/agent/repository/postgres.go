package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"furnishop-backend/internal/domains/agent/model"
)

// =====================================================
// AGENT REPOSITORY IMPLEMENTATION
// =====================================================
type agentRepository struct {
	pool *pgxpool.Pool
}

func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

const agentColumns = `
	id, email, password_hash, full_name, role, is_active,
	last_login_at, created_at, updated_at
`

// Create inserts a new agent
func (r *agentRepository) Create(ctx context.Context, a *model.Agent) error {
	query := `
		INSERT INTO agents (
			id, email, password_hash, full_name, role, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.FullName, a.Role, a.IsActive,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// GetByID loads an agent by primary key
func (r *agentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`
	return r.scanAgent(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail loads an agent by email
func (r *agentRepository) GetByEmail(ctx context.Context, email string) (*model.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE email = $1`
	return r.scanAgent(r.pool.QueryRow(ctx, query, email))
}

// ExistsByEmail reports whether an agent with this email exists
func (r *agentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM agents WHERE email = $1)`
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check agent email: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps the last successful login time
func (r *agentRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE agents SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *agentRepository) scanAgent(row pgx.Row) (*model.Agent, error) {
	var a model.Agent
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.Role, &a.IsActive,
		&a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}
	return &a, nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"furnishop-backend/internal/domains/support/model"
)

// =====================================================
// SUPPORT CASE REPOSITORY IMPLEMENTATION
// =====================================================
type supportCaseRepository struct {
	pool *pgxpool.Pool
}

func NewSupportCaseRepository(pool *pgxpool.Pool) SupportCaseRepository {
	return &supportCaseRepository{pool: pool}
}

const supportCaseColumns = `
	id, customer_id, order_id, case_type, issue_description, status,
	assigned_agent_id, history, created_at, updated_at, closed_at
`

// Create inserts a new support case
func (r *supportCaseRepository) Create(ctx context.Context, c *model.SupportCase) error {
	query := `
		INSERT INTO support_cases (
			id, customer_id, order_id, case_type, issue_description, status,
			assigned_agent_id, history, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	historyJSON, err := json.Marshal(c.History)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		c.ID,
		c.CustomerID,
		c.OrderID,
		string(c.CaseType),
		c.IssueDescription,
		c.Status.String(),
		c.AssignedAgentID,
		historyJSON,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create support case: %w", err)
	}
	return nil
}

// Update writes status, assignment, history and close timestamp
func (r *supportCaseRepository) Update(ctx context.Context, c *model.SupportCase) error {
	query := `
		UPDATE support_cases SET
			status = $1,
			assigned_agent_id = $2,
			history = $3,
			updated_at = $4,
			closed_at = $5
		WHERE id = $6
	`

	historyJSON, err := json.Marshal(c.History)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	result, err := r.pool.Exec(ctx, query,
		c.Status.String(),
		c.AssignedAgentID,
		historyJSON,
		c.UpdatedAt,
		c.ClosedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update support case: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCaseNotFound
	}
	return nil
}

// GetByID loads one support case
func (r *supportCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SupportCase, error) {
	query := `SELECT ` + supportCaseColumns + ` FROM support_cases WHERE id = $1`

	c, err := scanSupportCase(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get support case: %w", err)
	}
	return c, nil
}

// ListByCustomer pages through a customer's cases, newest first
func (r *supportCaseRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*model.SupportCase, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM support_cases WHERE customer_id = $1`, customerID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count support cases: %w", err)
	}

	query := `SELECT ` + supportCaseColumns + `
		FROM support_cases
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list support cases: %w", err)
	}
	defer rows.Close()

	cases := make([]*model.SupportCase, 0)
	for rows.Next() {
		c, err := scanSupportCase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan support case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate support cases: %w", err)
	}
	return cases, total, nil
}

func scanSupportCase(row pgx.Row) (*model.SupportCase, error) {
	var (
		c           model.SupportCase
		caseType    string
		status      string
		historyJSON []byte
	)

	err := row.Scan(
		&c.ID,
		&c.CustomerID,
		&c.OrderID,
		&caseType,
		&c.IssueDescription,
		&status,
		&c.AssignedAgentID,
		&historyJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ClosedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &c.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}

	c.CaseType = model.CaseType(caseType)
	c.Status = model.CaseStatus(status)
	return &c, nil
}

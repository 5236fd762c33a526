package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"furnishop-backend/internal/domains/refund/model"
	supportmodel "furnishop-backend/internal/domains/support/model"
	pkgdb "furnishop-backend/pkg/database"
)

// =====================================================
// REFUND CASE REPOSITORY IMPLEMENTATION
// =====================================================
type refundCaseRepository struct {
	pool *pgxpool.Pool
}

func NewRefundCaseRepository(pool *pgxpool.Pool) RefundCaseRepository {
	return &refundCaseRepository{pool: pool}
}

const caseColumns = `
	id, support_case_id, customer_id, order_id, items, reason, reason_code,
	evidence_refs, requested_amount, currency, delivery_date, status,
	verdict, window_days, approved_amount, approved_by, approved_at,
	rejected_by, rejected_at, rejection_reason, cancelled_by, cancelled_at,
	executed_at, settlement_reference, failure_reason, retry_count,
	created_at, updated_at, version
`

// Create inserts a new refund case with version 1 and stamps an audit
// entry on the owning support case, atomically
func (r *refundCaseRepository) Create(ctx context.Context, c *model.RefundCase) error {
	query := `
		INSERT INTO refund_cases (
			id, support_case_id, customer_id, order_id, items, reason, reason_code,
			evidence_refs, requested_amount, currency, delivery_date, status,
			verdict, window_days, retry_count, created_at, updated_at, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 1
		)
	`

	itemsJSON, err := json.Marshal(c.Request.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	verdictJSON, err := json.Marshal(c.Verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	evidenceJSON, err := json.Marshal(c.Request.EvidenceRefs)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence refs: %w", err)
	}

	historyJSON, err := json.Marshal([]supportmodel.HistoryEntry{{
		Action:    "refund_case_opened",
		Timestamp: c.CreatedAt,
		ActorID:   c.Request.CustomerID.String(),
		Details:   map[string]interface{}{"refund_case_id": c.ID.String()},
	}})
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	var deliveryDate *time.Time
	if !c.Request.DeliveryDate.IsZero() {
		deliveryDate = &c.Request.DeliveryDate
	}

	err = pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			c.ID,
			c.Request.SupportCaseID,
			c.Request.CustomerID,
			c.Request.OrderID,
			itemsJSON,
			c.Request.Reason,
			string(c.Request.ReasonCode),
			evidenceJSON,
			c.Request.RequestedAmount.Amount,
			c.Request.RequestedAmount.Currency,
			deliveryDate,
			c.Status.String(),
			verdictJSON,
			c.WindowDays,
			c.RetryCount,
			c.CreatedAt,
			c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create refund case: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE support_cases SET history = history || $2::jsonb, updated_at = $3 WHERE id = $1`,
			c.Request.SupportCaseID, historyJSON, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append support case history: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.Version = 1
	return nil
}

// Save writes the case back with an optimistic version check. A stale
// write (someone else transitioned the case since it was read) affects
// zero rows and surfaces as ErrStaleCase.
func (r *refundCaseRepository) Save(ctx context.Context, c *model.RefundCase) error {
	query := `
		UPDATE refund_cases SET
			status = $1,
			verdict = $2,
			approved_amount = $3,
			approved_by = $4,
			approved_at = $5,
			rejected_by = $6,
			rejected_at = $7,
			rejection_reason = $8,
			cancelled_by = $9,
			cancelled_at = $10,
			executed_at = $11,
			settlement_reference = $12,
			failure_reason = $13,
			retry_count = $14,
			updated_at = $15,
			version = version + 1
		WHERE id = $16 AND version = $17
	`

	verdictJSON, err := json.Marshal(c.Verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	var approvedAmount *decimal.Decimal
	if c.ApprovedAmount != nil {
		approvedAmount = &c.ApprovedAmount.Amount
	}

	result, err := r.pool.Exec(ctx, query,
		c.Status.String(),
		verdictJSON,
		approvedAmount,
		c.ApprovedBy,
		c.ApprovedAt,
		c.RejectedBy,
		c.RejectedAt,
		c.RejectionReason,
		c.CancelledBy,
		c.CancelledAt,
		c.ExecutedAt,
		c.SettlementReference,
		c.FailureReason,
		c.RetryCount,
		c.UpdatedAt,
		c.ID,
		c.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save refund case: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either the id does not exist or the version moved on
		exists, err := r.exists(ctx, c.ID)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrCaseNotFound
		}
		return model.ErrStaleCase
	}

	c.Version++
	return nil
}

// GetByID loads one refund case
func (r *refundCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RefundCase, error) {
	query := `SELECT ` + caseColumns + ` FROM refund_cases WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewCaseNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to get refund case: %w", err)
	}
	return c, nil
}

// ListByStatus pages through cases in a status, newest first
func (r *refundCaseRepository) ListByStatus(ctx context.Context, status model.RefundStatus, page, limit int) ([]*model.RefundCase, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	countQuery := `SELECT COUNT(*) FROM refund_cases WHERE status = $1`
	if err := r.pool.QueryRow(ctx, countQuery, status.String()).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count refund cases: %w", err)
	}

	query := `SELECT ` + caseColumns + `
		FROM refund_cases
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, status.String(), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list refund cases: %w", err)
	}
	defer rows.Close()

	cases, err := scanCases(rows)
	if err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// ListBySupportCase returns every refund case on a support case
func (r *refundCaseRepository) ListBySupportCase(ctx context.Context, supportCaseID uuid.UUID) ([]*model.RefundCase, error) {
	query := `SELECT ` + caseColumns + `
		FROM refund_cases
		WHERE support_case_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, supportCaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refund cases by support case: %w", err)
	}
	defer rows.Close()

	return scanCases(rows)
}

func (r *refundCaseRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM refund_cases WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check refund case existence: %w", err)
	}
	return exists, nil
}

// =====================================================
// ROW SCANNING
// =====================================================

func scanCase(row pgx.Row) (*model.RefundCase, error) {
	var (
		c            model.RefundCase
		req          model.RefundRequest
		itemsJSON    []byte
		verdictJSON  []byte
		evidenceJSON []byte
		reasonCode   string
		status       string
		amount       decimal.Decimal
		currency     string
		deliveryDate *time.Time
		approvedAmt  *decimal.Decimal
	)

	err := row.Scan(
		&c.ID,
		&req.SupportCaseID,
		&req.CustomerID,
		&req.OrderID,
		&itemsJSON,
		&req.Reason,
		&reasonCode,
		&evidenceJSON,
		&amount,
		&currency,
		&deliveryDate,
		&status,
		&verdictJSON,
		&c.WindowDays,
		&approvedAmt,
		&c.ApprovedBy,
		&c.ApprovedAt,
		&c.RejectedBy,
		&c.RejectedAt,
		&c.RejectionReason,
		&c.CancelledBy,
		&c.CancelledAt,
		&c.ExecutedAt,
		&c.SettlementReference,
		&c.FailureReason,
		&c.RetryCount,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Version,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &req.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	if err := json.Unmarshal(verdictJSON, &c.Verdict); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	if len(evidenceJSON) > 0 {
		if err := json.Unmarshal(evidenceJSON, &req.EvidenceRefs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evidence refs: %w", err)
		}
	}

	req.ID = c.ID
	req.ReasonCode = model.ReasonCode(reasonCode)
	req.RequestedAmount = model.Money{Amount: amount, Currency: currency}
	if deliveryDate != nil {
		req.DeliveryDate = *deliveryDate
	}
	if approvedAmt != nil {
		m := model.Money{Amount: *approvedAmt, Currency: currency}
		c.ApprovedAmount = &m
	}

	c.Request = &req
	c.Status = model.RefundStatus(status)
	return &c, nil
}

func scanCases(rows pgx.Rows) ([]*model.RefundCase, error) {
	cases := make([]*model.RefundCase, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refund case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate refund cases: %w", err)
	}
	return cases, nil
}

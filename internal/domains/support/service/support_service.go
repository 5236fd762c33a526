package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"furnishop-backend/internal/domains/support/model"
	"furnishop-backend/internal/domains/support/repository"
	"furnishop-backend/pkg/cache"
)

// =====================================================
// SUPPORT CASE SERVICE IMPLEMENTATION
// =====================================================

const (
	caseCacheKeyPrefix = "support_case:"
	caseCacheTTL       = 5 * time.Minute
)

type supportCaseService struct {
	repo  repository.SupportCaseRepository
	cache cache.Cache
}

func NewSupportCaseService(repo repository.SupportCaseRepository, c cache.Cache) SupportCaseService {
	return &supportCaseService{
		repo:  repo,
		cache: c,
	}
}

// CreateCase opens a new support case for a customer
func (s *supportCaseService) CreateCase(ctx context.Context, customerID uuid.UUID, req model.CreateSupportCaseRequest) (*model.SupportCase, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	supportCase := &model.SupportCase{
		ID:               uuid.New(),
		CustomerID:       customerID,
		OrderID:          req.OrderID,
		CaseType:         model.CaseType(req.CaseType),
		IssueDescription: req.IssueDescription,
		Status:           model.CaseStatusOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	supportCase.AddHistory("case_created", customerID.String(), map[string]interface{}{
		"case_type": req.CaseType,
	})

	if err := s.repo.Create(ctx, supportCase); err != nil {
		return nil, fmt.Errorf("failed to create support case: %w", err)
	}

	log.Info().
		Str("support_case_id", supportCase.ID.String()).
		Str("case_type", req.CaseType).
		Msg("Support case created")

	return supportCase, nil
}

// GetCase loads a support case, serving repeated reads from cache
func (s *supportCaseService) GetCase(ctx context.Context, id uuid.UUID) (*model.SupportCase, error) {
	cacheKey := caseCacheKeyPrefix + id.String()

	var cached model.SupportCase
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	supportCase, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, supportCase, caseCacheTTL); err != nil {
		log.Warn().Err(err).Str("support_case_id", id.String()).Msg("Failed to cache support case")
	}
	return supportCase, nil
}

// ListCasesByCustomer pages through a customer's cases
func (s *supportCaseService) ListCasesByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*model.SupportCase, int, error) {
	return s.repo.ListByCustomer(ctx, customerID, page, limit)
}

// CloseCase closes an open case. Refund cases already attached to it
// keep running - closing the support case never touches them.
func (s *supportCaseService) CloseCase(ctx context.Context, id, agentID uuid.UUID) (*model.SupportCase, error) {
	supportCase, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := supportCase.Close(agentID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, supportCase); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return supportCase, nil
}

// ReopenCase reopens a closed case
func (s *supportCaseService) ReopenCase(ctx context.Context, id, agentID uuid.UUID) (*model.SupportCase, error) {
	supportCase, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := supportCase.Reopen(agentID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, supportCase); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return supportCase, nil
}

func (s *supportCaseService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, caseCacheKeyPrefix+id.String()); err != nil {
		log.Warn().Err(err).Str("support_case_id", id.String()).Msg("Failed to invalidate support case cache")
	}
}

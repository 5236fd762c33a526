package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"furnishop-backend/internal/domains/agent/model"
	"furnishop-backend/internal/domains/agent/repository"
	"furnishop-backend/pkg/jwt"
)

// bcrypt cost 12 keeps hashing around 250ms on commodity hardware
const bcryptCost = 12

// AgentService is the business surface for agent accounts
type AgentService interface {
	Register(ctx context.Context, req model.RegisterAgentRequest) (*model.AgentResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	GetProfile(ctx context.Context, agentID uuid.UUID) (*model.AgentResponse, error)
}

type agentService struct {
	repo       repository.AgentRepository
	jwtManager *jwt.Manager
}

// NewAgentService creates new agent service
func NewAgentService(repo repository.AgentRepository, jwtManager *jwt.Manager) AgentService {
	return &agentService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// Register creates a new agent account
func (s *agentService) Register(ctx context.Context, req model.RegisterAgentRequest) (*model.AgentResponse, error) {
	// Step 1: Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Check email uniqueness
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, model.ErrEmailAlreadyExists
	}

	// Step 3: Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Step 4: Create agent entity
	role := req.Role
	if role == "" {
		role = model.RoleAgent
	}
	now := time.Now()
	agent := &model.Agent{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Step 5: Persist
	if err := s.repo.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	log.Info().
		Str("agent_id", agent.ID.String()).
		Str("role", agent.Role).
		Msg("Agent registered")

	resp := agent.ToResponse()
	return &resp, nil
}

// Login authenticates an agent and issues JWT tokens
func (s *agentService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Credential errors never reveal whether the email exists
	agent, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if !agent.IsActive {
		return nil, model.ErrAgentInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(agent.ID.String(), agent.Email, agent.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(agent.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// Last login stamp is best effort
	go func() {
		_ = s.repo.UpdateLastLogin(context.Background(), agent.ID)
	}()

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(jwt.AccessTokenTTL),
		Agent:        agent.ToResponse(),
	}, nil
}

// GetProfile loads the caller's own account
func (s *agentService) GetProfile(ctx context.Context, agentID uuid.UUID) (*model.AgentResponse, error) {
	agent, err := s.repo.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	resp := agent.ToResponse()
	return &resp, nil
}

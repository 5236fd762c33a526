package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// ROLES
// =====================================================

const (
	RoleAgent      = "agent"
	RoleSupervisor = "supervisor"
)

// =====================================================
// AGENT ENTITY
// =====================================================

// Agent is a back-office operator who decides refund cases
type Agent struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CanDecideRefunds reports whether this agent may approve or reject
func (a *Agent) CanDecideRefunds() bool {
	return a.IsActive && (a.Role == RoleAgent || a.Role == RoleSupervisor)
}

// ToResponse strips credentials for API output
func (a *Agent) ToResponse() AgentResponse {
	return AgentResponse{
		ID:          a.ID,
		Email:       a.Email,
		FullName:    a.FullName,
		Role:        a.Role,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

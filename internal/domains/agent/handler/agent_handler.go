package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"furnishop-backend/internal/domains/agent/model"
	"furnishop-backend/internal/domains/agent/service"
	"furnishop-backend/internal/shared/response"
)

type AgentHandler struct {
	agentService service.AgentService
}

// NewAgentHandler creates new agent handler
func NewAgentHandler(agentService service.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// Register creates an agent account
// POST /api/v1/auth/register
func (h *AgentHandler) Register(c *gin.Context) {
	var req model.RegisterAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.agentService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.ErrorResponse(c, http.StatusBadRequest, "REGISTRATION_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Login authenticates an agent
// POST /api/v1/auth/login
func (h *AgentHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.agentService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, model.ErrAgentInactive):
			response.Forbidden(c, err.Error())
		default:
			response.ErrorResponse(c, http.StatusBadRequest, "LOGIN_FAILED", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Me returns the caller's own account
// GET /api/v1/auth/me
func (h *AgentHandler) Me(c *gin.Context) {
	agentID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	resp, err := h.agentService.GetProfile(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, model.ErrAgentNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// getSubjectID extracts the authenticated subject from JWT claims
func getSubjectID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, fmt.Errorf("user_id not found in context")
	}

	id, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user_id type")
	}
	return id, nil
}

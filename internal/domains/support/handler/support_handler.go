package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"furnishop-backend/internal/domains/support/model"
	"furnishop-backend/internal/domains/support/service"
	"furnishop-backend/internal/shared/response"
)

type SupportHandler struct {
	supportService service.SupportCaseService
}

// NewSupportHandler creates new support handler
func NewSupportHandler(supportService service.SupportCaseService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// CreateCase opens a support case
// POST /api/v1/support-cases
func (h *SupportHandler) CreateCase(c *gin.Context) {
	// Step 1: Get customer ID from JWT claims
	customerID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind and validate request body
	var req model.CreateSupportCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	// Step 3: Call service
	supportCase, err := h.supportService.CreateCase(c.Request.Context(), customerID, req)
	if err != nil {
		statusCode, errCode := mapSupportError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, model.NewSupportCaseResponse(supportCase))
}

// GetCase returns a single support case
// GET /api/v1/support-cases/:case_id
func (h *SupportHandler) GetCase(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid support case ID")
		return
	}

	supportCase, err := h.supportService.GetCase(c.Request.Context(), caseID)
	if err != nil {
		statusCode, errCode := mapSupportError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewSupportCaseResponse(supportCase))
}

// ListMyCases pages through the caller's support cases
// GET /api/v1/support-cases?page=1&limit=20
func (h *SupportHandler) ListMyCases(c *gin.Context) {
	customerID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	cases, total, err := h.supportService.ListCasesByCustomer(c.Request.Context(), customerID, page, limit)
	if err != nil {
		statusCode, errCode := mapSupportError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	items := make([]*model.SupportCaseResponse, 0, len(cases))
	for _, sc := range cases {
		items = append(items, model.NewSupportCaseResponse(sc))
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// CloseCase closes an open support case. Attached refund cases keep
// their own lifecycle.
// POST /api/v1/support-cases/:case_id/close
func (h *SupportHandler) CloseCase(c *gin.Context) {
	agentID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid support case ID")
		return
	}

	supportCase, err := h.supportService.CloseCase(c.Request.Context(), caseID, agentID)
	if err != nil {
		statusCode, errCode := mapSupportError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewSupportCaseResponse(supportCase))
}

// ReopenCase reopens a closed support case
// POST /api/v1/support-cases/:case_id/reopen
func (h *SupportHandler) ReopenCase(c *gin.Context) {
	agentID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid support case ID")
		return
	}

	supportCase, err := h.supportService.ReopenCase(c.Request.Context(), caseID, agentID)
	if err != nil {
		statusCode, errCode := mapSupportError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewSupportCaseResponse(supportCase))
}

// =====================================================
// HELPERS
// =====================================================

func mapSupportError(err error) (statusCode int, errorCode string) {
	switch {
	case errors.Is(err, model.ErrCaseNotFound):
		return http.StatusNotFound, "CASE_NOT_FOUND"
	case errors.Is(err, model.ErrCaseAlreadyClosed):
		return http.StatusConflict, "CASE_ALREADY_CLOSED"
	case errors.Is(err, model.ErrCaseAlreadyOpen):
		return http.StatusConflict, "CASE_ALREADY_OPEN"
	case errors.Is(err, model.ErrLookupUnavailable):
		return http.StatusServiceUnavailable, "LOOKUP_UNAVAILABLE"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
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

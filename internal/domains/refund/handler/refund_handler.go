package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"furnishop-backend/internal/domains/refund/model"
	"furnishop-backend/internal/domains/refund/service"
	"furnishop-backend/internal/shared/response"
)

type RefundHandler struct {
	workflow service.RefundWorkflow
}

// NewRefundHandler creates new refund handler
func NewRefundHandler(workflow service.RefundWorkflow) *RefundHandler {
	return &RefundHandler{workflow: workflow}
}

// =====================================================
// CUSTOMER ENDPOINTS
// =====================================================

// SubmitRefund opens a refund case against a support case
// POST /api/v1/refund-cases
func (h *RefundHandler) SubmitRefund(c *gin.Context) {
	// Step 1: Get customer ID from JWT claims
	customerID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.SubmitRefundRequest
	if err := bindJSON(c, &req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 3: Call workflow
	refundCase, err := h.workflow.Submit(c.Request.Context(), customerID, req)
	if err != nil {
		statusCode, errCode := mapRefundError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return created case
	response.Success(c, http.StatusCreated, model.NewRefundCaseResponse(refundCase))
}

// GetRefundCase returns a single case
// GET /api/v1/refund-cases/:case_id
func (h *RefundHandler) GetRefundCase(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid refund case ID")
		return
	}

	refundCase, err := h.workflow.GetCase(c.Request.Context(), caseID)
	if err != nil {
		statusCode, errCode := mapRefundError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewRefundCaseResponse(refundCase))
}

// CancelRefund withdraws a pending or failed case
// POST /api/v1/refund-cases/:case_id/cancel
func (h *RefundHandler) CancelRefund(c *gin.Context) {
	subjectID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid refund case ID")
		return
	}

	refundCase, err := h.workflow.Cancel(c.Request.Context(), caseID, subjectID)
	if err != nil {
		statusCode, errCode := mapRefundError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewRefundCaseResponse(refundCase))
}

// =====================================================
// AGENT ENDPOINTS
// =====================================================

// DecideRefund approves or rejects a pending case
// POST /api/v1/refund-cases/:case_id/decision
func (h *RefundHandler) DecideRefund(c *gin.Context) {
	// Step 1: Get agent ID from JWT claims
	agentID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Get case ID from URL
	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid refund case ID")
		return
	}

	// Step 3: Bind request body
	var req model.DecideRefundRequest
	if err := bindJSON(c, &req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 4: Call workflow
	refundCase, err := h.workflow.Decide(c.Request.Context(), caseID, agentID, req)
	if err != nil {
		statusCode, errCode := mapRefundError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewRefundCaseResponse(refundCase))
}

// RetryRefund resubmits a failed case for execution
// POST /api/v1/refund-cases/:case_id/retry
func (h *RefundHandler) RetryRefund(c *gin.Context) {
	agentID, err := getSubjectID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid refund case ID")
		return
	}

	refundCase, err := h.workflow.Retry(c.Request.Context(), caseID, agentID)
	if err != nil {
		statusCode, errCode := mapRefundError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewRefundCaseResponse(refundCase))
}

// ExecuteRefund triggers gateway execution synchronously, for operators
// who do not want to wait for the worker
// POST /api/v1/refund-cases/:case_id/execute
func (h *RefundHandler) ExecuteRefund(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid refund case ID")
		return
	}

	refundCase, err := h.workflow.Execute(c.Request.Context(), caseID)
	if err != nil {
		statusCode, errCode := mapRefundError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.NewRefundCaseResponse(refundCase))
}

// ListRefundCases pages through cases in a given status
// GET /api/v1/refund-cases?status=pending&page=1&limit=20
func (h *RefundHandler) ListRefundCases(c *gin.Context) {
	// Step 1: Parse query parameters
	status := model.RefundStatus(c.DefaultQuery("status", string(model.StatusPending)))

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	// Step 2: Call workflow
	cases, total, err := h.workflow.ListCases(c.Request.Context(), status, page, limit)
	if err != nil {
		statusCode, errCode := mapRefundError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 3: Map to responses
	items := make([]*model.RefundCaseResponse, 0, len(cases))
	for _, rc := range cases {
		items = append(items, model.NewRefundCaseResponse(rc))
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// =====================================================
// ERROR MAPPING HELPER
// =====================================================

func mapRefundError(err error) (statusCode int, errorCode string) {
	// Default
	statusCode = http.StatusInternalServerError
	errorCode = "INTERNAL_ERROR"

	var transitionErr *model.TransitionError
	if errors.As(err, &transitionErr) {
		return http.StatusConflict, model.ErrCodeInvalidTransition
	}

	var refundErr *model.RefundError
	if errors.As(err, &refundErr) {
		errorCode = refundErr.Code

		switch refundErr.Code {
		case model.ErrCodeCaseNotFound, model.ErrCodeSupportCaseNotFound:
			statusCode = http.StatusNotFound
		case model.ErrCodeInvalidInput,
			model.ErrCodeInvalidAmount,
			model.ErrCodeCurrencyMismatch,
			model.ErrCodeNegativeResult,
			model.ErrCodeAmountReconciliation:
			statusCode = http.StatusBadRequest
		case model.ErrCodeWindowExpired,
			model.ErrCodeAmountExceedsEligible,
			model.ErrCodeSupportCaseNotOpen,
			model.ErrCodeSupportCaseType,
			model.ErrCodeStaleCase:
			statusCode = http.StatusConflict
		case model.ErrCodeUnauthorized:
			statusCode = http.StatusUnauthorized
		default:
			statusCode = http.StatusInternalServerError
		}
		return statusCode, errorCode
	}

	switch {
	case errors.Is(err, model.ErrCaseNotFound):
		return http.StatusNotFound, model.ErrCodeCaseNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, model.ErrCodeInvalidInput
	}

	return statusCode, errorCode
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

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

// bindJSON binds JSON request body
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

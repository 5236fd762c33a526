package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"furnishop-backend/internal/infrastructure/storage"
	"furnishop-backend/internal/shared/response"
)

// Evidence files cap at 10MB; links stay valid for a day
const (
	maxEvidenceSize   = 10 << 20
	evidenceURLExpiry = 24 * time.Hour
)

var allowedEvidenceTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type EvidenceHandler struct {
	storage *storage.MinIOStorage
}

// NewEvidenceHandler creates new evidence handler
func NewEvidenceHandler(st *storage.MinIOStorage) *EvidenceHandler {
	return &EvidenceHandler{storage: st}
}

// UploadEvidence stores a damage or defect photo and returns the
// reference to attach to a refund submission
// POST /api/v1/refund-cases/evidence
func (h *EvidenceHandler) UploadEvidence(c *gin.Context) {
	// Step 1: Parse support case ID
	supportCaseID, err := uuid.Parse(c.PostForm("support_case_id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_CASE_ID", "Invalid support case ID")
		return
	}

	// Step 2: Read uploaded file
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing evidence file")
		return
	}
	if fileHeader.Size > maxEvidenceSize {
		response.ErrorResponse(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Evidence file exceeds 10MB limit")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedEvidenceTypes[contentType] {
		response.ErrorResponse(c, http.StatusBadRequest, "UNSUPPORTED_TYPE", "Evidence must be JPEG, PNG, WebP or PDF")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}

	// Step 3: Upload to object storage
	key := fmt.Sprintf("evidence/%s/%s%s", supportCaseID, uuid.New(), filepath.Ext(fileHeader.Filename))
	ref, err := h.storage.Upload(c.Request.Context(), key, data, contentType)
	if err != nil {
		response.InternalServerError(c, "Failed to store evidence")
		return
	}

	// Step 4: Presign a download link for immediate preview
	url, err := h.storage.PresignedURL(c.Request.Context(), ref, evidenceURLExpiry)
	if err != nil {
		response.InternalServerError(c, "Failed to generate evidence link")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"evidence_ref": ref,
		"url":          url,
	})
}

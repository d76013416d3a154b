package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ernest01982/winelistmanager/internal/middleware"
	"github.com/Ernest01982/winelistmanager/internal/models"
	"github.com/Ernest01982/winelistmanager/internal/parser"
	"github.com/Ernest01982/winelistmanager/internal/session"
)

// UploadHandler owns the upload-and-review half of the pipeline: parse a
// sheet into a preview, serve the preview, apply row edits, clear it.
type UploadHandler struct {
	parser   *parser.Parser
	sessions *session.Manager
}

func NewUploadHandler(p *parser.Parser, sessions *session.Manager) *UploadHandler {
	return &UploadHandler{parser: p, sessions: sessions}
}

// UploadPriceList parses an uploaded CSV or Excel price sheet into a
// reviewable preview, replacing any previous preview for the tenant.
// POST /api/v1/pricelists/upload
func (h *UploadHandler) UploadPriceList(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	if _, ok := parser.SupportedFormat(header.Filename); !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}

	result, err := h.parser.ParseFile(header.Filename, file)
	if err != nil {
		// The decode step is the only failure that aborts the whole
		// operation: one top-level error, zero rows.
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PARSE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	s := h.sessions.Put(tenantID, header.Filename, result)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": s.ID,
		"data":      result,
	})
}

// GetPreview returns the tenant's current review preview.
// GET /api/v1/pricelists/preview
func (h *UploadHandler) GetPreview(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	s, ok := h.sessions.Get(tenantID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NO_SESSION",
				Message: "No price sheet is currently under review",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": s.ID,
		"data":      s.Result,
	})
}

// UpdatePreviewRow applies a single-row edit and returns the refreshed
// result. Only the edited row is re-validated; duplicates and summary
// counts are recomputed batch-wide.
// PATCH /api/v1/pricelists/preview/rows/:rowNumber
func (h *UploadHandler) UpdatePreviewRow(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	rowNumber, err := strconv.Atoi(c.Param("rowNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ROW",
				Message: "Row number must be an integer",
				Field:   "rowNumber",
			},
		})
		return
	}

	var req models.UpdateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	result, err := h.sessions.UpdateRow(tenantID, rowNumber, req)
	if err != nil {
		status := http.StatusNotFound
		code := "ROW_NOT_FOUND"
		switch err {
		case session.ErrNoSession:
			code = "NO_SESSION"
		case session.ErrRowNotEditable:
			status = http.StatusBadRequest
			code = "ROW_NOT_EDITABLE"
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ClearPreview discards the current preview.
// DELETE /api/v1/pricelists/preview
func (h *UploadHandler) ClearPreview(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	h.sessions.Clear(tenantID)
	c.Status(http.StatusNoContent)
}

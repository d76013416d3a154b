package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/Ernest01982/winelistmanager/internal/importer"
	"github.com/Ernest01982/winelistmanager/internal/middleware"
	"github.com/Ernest01982/winelistmanager/internal/models"
	"github.com/Ernest01982/winelistmanager/internal/queue"
	"github.com/Ernest01982/winelistmanager/internal/session"
)

// ImportHandler runs the reviewed preview into the backing store and
// manages the offline queue.
type ImportHandler struct {
	sessions *session.Manager
	importer *importer.Importer
	queue    *queue.Queue
	logger   *logrus.Entry
}

func NewImportHandler(sessions *session.Manager, imp *importer.Importer, q *queue.Queue, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		sessions: sessions,
		importer: imp,
		queue:    q,
		logger:   logger.WithField("component", "import_handler"),
	}
}

// ImportPriceList submits the current preview's valid rows to the store
// in sequential chunks.
// POST /api/v1/pricelists/import
func (h *ImportHandler) ImportPriceList(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	s, ok := h.sessions.Get(tenantID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NO_SESSION",
				Message: "No reviewed price sheet to import",
			},
		})
		return
	}

	result, err := h.importer.Run(c.Request.Context(), tenantID, s.FileName, s.Result.Rows, func(p importer.Progress) {
		h.logger.WithFields(logrus.Fields{
			"tenantId": tenantID,
			"chunk":    p.CurrentChunk,
			"total":    p.TotalChunks,
			"imported": p.Imported,
		}).Debug("Import chunk completed")
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "IMPORT_FAILED",
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

// GetImportTemplate returns the upload template definition or file.
// GET /api/v1/pricelists/import/template
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	template := models.PriceListImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template)
	case "xlsx":
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// generateCSVTemplate generates and downloads a CSV template (headers only)
func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=pricelist_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)
}

// generateXLSXTemplate generates and downloads an Excel template
func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Price List"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Price List Upload Instructions")

	f.SetCellValue("Instructions", "A3", "SECTION ROWS:")
	f.SetCellValue("Instructions", "A4", "A row carrying only a cellar name sets the brand for the product rows below it.")
	f.SetCellValue("Instructions", "A5", "A row reading just a colour (e.g. \"Red Wine\") sets the colour for the rows below it.")
	f.SetCellValue("Instructions", "A6", "Product rows may leave Brand and Colour blank to inherit from the section above.")

	f.SetCellValue("Instructions", "A8", "PRICES:")
	f.SetCellValue("Instructions", "A9", "Provide any of the four VAT price columns; the display price is derived automatically.")
	f.SetCellValue("Instructions", "A10", "Decimal commas, thousands separators and currency symbols are all accepted.")

	f.SetCellValue("Instructions", "A12", "Column Definitions:")
	f.SetCellValue("Instructions", "A13", "Column")
	f.SetCellValue("Instructions", "B13", "Description")
	f.SetCellValue("Instructions", "C13", "Required")
	f.SetCellValue("Instructions", "D13", "Type")
	f.SetCellValue("Instructions", "E13", "Example")

	for i, col := range template.Columns {
		row := i + 14
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 22)
	f.SetColWidth("Instructions", "B", "B", 70)
	f.SetColWidth("Instructions", "C", "C", 12)
	f.SetColWidth("Instructions", "D", "D", 12)
	f.SetColWidth("Instructions", "E", "E", 20)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=pricelist_template.xlsx")

	f.Write(c.Writer)
}

// ListQueue returns the offline queue entries in enqueue order.
// GET /api/v1/pricelists/queue
func (h *ImportHandler) ListQueue(c *gin.Context) {
	entries, err := h.queue.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "QUEUE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	summaries := make([]models.QueueEntrySummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, models.QueueEntrySummary{
			ID:         e.ID,
			FileName:   e.FileName,
			RowCount:   len(e.Rows),
			EnqueuedAt: e.EnqueuedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// ReplayQueueEntry re-submits a queued batch to the store.
// POST /api/v1/pricelists/queue/:id/replay
func (h *ImportHandler) ReplayQueueEntry(c *gin.Context) {
	entry, err := h.queue.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "QUEUE_ENTRY_NOT_FOUND",
				Message: err.Error(),
			},
		})
		return
	}

	result, err := h.importer.Replay(c.Request.Context(), entry)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "STORE_UNAVAILABLE",
				Message: "The backing store is still unreachable; the batch remains queued",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// RemoveQueueEntry deletes one queued batch.
// DELETE /api/v1/pricelists/queue/:id
func (h *ImportHandler) RemoveQueueEntry(c *gin.Context) {
	if err := h.queue.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "QUEUE_ENTRY_NOT_FOUND",
				Message: err.Error(),
			},
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearQueue deletes every queued batch.
// DELETE /api/v1/pricelists/queue
func (h *ImportHandler) ClearQueue(c *gin.Context) {
	if err := h.queue.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "QUEUE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	c.Status(http.StatusNoContent)
}

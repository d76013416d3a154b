package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ernest01982/winelistmanager/internal/middleware"
	"github.com/Ernest01982/winelistmanager/internal/models"
	"github.com/Ernest01982/winelistmanager/internal/queue"
	"github.com/Ernest01982/winelistmanager/internal/session"
)

func importTestRouter(t *testing.T) (*gin.Engine, *queue.Queue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	q, err := queue.New(t.TempDir())
	require.NoError(t, err)

	sessions := session.NewManager(time.Hour, logger)
	h := NewImportHandler(sessions, nil, q, logger)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.TenantMiddleware())
	api.GET("/pricelists/import/template", h.GetImportTemplate)
	api.GET("/pricelists/queue", h.ListQueue)
	api.DELETE("/pricelists/queue", h.ClearQueue)
	api.DELETE("/pricelists/queue/:id", h.RemoveQueueEntry)
	return router, q
}

func tenantGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetImportTemplateJSON(t *testing.T) {
	router, _ := importTestRouter(t)

	w := tenantGet(t, router, "/api/v1/pricelists/import/template")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool                  `json:"success"`
		Template models.ImportTemplate `json:"template"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pricelists", resp.Template.Entity)
	require.Len(t, resp.Template.Columns, 10)
	assert.Equal(t, "Brand", resp.Template.Columns[0].Name)
}

func TestGetImportTemplateCSV(t *testing.T) {
	router, _ := importTestRouter(t)

	w := tenantGet(t, router, "/api/v1/pricelists/import/template?format=csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Brand,Area,Colour,Product Name")
}

func TestGetImportTemplateXLSX(t *testing.T) {
	router, _ := importTestRouter(t)

	w := tenantGet(t, router, "/api/v1/pricelists/import/template?format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}

func TestQueueEndpoints(t *testing.T) {
	router, q := importTestRouter(t)

	id, err := q.Enqueue("tenant-1", "parked.csv", []models.ParsedRow{
		{RowNumber: 2, ProductName: "Chardonnay", IsValid: true},
	})
	require.NoError(t, err)

	w := tenantGet(t, router, "/api/v1/pricelists/queue")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.QueueEntrySummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, id, resp.Data[0].ID)
	assert.Equal(t, "parked.csv", resp.Data[0].FileName)
	assert.Equal(t, 1, resp.Data[0].RowCount)

	// Remove the entry, then the list is empty.
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/pricelists/queue/"+id, nil)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	del := httptest.NewRecorder()
	router.ServeHTTP(del, req)
	assert.Equal(t, http.StatusNoContent, del.Code)

	w = tenantGet(t, router, "/api/v1/pricelists/queue")
	require.Equal(t, http.StatusOK, w.Code)
	resp.Data = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestRemoveQueueEntryNotFound(t *testing.T) {
	router, _ := importTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/pricelists/queue/nope", nil)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "QUEUE_ENTRY_NOT_FOUND", resp.Error.Code)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ernest01982/winelistmanager/internal/middleware"
	"github.com/Ernest01982/winelistmanager/internal/models"
	"github.com/Ernest01982/winelistmanager/internal/repository"
)

// PriceListHandler serves the stored price list: paginated browsing,
// single-item CRUD, brand lists and stats.
type PriceListHandler struct {
	repo            *repository.PriceListRepository
	defaultPageSize int
	maxPageSize     int
}

func NewPriceListHandler(repo *repository.PriceListRepository, defaultPageSize, maxPageSize int) *PriceListHandler {
	return &PriceListHandler{
		repo:            repo,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// GetItems returns a page of stored items.
// GET /api/v1/pricelists
func (h *PriceListHandler) GetItems(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = h.defaultPageSize
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}

	brand := c.Query("brand")
	search := c.Query("search")

	var color models.WineColor
	if raw := c.Query("color"); raw != "" {
		color = models.WineColor(raw)
		if !color.IsValid() {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "INVALID_COLOR",
					Message: "Colour must be one of RED, WHITE, ROSE, DESSERT",
					Field:   "color",
				},
			})
			return
		}
	}

	items, total, err := h.repo.ListItems(tenantID, page, limit, brand, color, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DATABASE_ERROR",
				Message: "Failed to fetch price list items",
			},
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, models.ItemListResponse{
		Success: true,
		Data:    items,
		Pagination: &models.PaginationInfo{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	})
}

// GetItem returns one stored item.
// GET /api/v1/pricelists/:id
func (h *PriceListHandler) GetItem(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Item ID must be a valid UUID",
				Field:   "id",
			},
		})
		return
	}

	item, err := h.repo.GetItem(tenantID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "ITEM_NOT_FOUND",
					Message: "Price list item not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DATABASE_ERROR",
				Message: "Failed to fetch price list item",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ItemResponse{Success: true, Data: item})
}

// UpdateItem applies a partial update to one stored item.
// PUT /api/v1/pricelists/:id
func (h *PriceListHandler) UpdateItem(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Item ID must be a valid UUID",
				Field:   "id",
			},
		})
		return
	}

	var req models.UpdateItemRequest
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

	item, err := h.repo.UpdateItem(tenantID, id, &req)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "ITEM_NOT_FOUND",
					Message: "Price list item not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DATABASE_ERROR",
				Message: "Failed to update price list item",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ItemResponse{Success: true, Data: item})
}

// DeleteItem soft-deletes one stored item.
// DELETE /api/v1/pricelists/:id
func (h *PriceListHandler) DeleteItem(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Item ID must be a valid UUID",
				Field:   "id",
			},
		})
		return
	}

	if err := h.repo.DeleteItem(tenantID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "ITEM_NOT_FOUND",
					Message: "Price list item not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DATABASE_ERROR",
				Message: "Failed to delete price list item",
			},
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBrands returns the tenant's distinct brand list.
// GET /api/v1/pricelists/brands
func (h *PriceListHandler) GetBrands(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	brands, err := h.repo.DistinctBrands(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DATABASE_ERROR",
				Message: "Failed to fetch brands",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    brands,
	})
}

// GetStats summarizes the stored list by colour and brand count.
// GET /api/v1/pricelists/stats
func (h *PriceListHandler) GetStats(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	stats, err := h.repo.GetStats(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DATABASE_ERROR",
				Message: "Failed to compute price list stats",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.StatsResponse{Success: true, Data: stats})
}

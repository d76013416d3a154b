package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WineColor is the fixed category set a product can resolve to.
// The empty string means "unresolved" - never store arbitrary text here.
type WineColor string

const (
	ColorRed     WineColor = "RED"
	ColorWhite   WineColor = "WHITE"
	ColorRose    WineColor = "ROSE"
	ColorDessert WineColor = "DESSERT"
)

// IsValid reports whether c is one of the canonical category codes.
func (c WineColor) IsValid() bool {
	switch c {
	case ColorRed, ColorWhite, ColorRose, ColorDessert:
		return true
	}
	return false
}

// PriceListItem is a stored pricing row. Upsert identity is
// tenant_id + brand + product_name + size_text, matching the duplicate
// key used during review so an in-batch duplicate warning predicts an
// upsert collision.
type PriceListItem struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string          `json:"tenantId" gorm:"not null;index:idx_pricelist_tenant;index:idx_pricelist_identity,unique"`
	Brand         string          `json:"brand" gorm:"not null;index:idx_pricelist_identity,unique"`
	Area          string          `json:"area"`
	Color         *WineColor      `json:"color,omitempty" gorm:"index"`
	ProductName   string          `json:"productName" gorm:"not null;index:idx_pricelist_identity,unique"`
	PackedCase    int             `json:"packedCase"`
	SizeText      string          `json:"sizeText" gorm:"index:idx_pricelist_identity,unique"`
	ExVATPerCase  *float64        `json:"exVatPerCase,omitempty"`
	ExVATPerUnit  *float64        `json:"exVatPerUnit,omitempty"`
	IncVATPerCase *float64        `json:"incVatPerCase,omitempty"`
	IncVATPerUnit *float64        `json:"incVatPerUnit,omitempty"`
	DisplayPrice  *float64        `json:"displayPrice,omitempty"`
	SourceFile    string          `json:"sourceFile"`
	RowNumber     int             `json:"rowNumber"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// TableName returns the table name for the PriceListItem model
func (PriceListItem) TableName() string {
	return "price_list_items"
}

// UpdateItemRequest represents a partial update to a stored item
type UpdateItemRequest struct {
	Brand         *string    `json:"brand,omitempty"`
	Area          *string    `json:"area,omitempty"`
	Color         *WineColor `json:"color,omitempty"`
	ProductName   *string    `json:"productName,omitempty"`
	PackedCase    *int       `json:"packedCase,omitempty"`
	SizeText      *string    `json:"sizeText,omitempty"`
	ExVATPerCase  *float64   `json:"exVatPerCase,omitempty"`
	ExVATPerUnit  *float64   `json:"exVatPerUnit,omitempty"`
	IncVATPerCase *float64   `json:"incVatPerCase,omitempty"`
	IncVATPerUnit *float64   `json:"incVatPerUnit,omitempty"`
}

// Response types
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ItemResponse struct {
	Success bool           `json:"success"`
	Data    *PriceListItem `json:"data"`
	Message *string        `json:"message,omitempty"`
}

type ItemListResponse struct {
	Success    bool            `json:"success"`
	Data       []PriceListItem `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// PriceListStats summarizes the stored list for the dashboard view
type PriceListStats struct {
	TotalItems    int64               `json:"totalItems"`
	BrandCount    int64               `json:"brandCount"`
	ByColor       map[WineColor]int64 `json:"byColor"`
	Uncategorized int64               `json:"uncategorized"`
}

type StatsResponse struct {
	Success bool            `json:"success"`
	Data    *PriceListStats `json:"data"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

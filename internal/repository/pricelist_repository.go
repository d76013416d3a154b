package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

const (
	ItemCacheTTL   = 5 * time.Minute
	BrandsCacheTTL = 10 * time.Minute
)

// PriceListRepository owns all access to the price_list_items table,
// with a Redis read-through cache on single-item gets and brand lists.
// Every query is tenant-scoped.
type PriceListRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewPriceListRepository(db *gorm.DB, redisClient *redis.Client) *PriceListRepository {
	return &PriceListRepository{
		db:    db,
		redis: redisClient,
	}
}

func itemCacheKey(tenantID string, id uuid.UUID) string {
	return fmt.Sprintf("pricelist:%s:item:%s", tenantID, id)
}

func brandsCacheKey(tenantID string) string {
	return fmt.Sprintf("pricelist:%s:brands", tenantID)
}

func (r *PriceListRepository) invalidateCaches(ctx context.Context, tenantID string, ids ...uuid.UUID) {
	if r.redis == nil {
		return
	}
	keys := []string{brandsCacheKey(tenantID)}
	for _, id := range ids {
		keys = append(keys, itemCacheKey(tenantID, id))
	}
	r.redis.Del(ctx, keys...)
}

// Ping reports whether the backing store is reachable. Used as the
// importer's pre-flight check before any chunk is submitted.
func (r *PriceListRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// UpsertRows creates or updates one chunk of reviewed rows in a single
// transaction. Items are matched by the natural key tenant + brand +
// product name + size; existing items are updated in place (and
// restored if soft-deleted). Any row failure rolls the chunk back so
// the importer can report the whole chunk as failed.
func (r *PriceListRepository) UpsertRows(ctx context.Context, tenantID string, rows []models.ParsedRow) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			item := models.PriceListItem{
				TenantID:      tenantID,
				Brand:         row.Brand,
				Area:          row.Area,
				ProductName:   row.ProductName,
				PackedCase:    row.PackedCase,
				SizeText:      row.SizeText,
				ExVATPerCase:  row.ExVATPerCase,
				ExVATPerUnit:  row.ExVATPerUnit,
				IncVATPerCase: row.IncVATPerCase,
				IncVATPerUnit: row.IncVATPerUnit,
				DisplayPrice:  row.DisplayPrice,
				SourceFile:    row.SourceFile,
				RowNumber:     row.RowNumber,
			}
			if row.Color != "" {
				color := row.Color
				item.Color = &color
			}

			var existing models.PriceListItem
			err := tx.Unscoped().
				Where("tenant_id = ? AND brand = ? AND product_name = ? AND size_text = ?",
					tenantID, row.Brand, row.ProductName, row.SizeText).
				First(&existing).Error

			switch {
			case err == nil:
				updates := map[string]interface{}{
					"area":             item.Area,
					"color":            item.Color,
					"packed_case":      item.PackedCase,
					"ex_vat_per_case":  item.ExVATPerCase,
					"ex_vat_per_unit":  item.ExVATPerUnit,
					"inc_vat_per_case": item.IncVATPerCase,
					"inc_vat_per_unit": item.IncVATPerUnit,
					"display_price":    item.DisplayPrice,
					"source_file":      item.SourceFile,
					"row_number":       item.RowNumber,
					"updated_at":       time.Now(),
					"deleted_at":       nil, // restore if soft-deleted
				}
				if err := tx.Unscoped().Model(&models.PriceListItem{}).
					Where("id = ? AND tenant_id = ?", existing.ID, tenantID).
					Updates(updates).Error; err != nil {
					return fmt.Errorf("row %d (%s): %w", row.RowNumber, row.ProductName, err)
				}
			case err == gorm.ErrRecordNotFound:
				item.ID = uuid.New()
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("row %d (%s): %w", row.RowNumber, row.ProductName, err)
				}
			default:
				return fmt.Errorf("row %d (%s): %w", row.RowNumber, row.ProductName, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateCaches(ctx, tenantID)
	return nil
}

// ListItems returns a page of stored items with optional brand, colour
// and free-text filters.
func (r *PriceListRepository) ListItems(tenantID string, page, limit int, brand string, color models.WineColor, search string) ([]models.PriceListItem, int64, error) {
	query := r.db.Model(&models.PriceListItem{}).Where("tenant_id = ?", tenantID)

	if brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if color != "" {
		query = query.Where("color = ?", color)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(product_name) LIKE ? OR LOWER(brand) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.PriceListItem
	offset := (page - 1) * limit
	err := query.Order("brand, product_name, size_text").
		Offset(offset).Limit(limit).
		Find(&items).Error
	return items, total, err
}

// GetItem fetches one item, trying the cache first.
func (r *PriceListRepository) GetItem(tenantID string, id uuid.UUID) (*models.PriceListItem, error) {
	ctx := context.Background()
	cacheKey := itemCacheKey(tenantID, id)

	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var item models.PriceListItem
			if json.Unmarshal([]byte(val), &item) == nil {
				return &item, nil
			}
		}
	}

	var item models.PriceListItem
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&item).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(item); err == nil {
			r.redis.Set(ctx, cacheKey, data, ItemCacheTTL)
		}
	}
	return &item, nil
}

// UpdateItem applies a partial update and recomputes the stored display
// price from the updated price fields.
func (r *PriceListRepository) UpdateItem(tenantID string, id uuid.UUID, req *models.UpdateItemRequest) (*models.PriceListItem, error) {
	var item models.PriceListItem
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&item).Error; err != nil {
		return nil, err
	}

	if req.Brand != nil {
		item.Brand = *req.Brand
	}
	if req.Area != nil {
		item.Area = *req.Area
	}
	if req.Color != nil {
		if req.Color.IsValid() {
			item.Color = req.Color
		} else {
			item.Color = nil
		}
	}
	if req.ProductName != nil {
		item.ProductName = *req.ProductName
	}
	if req.PackedCase != nil {
		item.PackedCase = *req.PackedCase
	}
	if req.SizeText != nil {
		item.SizeText = *req.SizeText
	}
	if req.ExVATPerCase != nil {
		item.ExVATPerCase = req.ExVATPerCase
	}
	if req.ExVATPerUnit != nil {
		item.ExVATPerUnit = req.ExVATPerUnit
	}
	if req.IncVATPerCase != nil {
		item.IncVATPerCase = req.IncVATPerCase
	}
	if req.IncVATPerUnit != nil {
		item.IncVATPerUnit = req.IncVATPerUnit
	}
	item.DisplayPrice = displayPriceFor(&item)
	item.UpdatedAt = time.Now()

	if err := r.db.Save(&item).Error; err != nil {
		return nil, err
	}

	r.invalidateCaches(context.Background(), tenantID, id)
	return &item, nil
}

// DeleteItem soft-deletes one item.
func (r *PriceListRepository) DeleteItem(tenantID string, id uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.PriceListItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCaches(context.Background(), tenantID, id)
	return nil
}

// DistinctBrands returns the tenant's brand list, cached.
func (r *PriceListRepository) DistinctBrands(tenantID string) ([]string, error) {
	ctx := context.Background()
	cacheKey := brandsCacheKey(tenantID)

	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var brands []string
			if json.Unmarshal([]byte(val), &brands) == nil {
				return brands, nil
			}
		}
	}

	var brands []string
	err := r.db.Model(&models.PriceListItem{}).
		Where("tenant_id = ? AND brand <> ''", tenantID).
		Distinct("brand").Order("brand").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(brands); err == nil {
			r.redis.Set(ctx, cacheKey, data, BrandsCacheTTL)
		}
	}
	return brands, nil
}

// GetStats summarizes the stored list by colour.
func (r *PriceListRepository) GetStats(tenantID string) (*models.PriceListStats, error) {
	stats := &models.PriceListStats{ByColor: make(map[models.WineColor]int64)}

	if err := r.db.Model(&models.PriceListItem{}).
		Where("tenant_id = ?", tenantID).
		Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.PriceListItem{}).
		Where("tenant_id = ? AND brand <> ''", tenantID).
		Distinct("brand").
		Count(&stats.BrandCount).Error; err != nil {
		return nil, err
	}

	type colorCount struct {
		Color *models.WineColor
		Count int64
	}
	var counts []colorCount
	if err := r.db.Model(&models.PriceListItem{}).
		Select("color, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("color").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if c.Color == nil {
			stats.Uncategorized = c.Count
		} else {
			stats.ByColor[*c.Color] = c.Count
		}
	}
	return stats, nil
}

// displayPriceFor mirrors the parser's fallback order for items edited
// after import: incl-VAT unit, excl-VAT unit, then the case prices
// divided by case count.
func displayPriceFor(item *models.PriceListItem) *float64 {
	if item.IncVATPerUnit != nil {
		v := *item.IncVATPerUnit
		return &v
	}
	if item.ExVATPerUnit != nil {
		v := *item.ExVATPerUnit
		return &v
	}
	if item.IncVATPerCase != nil && item.PackedCase > 0 {
		v := *item.IncVATPerCase / float64(item.PackedCase)
		return &v
	}
	if item.ExVATPerCase != nil && item.PackedCase > 0 {
		v := *item.ExVATPerCase / float64(item.PackedCase)
		return &v
	}
	return nil
}

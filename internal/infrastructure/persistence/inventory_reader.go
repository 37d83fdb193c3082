package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormInventoryReader implements sync.InventoryReader. The client-facing row
// joins the item master, the warehouse bin, and the profile's price list, so
// every read here is a three-way LEFT JOIN keyed on item code.
type GormInventoryReader struct {
	db *gorm.DB
}

// NewGormInventoryReader creates a new GormInventoryReader.
func NewGormInventoryReader(db *gorm.DB) *GormInventoryReader {
	return &GormInventoryReader{db: db}
}

// inventoryScan is the flat scan target for the joined query. Quantity and
// timestamp columns from the joined tables are pointers because a service
// item has no bin row and an unpriced item has no price row.
type inventoryScan struct {
	ItemCode      string
	ItemName      string
	ItemGroup     string
	UOM           string
	Barcode       *string
	IsStockItem   bool
	ReorderLevel  *decimal.Decimal
	ReorderQty    *decimal.Decimal
	OnHandQty     *decimal.Decimal
	ReservedQty   *decimal.Decimal
	ProjectedQty  *decimal.Decimal
	PriceListRate *decimal.Decimal
	ItemModified  time.Time
	BinModified   *time.Time
	PriceModified *time.Time
}

func (r *GormInventoryReader) joined(ctx context.Context, warehouse, priceList string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("items").
		Select(`items.code AS item_code,
			items.name AS item_name,
			items.item_group,
			items.uom,
			items.barcode,
			items.is_stock_item,
			items.reorder_level,
			items.reorder_qty,
			items.updated_at AS item_modified,
			bins.actual_qty AS on_hand_qty,
			bins.reserved_qty,
			bins.projected_qty,
			bins.updated_at AS bin_modified,
			item_prices.rate AS price_list_rate,
			item_prices.updated_at AS price_modified`).
		Joins("LEFT JOIN bins ON bins.item_code = items.code AND bins.warehouse = ?", warehouse).
		Joins("LEFT JOIN item_prices ON item_prices.item_code = items.code AND item_prices.price_list = ?", priceList).
		Where("items.disabled = ?", false)
}

// SnapshotRows pages the full inventory view for one warehouse.
func (r *GormInventoryReader) SnapshotRows(ctx context.Context, warehouse, priceList string, page shared.Page) ([]sync.InventoryRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Item{}).Where("disabled = ?", false).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var scans []inventoryScan
	err := r.joined(ctx, warehouse, priceList).
		Order("items.code").
		Offset(page.Offset).Limit(page.Limit).
		Scan(&scans).Error
	if err != nil {
		return nil, 0, err
	}
	return toInventoryRows(scans), total, nil
}

// SnapshotRowsByCodes rebuilds full rows for exactly the given item codes.
func (r *GormInventoryReader) SnapshotRowsByCodes(ctx context.Context, warehouse, priceList string, codes []string) ([]sync.InventoryRow, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var scans []inventoryScan
	err := r.joined(ctx, warehouse, priceList).
		Where("items.code IN ?", codes).
		Order("items.code").
		Scan(&scans).Error
	if err != nil {
		return nil, err
	}
	return toInventoryRows(scans), nil
}

// ItemCodesWithStockChanges lists items whose bin in the warehouse moved.
func (r *GormInventoryReader) ItemCodesWithStockChanges(ctx context.Context, warehouse string, since time.Time) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&models.Bin{}).
		Where("warehouse = ? AND updated_at > ?", warehouse, since).
		Distinct().Pluck("item_code", &codes).Error
	return codes, err
}

// ItemCodesWithMasterChanges lists items whose master row changed.
func (r *GormInventoryReader) ItemCodesWithMasterChanges(ctx context.Context, since time.Time) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("updated_at > ?", since).
		Pluck("code", &codes).Error
	return codes, err
}

// ItemCodesWithPriceChanges lists items repriced on the given price list.
func (r *GormInventoryReader) ItemCodesWithPriceChanges(ctx context.Context, priceList string, since time.Time) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&models.ItemPrice{}).
		Where("price_list = ? AND updated_at > ?", priceList, since).
		Distinct().Pluck("item_code", &codes).Error
	return codes, err
}

func toInventoryRows(scans []inventoryScan) []sync.InventoryRow {
	rows := make([]sync.InventoryRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, sync.InventoryRow{
			ItemCode:      s.ItemCode,
			ItemName:      s.ItemName,
			ItemGroup:     s.ItemGroup,
			Barcode:       s.Barcode,
			UOM:           s.UOM,
			PriceListRate: s.PriceListRate,
			OnHandQty:     decOrZero(s.OnHandQty),
			ReservedQty:   decOrZero(s.ReservedQty),
			ProjectedQty:  decOrZero(s.ProjectedQty),
			ReorderLevel:  s.ReorderLevel,
			ReorderQty:    s.ReorderQty,
			IsStocked:     s.IsStockItem,
			ModifiedAt:    latest(s.ItemModified, s.BinModified, s.PriceModified),
		})
	}
	return rows
}

func decOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// latest returns the newest of the three table timestamps. The client's
// watermark must not skip a row whichever table carried the change.
func latest(base time.Time, others ...*time.Time) time.Time {
	out := base
	for _, t := range others {
		if t != nil && t.After(out) {
			out = *t
		}
	}
	return out
}

package models

import "github.com/shopspring/decimal"

// Item is the item master row. Reorder columns are pointers because an item
// without a reorder level never alerts, which is different from a level of zero.
type Item struct {
	Code         string `gorm:"primaryKey;size:140"`
	Name         string `gorm:"size:255;not null"`
	ItemGroup    string `gorm:"size:140;index"`
	UOM          string `gorm:"size:64"`
	Barcode      *string
	IsStockItem  bool             `gorm:"not null;default:true"`
	Disabled     bool             `gorm:"not null;default:false;index"`
	ReorderLevel *decimal.Decimal `gorm:"type:decimal(18,6)"`
	ReorderQty   *decimal.Decimal `gorm:"type:decimal(18,6)"`
	Timestamps
}

// TableName maps the model to its table.
func (Item) TableName() string { return "items" }

// Bin is the per-warehouse stock level for one item.
type Bin struct {
	ID           uint            `gorm:"primaryKey"`
	ItemCode     string          `gorm:"size:140;not null;uniqueIndex:idx_bin_item_warehouse"`
	Warehouse    string          `gorm:"size:140;not null;uniqueIndex:idx_bin_item_warehouse;index"`
	ActualQty    decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ReservedQty  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ProjectedQty decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Timestamps
}

// TableName maps the model to its table.
func (Bin) TableName() string { return "bins" }

// ItemPrice is one price list entry for an item.
type ItemPrice struct {
	ID        uint            `gorm:"primaryKey"`
	ItemCode  string          `gorm:"size:140;not null;uniqueIndex:idx_price_item_list"`
	PriceList string          `gorm:"size:140;not null;uniqueIndex:idx_price_item_list;index"`
	Rate      decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Currency  string          `gorm:"size:3;not null"`
	Timestamps
}

// TableName maps the model to its table.
func (ItemPrice) TableName() string { return "item_prices" }

// AlertRule is one configured stock alert threshold. An asterisk in the
// warehouse or item group column matches everything.
type AlertRule struct {
	ID            uint            `gorm:"primaryKey"`
	Warehouse     string          `gorm:"size:140;not null;default:'*'"`
	ItemGroup     string          `gorm:"size:140;not null;default:'*'"`
	CriticalRatio decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	LowRatio      decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	Priority      int             `gorm:"not null;default:0"`
	Timestamps
}

// TableName maps the model to its table.
func (AlertRule) TableName() string { return "alert_rules" }

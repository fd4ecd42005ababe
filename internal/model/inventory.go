package model

import (
	"fmt"
	"time"
)

type InventoryItem struct {
	ID           string    `json:"id"`
	ItemName     string    `json:"item_name"`
	SKU          string    `json:"sku"`
	CurrentStock int       `json:"current_stock"`
	ReorderPoint int       `json:"reorder_point"`
	UnitPrice    float64   `json:"unit_price"`
	Supplier     string    `json:"supplier"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i *InventoryItem) Validate() error {
	if err := requireFields(
		"item_name", i.ItemName,
		"sku", i.SKU,
		"supplier", i.Supplier,
	); err != nil {
		return err
	}
	if i.CurrentStock < 0 {
		return fmt.Errorf("current_stock must not be negative")
	}
	if i.UnitPrice < 0 {
		return fmt.Errorf("unit_price must not be negative")
	}
	if i.ReorderPoint == 0 {
		i.ReorderPoint = 10
	}
	return nil
}

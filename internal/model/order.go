package model

import (
	"fmt"
	"time"
)

type OrderItem struct {
	ItemName string  `json:"item_name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customer_name"`
	Email           string      `json:"email"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (o *Order) Validate() error {
	if err := requireFields(
		"customer_name", o.CustomerName,
		"email", o.Email,
		"shipping_address", o.ShippingAddress,
	); err != nil {
		return err
	}
	for idx, item := range o.Items {
		if err := requireFields("items.item_name", item.ItemName); err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", idx)
		}
	}
	if o.TotalAmount < 0 {
		return fmt.Errorf("total_amount must not be negative")
	}
	return oneOf("status", &o.Status, "Pending", "Pending", "Approved", "Shipped")
}

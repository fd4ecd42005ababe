package model

import (
	"fmt"
	"time"
)

type Procurement struct {
	ID         string    `json:"id"`
	ItemName   string    `json:"item_name"`
	Department string    `json:"department"`
	Quantity   int       `json:"quantity"`
	Budget     float64   `json:"budget"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Procurement) Validate() error {
	if err := requireFields(
		"item_name", p.ItemName,
		"department", p.Department,
	); err != nil {
		return err
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if p.Budget < 0 {
		return fmt.Errorf("budget must not be negative")
	}
	return oneOf("status", &p.Status, "Requested", "Requested", "Approved", "Ordered")
}

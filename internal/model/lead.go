package model

import "time"

type Lead struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	InterestLevel string    `json:"interest_level"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (l *Lead) Validate() error {
	if err := requireFields(
		"customer_name", l.CustomerName,
		"phone", l.Phone,
	); err != nil {
		return err
	}
	if err := oneOf("interest_level", &l.InterestLevel, "Warm", "Hot", "Warm", "Cold"); err != nil {
		return err
	}
	return oneOf("status", &l.Status, "New", "New", "Contacted", "Closed")
}

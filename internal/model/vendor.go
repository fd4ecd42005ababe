package model

import (
	"fmt"
	"time"
)

type Vendor struct {
	ID           string    `json:"id"`
	VendorName   string    `json:"vendor_name"`
	ServiceType  string    `json:"service_type"`
	ContactEmail string    `json:"contact_email"`
	Rating       int       `json:"rating,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (v *Vendor) Validate() error {
	if err := requireFields(
		"vendor_name", v.VendorName,
		"service_type", v.ServiceType,
		"contact_email", v.ContactEmail,
	); err != nil {
		return err
	}
	if v.Rating != 0 && (v.Rating < 1 || v.Rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return oneOf("status", &v.Status, "Evaluated", "Evaluated", "Approved")
}

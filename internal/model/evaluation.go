package model

import "time"

type Evaluation struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employee_name"`
	ReviewPeriod string    `json:"review_period"`
	Score        float64   `json:"score"`
	Comments     string    `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Evaluation) Validate() error {
	return requireFields(
		"employee_name", e.EmployeeName,
		"review_period", e.ReviewPeriod,
	)
}

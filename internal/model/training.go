package model

import "time"

type Training struct {
	ID             string     `json:"id"`
	EmployeeName   string     `json:"employee_name"`
	TrainingTopic  string     `json:"training_topic"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (t *Training) Validate() error {
	if err := requireFields(
		"employee_name", t.EmployeeName,
		"training_topic", t.TrainingTopic,
	); err != nil {
		return err
	}
	return oneOf("status", &t.Status, "Scheduled", "Scheduled", "Completed")
}

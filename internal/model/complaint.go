package model

import "time"

type Complaint struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	IssueType    string    `json:"issue_type"`
	Description  string    `json:"description"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Complaint) Validate() error {
	if err := requireFields(
		"customer_name", c.CustomerName,
		"issue_type", c.IssueType,
		"description", c.Description,
	); err != nil {
		return err
	}
	if err := oneOf("priority", &c.Priority, "Medium", "Low", "Medium", "High"); err != nil {
		return err
	}
	return oneOf("status", &c.Status, "Open", "Open", "Resolved")
}

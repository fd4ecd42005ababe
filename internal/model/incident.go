package model

import "time"

type Incident struct {
	ID               string    `json:"id"`
	RequesterName    string    `json:"requester_name"`
	IssueDescription string    `json:"issue_description"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (i *Incident) Validate() error {
	if err := requireFields(
		"requester_name", i.RequesterName,
		"issue_description", i.IssueDescription,
	); err != nil {
		return err
	}
	if err := oneOf("priority", &i.Priority, "Low", "Low", "High"); err != nil {
		return err
	}
	return oneOf("status", &i.Status, "Open", "Open", "Resolved")
}

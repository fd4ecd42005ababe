package model

import "time"

type JobApplication struct {
	ID            string    `json:"id"`
	CandidateName string    `json:"candidate_name"`
	Position      string    `json:"position"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	ResumeLink    string    `json:"resume_link"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (j *JobApplication) Validate() error {
	if err := requireFields(
		"candidate_name", j.CandidateName,
		"position", j.Position,
		"email", j.Email,
		"resume_link", j.ResumeLink,
	); err != nil {
		return err
	}
	return oneOf("status", &j.Status, "Applied", "Applied", "Interview", "Hired")
}

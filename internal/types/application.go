package types

import "github.com/google/uuid"

// JobPayload is the work item delivered by the external queue.
type JobPayload struct {
	ApplicationID  string `json:"application_id" validate:"required"`
	OrganizationID string `json:"organization_id" validate:"required"`
	JobID          string `json:"job_id" validate:"required"`
}

// Application is an application record joined with its job posting, as read
// from storage. Optional candidate fields are empty strings when absent.
type Application struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	JobID          uuid.UUID `json:"job_id"`

	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	ResumeURL      string `json:"resume_url,omitempty"`
	GitHubURL      string `json:"github_url,omitempty"`
	PortfolioURL   string `json:"portfolio_url,omitempty"`
	CoverLetter    string `json:"cover_letter,omitempty"`

	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
}

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ErrApplicationNotFound is returned when no application matches all three of
// (applicationID, organizationID, jobID). A mismatch on any of the three is
// fatal for the evaluation job.
var ErrApplicationNotFound = errors.New("application not found")

// GetApplicationForJob loads an application joined with its job posting,
// filtered by application, organization, and job.
func (db *DB) GetApplicationForJob(ctx context.Context, applicationID, organizationID, jobID string) (*types.Application, error) {
	var app types.Application

	err := db.pool.QueryRow(ctx,
		`SELECT a.id, a.organization_id, a.job_id,
		        a.candidate_name, a.candidate_email,
		        COALESCE(a.resume_url, ''), COALESCE(a.github_url, ''),
		        COALESCE(a.portfolio_url, ''), COALESCE(a.cover_letter, ''),
		        j.title, j.description
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = $1 AND a.organization_id = $2 AND a.job_id = $3`,
		applicationID, organizationID, jobID,
	).Scan(&app.ID, &app.OrganizationID, &app.JobID,
		&app.CandidateName, &app.CandidateEmail,
		&app.ResumeURL, &app.GitHubURL,
		&app.PortfolioURL, &app.CoverLetter,
		&app.JobTitle, &app.JobDescription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return &app, nil
}

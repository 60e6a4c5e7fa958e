package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// EvaluationRecord is the persisted form of one reconciled evaluation.
// There is exactly one live row per application.
type EvaluationRecord struct {
	ApplicationID uuid.UUID
	JobID         uuid.UUID
	Evaluation    *types.ParsedEvaluation
	ResumeExcerpt string
	Evidence      *types.EnrichmentResult
	RawResponse   json.RawMessage
}

// UpsertEvaluation inserts the evaluation on first run and fully overwrites
// it on every re-evaluation of the same application. Keyed by application_id
// (unique), also uniquely indexed by (job_id, application_id). Concurrent
// re-evaluations of the same application race under upsert semantics; last
// writer wins.
func (db *DB) UpsertEvaluation(ctx context.Context, rec *EvaluationRecord) error {
	eval := rec.Evaluation

	breakdownJSON, err := json.Marshal(eval.ScoreBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}
	skillsJSON, err := json.Marshal(eval.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	strengthsJSON, err := json.Marshal(eval.Strengths)
	if err != nil {
		return fmt.Errorf("failed to marshal strengths: %w", err)
	}
	weaknessesJSON, err := json.Marshal(eval.Weaknesses)
	if err != nil {
		return fmt.Errorf("failed to marshal weaknesses: %w", err)
	}
	evidenceJSON, err := json.Marshal(rec.Evidence)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidate_evaluations (
		     application_id, job_id, role_family, rubric_version, score,
		     score_breakdown, skills, resume_excerpt, summary, strengths,
		     weaknesses, recommendation, evidence, raw_response,
		     evaluated_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         NOW(), NOW(), NOW())
		 ON CONFLICT (application_id) DO UPDATE SET
		     job_id = $2,
		     role_family = $3,
		     rubric_version = $4,
		     score = $5,
		     score_breakdown = $6,
		     skills = $7,
		     resume_excerpt = $8,
		     summary = $9,
		     strengths = $10,
		     weaknesses = $11,
		     recommendation = $12,
		     evidence = $13,
		     raw_response = $14,
		     evaluated_at = NOW(),
		     updated_at = NOW()`,
		rec.ApplicationID, rec.JobID, string(eval.RoleFamily), eval.RubricVersion,
		eval.Score, breakdownJSON, skillsJSON, rec.ResumeExcerpt, eval.Summary,
		strengthsJSON, weaknessesJSON, string(eval.Recommendation),
		evidenceJSON, []byte(rec.RawResponse),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert evaluation: %w", err)
	}

	return nil
}

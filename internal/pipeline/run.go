// Package pipeline provides the high-level orchestration for one candidate
// evaluation job: load the application, enrich with web evidence, score with
// the model, reconcile, and persist.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-evaluator/internal/db"
	"github.com/jonathan/candidate-evaluator/internal/llm"
	"github.com/jonathan/candidate-evaluator/internal/observability"
	"github.com/jonathan/candidate-evaluator/internal/prompt"
	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	GetApplicationForJob(ctx context.Context, applicationID, organizationID, jobID string) (*types.Application, error)
	UpsertEvaluation(ctx context.Context, rec *db.EvaluationRecord) error
}

// Enricher gathers web evidence for an application.
type Enricher interface {
	Enrich(ctx context.Context, app *types.Application) *types.EnrichmentResult
}

// Deps carries the pipeline's collaborators. Everything is injected; the
// rubric and keyword tables are the only shared state and they are read-only.
type Deps struct {
	Store      Store
	LLM        llm.Client
	Enricher   Enricher
	Classifier *scoring.Classifier
	Rubrics    *scoring.Registry
	MaxRetries int
	Log        *zap.Logger
	Printer    *observability.Printer
}

var payloadValidator = validator.New()

// Run processes one evaluation job end-to-end. Harvester failures degrade to
// recorded gaps; application lookup, model invocation, and response parsing
// failures are fatal and left to the external queue's redelivery policy.
func Run(ctx context.Context, deps Deps, payload types.JobPayload) error {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("application_id", payload.ApplicationID))

	if err := payloadValidator.Struct(payload); err != nil {
		return fmt.Errorf("invalid job payload: %w", err)
	}

	app, err := deps.Store.GetApplicationForJob(ctx, payload.ApplicationID, payload.OrganizationID, payload.JobID)
	if err != nil {
		return fmt.Errorf("failed to load application %s: %w", payload.ApplicationID, err)
	}

	start := time.Now()
	enrichment := deps.Enricher.Enrich(ctx, app)
	log.Info("evidence enrichment complete",
		zap.Int("evidence_urls", len(enrichment.EvidenceURLs)),
		zap.Int("failures", len(enrichment.Failures)),
		zap.Bool("github", enrichment.GitHub != nil),
		zap.Bool("portfolio", enrichment.Portfolio != nil),
		zap.Duration("elapsed", time.Since(start)))
	if deps.Printer != nil {
		deps.Printer.PrintEnrichment(enrichment)
	}

	family := deps.Classifier.Classify(app.JobTitle, app.JobDescription)
	rubric := deps.Rubrics.ForFamily(family)
	log.Debug("role family classified", zap.String("family", string(family)))

	in := prompt.Input{
		Application: app,
		Family:      family,
		Rubric:      rubric,
		Enrichment:  enrichment,
	}
	fullPrompt := prompt.BuildFull(in)
	minimalPrompt := prompt.BuildMinimal(in)
	system := prompt.SystemInstruction()

	start = time.Now()
	response, err := llm.Invoke(ctx,
		func(ctx context.Context, p string) (string, error) {
			return deps.LLM.Evaluate(ctx, system, p)
		},
		fullPrompt, minimalPrompt,
		llm.RetryPolicy{MaxRetries: deps.MaxRetries},
	)
	if err != nil {
		return fmt.Errorf("model evaluation failed for application %s: %w", payload.ApplicationID, err)
	}
	log.Info("model evaluation complete",
		zap.Int("response_chars", len(response)),
		zap.Duration("elapsed", time.Since(start)))

	eval, err := scoring.Reconcile(response, family, rubric, enrichment)
	if err != nil {
		return fmt.Errorf("failed to reconcile evaluation for application %s: %w", payload.ApplicationID, err)
	}
	if err := scoring.ValidateEvaluation(eval); err != nil {
		return fmt.Errorf("reconciled evaluation is invalid for application %s: %w", payload.ApplicationID, err)
	}
	if deps.Printer != nil {
		deps.Printer.PrintEvaluation(eval)
	}

	rec := &db.EvaluationRecord{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Evaluation:    eval,
		ResumeExcerpt: enrichment.ResumeTextExcerpt,
		Evidence:      enrichment,
		RawResponse:   json.RawMessage(llm.CleanJSONBlock(response)),
	}
	if err := deps.Store.UpsertEvaluation(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist evaluation for application %s: %w", payload.ApplicationID, err)
	}

	log.Info("evaluation persisted",
		zap.Int("score", eval.Score),
		zap.String("recommendation", string(eval.Recommendation)))
	return nil
}

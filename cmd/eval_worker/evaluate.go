package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/db"
	"github.com/jonathan/candidate-evaluator/internal/evidence"
	"github.com/jonathan/candidate-evaluator/internal/fetch"
	"github.com/jonathan/candidate-evaluator/internal/llm"
	"github.com/jonathan/candidate-evaluator/internal/logger"
	"github.com/jonathan/candidate-evaluator/internal/observability"
	"github.com/jonathan/candidate-evaluator/internal/pipeline"
	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

var (
	evaluateApplicationID string
	evaluateOrgID         string
	evaluateJobID         string
	evaluateConfigPath    string
	evaluateVerbose       bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a single application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(evaluateConfigPath)
		if err != nil {
			return err
		}
		if evaluateVerbose {
			cfg.Verbose = true
		}

		ctx := cmd.Context()
		deps, cleanup, err := buildDeps(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		return pipeline.Run(ctx, deps, types.JobPayload{
			ApplicationID:  evaluateApplicationID,
			OrganizationID: evaluateOrgID,
			JobID:          evaluateJobID,
		})
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateApplicationID, "application-id", "", "Application ID to evaluate")
	evaluateCmd.Flags().StringVar(&evaluateOrgID, "org-id", "", "Organization ID owning the application")
	evaluateCmd.Flags().StringVar(&evaluateJobID, "job-id", "", "Job ID the application belongs to")
	evaluateCmd.Flags().StringVar(&evaluateConfigPath, "config", "", "Path to JSON config file")
	evaluateCmd.Flags().BoolVar(&evaluateVerbose, "verbose", false, "Print detailed progress output")
	_ = evaluateCmd.MarkFlagRequired("application-id")
	_ = evaluateCmd.MarkFlagRequired("org-id")
	_ = evaluateCmd.MarkFlagRequired("job-id")
	rootCmd.AddCommand(evaluateCmd)
}

// buildDeps wires the pipeline's collaborators from a validated config.
// The returned cleanup closes the database pool and model client.
func buildDeps(ctx context.Context, cfg *config.Config) (pipeline.Deps, func(), error) {
	log, err := logger.New(cfg.Verbose)
	if err != nil {
		return pipeline.Deps{}, nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return pipeline.Deps{}, nil, err
	}

	client, err := llm.NewGeminiClient(ctx, cfg.LLMAPIKey, cfg.LLMModel)
	if err != nil {
		database.Close()
		return pipeline.Deps{}, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	cleanup := func() {
		_ = client.Close()
		database.Close()
		_ = log.Sync()
	}

	deps := pipeline.Deps{
		Store:      database,
		LLM:        client,
		Enricher:   evidence.NewEnricher(fetch.NewClient(), cfg.GitHubToken, cfg.ScrapingEnabled(), log),
		Classifier: scoring.NewClassifier(),
		Rubrics:    scoring.NewRegistry(),
		MaxRetries: cfg.LLMMaxRetries,
		Log:        log,
	}
	if cfg.Verbose {
		deps.Printer = observability.NewPrinter(os.Stdout)
	}

	return deps, cleanup, nil
}

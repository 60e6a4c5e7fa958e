package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/pipeline"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

var (
	batchFile        string
	batchConfigPath  string
	batchConcurrency int
)

// batchCmd evaluates many applications from a file of JSON-lines payloads.
// Concurrency exists only across distinct applications; each job is still
// processed sequentially end-to-end, matching the queue's delivery model.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a batch of applications from a JSON-lines file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(batchConfigPath)
		if err != nil {
			return err
		}

		payloads, err := readPayloads(batchFile)
		if err != nil {
			return err
		}
		if len(payloads) == 0 {
			return fmt.Errorf("no payloads found in %s", batchFile)
		}

		ctx := cmd.Context()
		deps, cleanup, err := buildDeps(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)
		for _, payload := range payloads {
			g.Go(func() error {
				if err := pipeline.Run(gctx, deps, payload); err != nil {
					// A failed job is left to its own redelivery; it must not
					// cancel the rest of the batch.
					deps.Log.Error("evaluation job failed",
						zap.String("application_id", payload.ApplicationID),
						zap.Error(err))
				}
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "Path to JSON-lines file of job payloads")
	batchCmd.Flags().StringVar(&batchConfigPath, "config", "", "Path to JSON config file")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "Maximum concurrent evaluations")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// readPayloads parses one JSON payload per line, skipping blank lines.
func readPayloads(path string) ([]types.JobPayload, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var payloads []types.JobPayload
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var payload types.JobPayload
		if err := json.Unmarshal(text, &payload); err != nil {
			return nil, fmt.Errorf("invalid payload on line %d: %w", line, err)
		}
		payloads = append(payloads, payload)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payload file: %w", err)
	}
	return payloads, nil
}

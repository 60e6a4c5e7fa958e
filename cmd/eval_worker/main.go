// Package main provides the entry point for the candidate evaluation worker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eval_worker",
	Short: "Candidate evaluation worker",
	Long:  "eval_worker scores job candidates against a role-specific rubric, enriched with evidence harvested from their resume, GitHub profile, and portfolio site.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

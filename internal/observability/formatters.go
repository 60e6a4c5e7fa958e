// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintEnrichment outputs a human-readable summary of the harvested evidence.
func (p *Printer) PrintEnrichment(result *types.EnrichmentResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	if result.GitHub != nil {
		sb.WriteString(fmt.Sprintf("GitHub:    %s (%d repos harvested)\n",
			result.GitHub.Owner, len(result.GitHub.Repos)))
	} else {
		sb.WriteString("GitHub:    (none)\n")
	}
	if result.Portfolio != nil {
		sb.WriteString(fmt.Sprintf("Portfolio: %s (%d pages)\n",
			result.Portfolio.RootURL, len(result.Portfolio.Pages)))
	} else {
		sb.WriteString("Portfolio: (none)\n")
	}
	sb.WriteString(fmt.Sprintf("Resume:    %d chars, %d links\n",
		len(result.ResumeTextExcerpt), len(result.ResumeLinks)))

	if len(result.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		for i, failure := range result.Failures {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Failures)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  - [%s] %s\n", failure.Source, failure.Reason))
		}
	}

	p.printBox("Evidence Enrichment", sb.String())
}

// PrintEvaluation outputs a human-readable summary of the reconciled evaluation.
func (p *Printer) PrintEvaluation(eval *types.ParsedEvaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Family:         %s\n", eval.RoleFamily))
	sb.WriteString(fmt.Sprintf("Score:          %d / 100\n", eval.Score))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", eval.Recommendation))
	sb.WriteString("\nBreakdown:\n")
	for _, entry := range eval.ScoreBreakdown {
		sb.WriteString(fmt.Sprintf("  %-14s %3d / %d\n", entry.Key, entry.Score, entry.Max))
	}

	if len(eval.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		for i, s := range eval.Strengths {
			if i >= maxItemsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("  - %s\n", s))
		}
	}

	p.printBox("Candidate Evaluation", sb.String())
}

package evidence

import (
	"fmt"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// HarvestError represents a harvester failure. The orchestrator records it as
// an EvidenceFailure and continues; it never aborts the pipeline.
type HarvestError struct {
	Source    types.FailureSource
	URL       string
	Message   string
	Transient bool
	Cause     error
}

func (e *HarvestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s harvest error for %s: %s: %v", e.Source, e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s harvest error for %s: %s", e.Source, e.URL, e.Message)
}

func (e *HarvestError) Unwrap() error {
	return e.Cause
}

// Failure converts the error into its recorded form.
func (e *HarvestError) Failure() types.EvidenceFailure {
	return types.EvidenceFailure{
		Source:    e.Source,
		URL:       e.URL,
		Reason:    e.Message,
		Transient: e.Transient,
	}
}

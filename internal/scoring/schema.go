package scoring

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

//go:embed evaluation_schema.json
var evaluationSchemaJSON []byte

var (
	evaluationSchema     *gojsonschema.Schema
	evaluationSchemaOnce sync.Once
	evaluationSchemaErr  error
)

// ValidateEvaluation checks a reconciled evaluation against the embedded JSON
// schema before it is persisted. A violation here means a reconciliation bug,
// not bad model output, so it is returned as a fatal error.
func ValidateEvaluation(eval *types.ParsedEvaluation) error {
	evaluationSchemaOnce.Do(func() {
		evaluationSchema, evaluationSchemaErr = gojsonschema.NewSchema(
			gojsonschema.NewBytesLoader(evaluationSchemaJSON))
	})
	if evaluationSchemaErr != nil {
		return fmt.Errorf("failed to compile evaluation schema: %w", evaluationSchemaErr)
	}

	doc, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	result, err := evaluationSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate evaluation: %w", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("evaluation failed schema validation: %s", strings.Join(messages, "; "))
	}

	return nil
}

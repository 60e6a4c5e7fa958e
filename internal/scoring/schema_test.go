package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

func TestValidateEvaluation_AcceptsReconciledOutput(t *testing.T) {
	eval, err := Reconcile(`{
		"score": 80,
		"scoreBreakdown": [{"key": "skills", "score": 25}],
		"summary": "Fine candidate.",
		"recommendation": "Hire"
	}`, types.FamilyEngineering, engineeringRubric(), nil)
	require.NoError(t, err)

	assert.NoError(t, ValidateEvaluation(eval))
}

func TestValidateEvaluation_RejectsOutOfRangeScore(t *testing.T) {
	eval := &types.ParsedEvaluation{
		RoleFamily:     types.FamilyEngineering,
		RubricVersion:  RubricVersion,
		Score:          150,
		Recommendation: types.RecommendHire,
	}

	err := ValidateEvaluation(eval)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestValidateEvaluation_RejectsUnknownRecommendation(t *testing.T) {
	eval := &types.ParsedEvaluation{
		RoleFamily:     types.FamilyGeneral,
		RubricVersion:  RubricVersion,
		Score:          50,
		Recommendation: types.Recommendation("Maybe"),
	}

	err := ValidateEvaluation(eval)
	require.Error(t, err)
}

func TestValidateEvaluation_RejectsUnknownRoleFamily(t *testing.T) {
	eval := &types.ParsedEvaluation{
		RoleFamily:     types.RoleFamily("astronaut"),
		RubricVersion:  RubricVersion,
		Score:          50,
		Recommendation: types.RecommendHold,
	}

	err := ValidateEvaluation(eval)
	require.Error(t, err)
}

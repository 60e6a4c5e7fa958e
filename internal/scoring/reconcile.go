package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/llm"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ParseError represents a failure to parse or validate the model response.
// Unlike harvester failures this is fatal for the job.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("evaluation parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// modelEvaluation is the loose shape the model is allowed to return.
// scoreBreakdown may be array-shaped or object-shaped.
type modelEvaluation struct {
	Score          *float64        `json:"score"`
	ScoreBreakdown json.RawMessage `json:"scoreBreakdown"`
	Skills         []string        `json:"skills"`
	Summary        string          `json:"summary"`
	Strengths      []string        `json:"strengths"`
	Weaknesses     []string        `json:"weaknesses"`
	Recommendation string          `json:"recommendation"`
}

// breakdownEntry is one array-form scoreBreakdown element.
type breakdownEntry struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// Reconcile parses the raw model response, normalizes both breakdown shapes
// into one canonical breakdown, clamps every score, applies role-aware
// bonuses from the harvested evidence, and derives the recommendation.
func Reconcile(raw string, family types.RoleFamily, rubric types.RubricDefinition, enrichment *types.EnrichmentResult) (*types.ParsedEvaluation, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &ParseError{Message: "model response is empty"}
	}

	var parsed modelEvaluation
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &ParseError{Message: "model response is not valid JSON", Cause: err}
	}

	breakdown, hasBreakdown := reconcileBreakdown(parsed.ScoreBreakdown, rubric)

	score := 0
	if hasBreakdown {
		for _, entry := range breakdown {
			score += entry.Score
		}
	} else if parsed.Score != nil {
		score = clampInt(int(math.Round(*parsed.Score)), 0, 100)
	}

	score = clampInt(score+evidenceBonus(family, enrichment), 0, 100)

	return &types.ParsedEvaluation{
		RoleFamily:     family,
		RubricVersion:  RubricVersion,
		Score:          score,
		ScoreBreakdown: breakdown,
		Skills:         parsed.Skills,
		Summary:        strings.TrimSpace(parsed.Summary),
		Strengths:      parsed.Strengths,
		Weaknesses:     parsed.Weaknesses,
		Recommendation: normalizeRecommendation(parsed.Recommendation, score),
	}, nil
}

// reconcileBreakdown normalizes an array- or object-shaped scoreBreakdown
// into one canonical entry per rubric criterion, clamped to [0, max].
// Criteria the model skipped default to 0. The bool reports whether the model
// supplied any breakdown at all.
func reconcileBreakdown(raw json.RawMessage, rubric types.RubricDefinition) ([]types.ScoreBreakdownEntry, bool) {
	scores := make(map[string]float64)
	hasBreakdown := false

	if len(raw) > 0 {
		var entries []breakdownEntry
		if err := json.Unmarshal(raw, &entries); err == nil {
			hasBreakdown = len(entries) > 0
			for _, criterion := range rubric.Criteria {
				for _, entry := range entries {
					if entry.Score == nil {
						continue
					}
					if matchesCriterion(criterion, entry.Key) || matchesCriterion(criterion, entry.Label) {
						scores[criterion.Key] = *entry.Score
						break
					}
				}
			}
		} else {
			var byKey map[string]json.RawMessage
			if err := json.Unmarshal(raw, &byKey); err == nil {
				hasBreakdown = len(byKey) > 0
				for _, criterion := range rubric.Criteria {
					if value, ok := lookupKey(byKey, criterion.Key); ok {
						scores[criterion.Key] = value
					}
				}
			}
		}
	}

	entries := make([]types.ScoreBreakdownEntry, 0, len(rubric.Criteria))
	for _, criterion := range rubric.Criteria {
		entries = append(entries, types.ScoreBreakdownEntry{
			Key:   criterion.Key,
			Label: criterion.Label,
			Score: clampInt(int(math.Round(scores[criterion.Key])), 0, criterion.Max),
			Max:   criterion.Max,
		})
	}
	return entries, hasBreakdown
}

// matchesCriterion compares a model-supplied key or label to a criterion,
// case-insensitively.
func matchesCriterion(criterion types.RubricCriterion, candidate string) bool {
	candidate = strings.TrimSpace(strings.ToLower(candidate))
	if candidate == "" {
		return false
	}
	return candidate == strings.ToLower(criterion.Key) || candidate == strings.ToLower(criterion.Label)
}

// lookupKey reads a numeric score for a criterion key from an object-shaped
// breakdown, accepting either a bare number or a {"score": n} object.
func lookupKey(byKey map[string]json.RawMessage, key string) (float64, bool) {
	for k, v := range byKey {
		if !strings.EqualFold(k, key) {
			continue
		}
		var number float64
		if err := json.Unmarshal(v, &number); err == nil {
			return number, true
		}
		var nested struct {
			Score *float64 `json:"score"`
		}
		if err := json.Unmarshal(v, &nested); err == nil && nested.Score != nil {
			return *nested.Score, true
		}
		return 0, false
	}
	return 0, false
}

// evidenceBonus is the role-aware adjustment applied on top of the model's
// base score.
func evidenceBonus(family types.RoleFamily, enrichment *types.EnrichmentResult) int {
	if enrichment == nil {
		return 0
	}

	bonus := 0
	if family == types.FamilyEngineering && enrichment.GitHub != nil {
		if enrichment.GitHub.PublicRepos > 10 {
			bonus += 5
		}
		for _, repo := range enrichment.GitHub.Repos {
			if repo.Stars > 10 {
				bonus += 5
				break
			}
		}
	}

	if (family == types.FamilyProduct || family == types.FamilyDesign) &&
		enrichment.Portfolio != nil && len(enrichment.Portfolio.Pages) >= 2 {
		bonus += 3
	}

	return bonus
}

// normalizeRecommendation maps the model's label onto one of the four fixed
// labels. An unrecognized label is overridden by the score thresholds; the
// deterministic derivation always wins over free text.
func normalizeRecommendation(label string, score int) types.Recommendation {
	switch strings.TrimSpace(strings.ToLower(label)) {
	case "strong hire":
		return types.RecommendStrongHire
	case "hire":
		return types.RecommendHire
	case "hold":
		return types.RecommendHold
	case "no hire":
		return types.RecommendNoHire
	}
	return RecommendationForScore(score)
}

// RecommendationForScore derives a recommendation from the fixed thresholds.
func RecommendationForScore(score int) types.Recommendation {
	switch {
	case score >= 90:
		return types.RecommendStrongHire
	case score >= 70:
		return types.RecommendHire
	case score >= 60:
		return types.RecommendHold
	default:
		return types.RecommendNoHire
	}
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

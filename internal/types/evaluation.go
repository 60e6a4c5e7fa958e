package types

// RoleFamily is a coarse occupational category used to select a scoring rubric.
// It is a closed enumeration, not a free string.
type RoleFamily string

// Role families, in classifier precedence order (General is the zero-hit fallback).
const (
	FamilyEngineering  RoleFamily = "engineering"
	FamilyProduct      RoleFamily = "product"
	FamilyDesign       RoleFamily = "design"
	FamilyMarketing    RoleFamily = "marketing"
	FamilySales        RoleFamily = "sales"
	FamilyOperationsHR RoleFamily = "operations_hr"
	FamilyGeneral      RoleFamily = "general"
)

// RubricCriterion is one weighted scoring criterion.
type RubricCriterion struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Max      int    `json:"max"`
	Guidance string `json:"guidance,omitempty"`
}

// RubricDefinition maps a role family to its weighted criteria.
// Criterion weights for a family sum to 100.
type RubricDefinition struct {
	Family            RoleFamily        `json:"family"`
	Criteria          []RubricCriterion `json:"criteria"`
	ExtraInstructions []string          `json:"extra_instructions,omitempty"`
}

// Recommendation is one of four fixed hiring labels.
type Recommendation string

// Recommendation labels and their score thresholds.
const (
	RecommendStrongHire Recommendation = "Strong Hire" // score >= 90
	RecommendHire       Recommendation = "Hire"        // score >= 70
	RecommendHold       Recommendation = "Hold"        // score >= 60
	RecommendNoHire     Recommendation = "No Hire"
)

// ScoreBreakdownEntry is one reconciled per-criterion score.
// Score is always within [0, Max].
type ScoreBreakdownEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Score int    `json:"score"`
	Max   int    `json:"max"`
}

// ParsedEvaluation is the reconciled model output. Score is always within
// [0, 100] and Recommendation is always consistent with it under the fixed
// thresholds when the model's own label is unrecognized.
type ParsedEvaluation struct {
	RoleFamily     RoleFamily            `json:"role_family"`
	RubricVersion  string                `json:"rubric_version"`
	Score          int                   `json:"score"`
	ScoreBreakdown []ScoreBreakdownEntry `json:"score_breakdown"`
	Skills         []string              `json:"skills,omitempty"`
	Summary        string                `json:"summary"`
	Strengths      []string              `json:"strengths,omitempty"`
	Weaknesses     []string              `json:"weaknesses,omitempty"`
	Recommendation Recommendation        `json:"recommendation"`
}

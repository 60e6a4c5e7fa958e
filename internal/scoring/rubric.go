package scoring

import "github.com/jonathan/candidate-evaluator/internal/types"

// RubricVersion tags prompts and persisted evaluations so that historical
// results can be distinguished from future rubric revisions.
const RubricVersion = "2024-06-r1"

// Registry maps each role family to its weighted scoring rubric. Built once
// at process start and never mutated; pass it by reference instead of
// reaching for globals.
type Registry struct {
	rubrics map[types.RoleFamily]types.RubricDefinition
}

// NewRegistry constructs the fixed rubric table. Criterion weights for every
// family sum to 100.
func NewRegistry() *Registry {
	rubrics := map[types.RoleFamily]types.RubricDefinition{
		types.FamilyEngineering: {
			Family: types.FamilyEngineering,
			Criteria: []types.RubricCriterion{
				{Key: "skills", Label: "Technical Skills", Max: 30, Guidance: "Depth and relevance of technical skills for the posted role."},
				{Key: "projects", Label: "Projects", Max: 25, Guidance: "Substance of personal and professional projects, including code quality signals."},
				{Key: "impact", Label: "Impact", Max: 20, Guidance: "Concrete outcomes the candidate drove: performance, reliability, adoption."},
				{Key: "github", Label: "GitHub Presence", Max: 15, Guidance: "Activity, repository quality, and community signals on GitHub."},
				{Key: "resume", Label: "Resume Quality", Max: 10, Guidance: "Clarity and credibility of the resume narrative."},
			},
			ExtraInstructions: []string{
				"Weigh shipped systems over tutorial-style projects.",
				"If GitHub evidence is missing due to a recorded harvest failure, score the github criterion from resume claims rather than zeroing it.",
			},
		},
		types.FamilyProduct: {
			Family: types.FamilyProduct,
			Criteria: []types.RubricCriterion{
				{Key: "skills", Label: "Product Skills", Max: 30, Guidance: "Discovery, prioritization, and analytical skills."},
				{Key: "experience", Label: "Relevant Experience", Max: 25, Guidance: "Track record shipping products comparable to this role's scope."},
				{Key: "impact", Label: "Impact", Max: 20, Guidance: "Measurable product outcomes: growth, retention, revenue."},
				{Key: "portfolio", Label: "Portfolio & Writing", Max: 15, Guidance: "Case studies, launch posts, or a portfolio showing product thinking."},
				{Key: "resume", Label: "Resume Quality", Max: 10, Guidance: "Clarity and credibility of the resume narrative."},
			},
			ExtraInstructions: []string{
				"Do not penalize a missing GitHub profile for non-engineering roles.",
			},
		},
		types.FamilyDesign: {
			Family: types.FamilyDesign,
			Criteria: []types.RubricCriterion{
				{Key: "skills", Label: "Design Skills", Max: 30, Guidance: "Craft across interaction, visual, and systems design."},
				{Key: "portfolio", Label: "Portfolio", Max: 25, Guidance: "Quality and depth of portfolio case studies."},
				{Key: "impact", Label: "Impact", Max: 20, Guidance: "Design decisions tied to user or business outcomes."},
				{Key: "experience", Label: "Relevant Experience", Max: 15, Guidance: "Experience with products and teams similar to this role."},
				{Key: "resume", Label: "Resume Quality", Max: 10, Guidance: "Clarity and credibility of the resume narrative."},
			},
			ExtraInstructions: []string{
				"Do not penalize a missing GitHub profile for non-engineering roles.",
				"Treat an unreachable portfolio as a recorded gap, not as absence of work.",
			},
		},
		types.FamilyMarketing: {
			Family: types.FamilyMarketing,
			Criteria: []types.RubricCriterion{
				{Key: "skills", Label: "Marketing Skills", Max: 30, Guidance: "Channel expertise, positioning, and analytical ability."},
				{Key: "experience", Label: "Relevant Experience", Max: 25, Guidance: "Campaigns and audiences comparable to this role."},
				{Key: "results", Label: "Results", Max: 20, Guidance: "Quantified campaign or growth results."},
				{Key: "portfolio", Label: "Work Samples", Max: 15, Guidance: "Published content, campaigns, or portfolio material."},
				{Key: "resume", Label: "Resume Quality", Max: 10, Guidance: "Clarity and credibility of the resume narrative."},
			},
			ExtraInstructions: []string{
				"Do not penalize a missing GitHub profile for non-engineering roles.",
			},
		},
		types.FamilySales: {
			Family: types.FamilySales,
			Criteria: []types.RubricCriterion{
				{Key: "skills", Label: "Sales Skills", Max: 30, Guidance: "Prospecting, qualification, and closing ability."},
				{Key: "experience", Label: "Relevant Experience", Max: 25, Guidance: "Deal sizes, cycles, and markets comparable to this role."},
				{Key: "results", Label: "Quota Performance", Max: 20, Guidance: "Attainment history and quantified wins."},
				{Key: "communication", Label: "Communication", Max: 15, Guidance: "Written clarity in the application materials."},
				{Key: "resume", Label: "Resume Quality", Max: 10, Guidance: "Clarity and credibility of the resume narrative."},
			},
			ExtraInstructions: []string{
				"Do not penalize a missing GitHub profile for non-engineering roles.",
			},
		},
		types.FamilyOperationsHR: {
			Family: types.FamilyOperationsHR,
			Criteria: []types.RubricCriterion{
				{Key: "skills", Label: "Operational Skills", Max: 30, Guidance: "Process design, tooling, and execution skills."},
				{Key: "experience", Label: "Relevant Experience", Max: 25, Guidance: "Scope and scale of prior operations or people work."},
				{Key: "impact", Label: "Impact", Max: 20, Guidance: "Efficiency, compliance, or culture outcomes."},
				{Key: "communication", Label: "Communication", Max: 15, Guidance: "Written clarity in the application materials."},
				{Key: "resume", Label: "Resume Quality", Max: 10, Guidance: "Clarity and credibility of the resume narrative."},
			},
			ExtraInstructions: []string{
				"Do not penalize a missing GitHub profile for non-engineering roles.",
			},
		},
		types.FamilyGeneral: {
			Family: types.FamilyGeneral,
			Criteria: []types.RubricCriterion{
				{Key: "skills", Label: "Role Skills", Max: 30, Guidance: "Skills relevant to the posted role."},
				{Key: "experience", Label: "Relevant Experience", Max: 25, Guidance: "Experience comparable to the posted role."},
				{Key: "impact", Label: "Impact", Max: 20, Guidance: "Concrete outcomes in prior work."},
				{Key: "communication", Label: "Communication", Max: 15, Guidance: "Written clarity in the application materials."},
				{Key: "resume", Label: "Resume Quality", Max: 10, Guidance: "Clarity and credibility of the resume narrative."},
			},
			ExtraInstructions: []string{
				"Do not penalize a missing GitHub profile for non-engineering roles.",
			},
		},
	}

	return &Registry{rubrics: rubrics}
}

// ForFamily returns the rubric for a role family, falling back to the
// general rubric for unknown families.
func (r *Registry) ForFamily(family types.RoleFamily) types.RubricDefinition {
	if rubric, ok := r.rubrics[family]; ok {
		return rubric
	}
	return r.rubrics[types.FamilyGeneral]
}

// Families returns every family with a registered rubric.
func (r *Registry) Families() []types.RoleFamily {
	families := make([]types.RoleFamily, 0, len(r.rubrics))
	for family := range r.rubrics {
		families = append(families, family)
	}
	return families
}

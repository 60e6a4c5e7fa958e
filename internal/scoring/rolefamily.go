// Package scoring provides role family classification, the rubric registry,
// and reconciliation of model output into a bounded evaluation.
package scoring

import (
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// familyPrecedence is the fixed tie-break order: the first family to reach
// the maximum hit count wins, and only a strictly greater score replaces it.
var familyPrecedence = []types.RoleFamily{
	types.FamilyEngineering,
	types.FamilyProduct,
	types.FamilyDesign,
	types.FamilyMarketing,
	types.FamilySales,
	types.FamilyOperationsHR,
}

// familyKeywords maps each family to its keyword set.
var familyKeywords = map[types.RoleFamily][]string{
	types.FamilyEngineering: {
		"engineer", "engineering", "developer", "software", "backend", "frontend",
		"fullstack", "full stack", "devops", "sre", "infrastructure", "api",
		"microservices", "distributed", "database", "cloud", "kubernetes",
		"node", "python", "golang", "java", "react", "typescript", "rust",
		"machine learning", "data pipeline", "embedded", "qa", "testing",
	},
	types.FamilyProduct: {
		"product manager", "product management", "product owner", "roadmap",
		"stakeholder", "backlog", "user research", "product strategy", "prd",
		"prioritization", "discovery", "metrics", "okr", "feature",
	},
	types.FamilyDesign: {
		"designer", "ux", "ui", "user experience", "user interface", "figma",
		"wireframe", "prototype", "visual design", "interaction design",
		"design system", "typography", "usability", "branding",
	},
	types.FamilyMarketing: {
		"marketing", "seo", "sem", "content", "campaign", "brand", "growth",
		"social media", "email marketing", "copywriting", "analytics",
		"advertising", "demand generation", "paid media",
	},
	types.FamilySales: {
		"sales", "account executive", "business development", "quota",
		"pipeline", "prospecting", "crm", "salesforce", "closing", "outbound",
		"revenue", "negotiation", "account management",
	},
	types.FamilyOperationsHR: {
		"operations", "human resources", "recruiter", "recruiting", "talent",
		"hr", "people ops", "payroll", "onboarding", "compliance", "benefits",
		"office manager", "logistics", "supply chain", "administrative",
	},
}

// Classifier keyword-scores job postings into role families. It is read-only
// after construction and safe for concurrent use.
type Classifier struct {
	precedence []types.RoleFamily
	keywords   map[types.RoleFamily][]string
}

// NewClassifier returns the fixed role family classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		precedence: familyPrecedence,
		keywords:   familyKeywords,
	}
}

// Classify picks the role family for a job title and description. The family
// with the strictly highest keyword hit count wins; ties favor the earlier
// family in the precedence list; zero hits across all families yields
// general. Deterministic.
func (c *Classifier) Classify(title, description string) types.RoleFamily {
	text := normalizeJobText(title + " " + description)

	best := types.FamilyGeneral
	bestScore := 0
	for _, family := range c.precedence {
		score := 0
		for _, keyword := range c.keywords[family] {
			score += strings.Count(text, " "+keyword+" ")
		}
		if score > bestScore {
			best = family
			bestScore = score
		}
	}

	return best
}

// normalizeJobText lowercases and strips everything but alphanumerics,
// padding with spaces so keyword matches respect word boundaries.
func normalizeJobText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + 2)
	sb.WriteByte(' ')
	lastSpace := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			sb.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		sb.WriteByte(' ')
	}
	return sb.String()
}

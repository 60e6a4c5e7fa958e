// Package prompt assembles the evidence prompt sent to the scoring model,
// plus the reduced fallback used when the provider rejects the full prompt
// for length.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/prompts"
	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Truncation budgets. The full prompt is additionally hard-truncated to
// MaxFullPromptChars after assembly.
const (
	MaxFullPromptChars    = 24000
	MaxMinimalPromptChars = 8000

	maxJobDescriptionChars  = 4000
	maxCoverLetterChars     = 2000
	maxResumeChars          = 6000
	maxCompactRepos         = 3
	maxCompactPages         = 3
	maxCompactReadmeChars   = 300
	maxCompactSnippetChars  = 400
	minimalJobDescChars     = 2000
	minimalCoverLetterChars = 800
	minimalResumeChars      = 2000
	maxResumeLinksInPrompt  = 10
	maxLanguagesInPrompt    = 6
	notAvailablePlaceholder = "(not available)"
)

// Input carries everything the builder needs for one evaluation prompt.
type Input struct {
	Application *types.Application
	Family      types.RoleFamily
	Rubric      types.RubricDefinition
	Enrichment  *types.EnrichmentResult
}

// SystemInstruction returns the fixed system message for the scoring call.
func SystemInstruction() string {
	return prompts.MustGet("evaluation.json", "system")
}

// BuildFull assembles the full evidence prompt: rubric, scoring bands, job
// and candidate text, resume excerpt, and independently compacted GitHub and
// portfolio evidence. The result is hard-truncated to MaxFullPromptChars.
func BuildFull(in Input) string {
	template := prompts.MustGet("evaluation.json", "full")

	assembled := prompts.Format(template, map[string]string{
		"RubricVersion":     scoring.RubricVersion,
		"RoleFamily":        string(in.Family),
		"Rubric":            describeRubric(in.Rubric),
		"ExtraInstructions": describeExtraInstructions(in.Rubric),
		"JobTitle":          in.Application.JobTitle,
		"JobDescription":    truncate(in.Application.JobDescription, maxJobDescriptionChars),
		"CandidateName":     in.Application.CandidateName,
		"CandidateEmail":    in.Application.CandidateEmail,
		"CoverLetter":       orPlaceholder(truncate(in.Application.CoverLetter, maxCoverLetterChars)),
		"ResumeExcerpt":     orPlaceholder(truncate(resumeExcerpt(in.Enrichment), maxResumeChars)),
		"ResumeLinks":       describeResumeLinks(in.Enrichment),
		"GitHubEvidence":    compactGitHub(in.Enrichment),
		"PortfolioEvidence": compactPortfolio(in.Enrichment),
		"Failures":          describeFailures(in.Enrichment),
		"OutputFormat":      prompts.MustGet("evaluation.json", "output-format"),
	})

	return truncate(assembled, MaxFullPromptChars)
}

// BuildMinimal assembles the fallback prompt: no harvested evidence, tighter
// truncation everywhere. Used only when the provider rejects the full prompt
// as too long.
func BuildMinimal(in Input) string {
	template := prompts.MustGet("evaluation.json", "minimal")

	assembled := prompts.Format(template, map[string]string{
		"RubricVersion":  scoring.RubricVersion,
		"RoleFamily":     string(in.Family),
		"Rubric":         describeRubric(in.Rubric),
		"JobTitle":       in.Application.JobTitle,
		"JobDescription": truncate(in.Application.JobDescription, minimalJobDescChars),
		"CandidateName":  in.Application.CandidateName,
		"CandidateEmail": in.Application.CandidateEmail,
		"CoverLetter":    orPlaceholder(truncate(in.Application.CoverLetter, minimalCoverLetterChars)),
		"ResumeExcerpt":  orPlaceholder(truncate(resumeExcerpt(in.Enrichment), minimalResumeChars)),
		"OutputFormat":   prompts.MustGet("evaluation.json", "output-format"),
	})

	return truncate(assembled, MaxMinimalPromptChars)
}

// describeRubric renders the weighted criteria list.
func describeRubric(rubric types.RubricDefinition) string {
	var sb strings.Builder
	for _, c := range rubric.Criteria {
		fmt.Fprintf(&sb, "- %s (%s, max %d): %s\n", c.Label, c.Key, c.Max, c.Guidance)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func describeExtraInstructions(rubric types.RubricDefinition) string {
	if len(rubric.ExtraInstructions) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, instr := range rubric.ExtraInstructions {
		fmt.Fprintf(&sb, "- %s\n", instr)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func resumeExcerpt(enrichment *types.EnrichmentResult) string {
	if enrichment == nil {
		return ""
	}
	return enrichment.ResumeTextExcerpt
}

func describeResumeLinks(enrichment *types.EnrichmentResult) string {
	if enrichment == nil || len(enrichment.ResumeLinks) == 0 {
		return "(none)"
	}
	links := enrichment.ResumeLinks
	if len(links) > maxResumeLinksInPrompt {
		links = links[:maxResumeLinksInPrompt]
	}
	return strings.Join(links, ", ")
}

// compactGitHub condenses harvested GitHub evidence to the top repositories
// with trimmed descriptions, controlling prompt size independently of the
// harvest caps.
func compactGitHub(enrichment *types.EnrichmentResult) string {
	if enrichment == nil || enrichment.GitHub == nil {
		return notAvailablePlaceholder
	}
	gh := enrichment.GitHub

	var sb strings.Builder
	fmt.Fprintf(&sb, "Profile: %s", gh.Owner)
	if gh.Name != "" {
		fmt.Fprintf(&sb, " (%s)", gh.Name)
	}
	fmt.Fprintf(&sb, " — %d public repos, %d followers\n", gh.PublicRepos, gh.Followers)
	if gh.Bio != "" {
		fmt.Fprintf(&sb, "Bio: %s\n", gh.Bio)
	}
	if len(gh.Languages) > 0 {
		fmt.Fprintf(&sb, "Languages: %s\n", describeLanguages(gh.Languages))
	}

	repos := gh.Repos
	if len(repos) > maxCompactRepos {
		repos = repos[:maxCompactRepos]
	}
	for _, repo := range repos {
		fmt.Fprintf(&sb, "- %s (%s, %d stars, %d forks): %s\n",
			repo.Name, orPlaceholder(repo.Language), repo.Stars, repo.Forks,
			orPlaceholder(truncate(repo.Description, 200)))
		if repo.ReadmeExcerpt != "" {
			fmt.Fprintf(&sb, "  README: %s\n", truncate(repo.ReadmeExcerpt, maxCompactReadmeChars))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// compactPortfolio condenses crawled portfolio pages to the top few with
// trimmed snippets.
func compactPortfolio(enrichment *types.EnrichmentResult) string {
	if enrichment == nil || enrichment.Portfolio == nil || len(enrichment.Portfolio.Pages) == 0 {
		return notAvailablePlaceholder
	}

	pages := enrichment.Portfolio.Pages
	if len(pages) > maxCompactPages {
		pages = pages[:maxCompactPages]
	}

	var sb strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&sb, "- %s (%s)\n", orPlaceholder(page.Title), page.URL)
		if page.Snippet != "" {
			fmt.Fprintf(&sb, "  %s\n", truncate(page.Snippet, maxCompactSnippetChars))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// describeFailures surfaces recorded harvest failures so the model can
// discount missing evidence rather than penalizing the candidate.
func describeFailures(enrichment *types.EnrichmentResult) string {
	if enrichment == nil || len(enrichment.Failures) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, f := range enrichment.Failures {
		fmt.Fprintf(&sb, "- %s evidence unavailable: %s\n", f.Source, f.Reason)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func describeLanguages(languages map[string]int) string {
	names := make([]string, 0, len(languages))
	for lang := range languages {
		names = append(names, lang)
	}
	// Most-used first, alphabetical within a count, so prompts are stable.
	sort.Slice(names, func(i, j int) bool {
		if languages[names[i]] != languages[names[j]] {
			return languages[names[i]] > languages[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > maxLanguagesInPrompt {
		names = names[:maxLanguagesInPrompt]
	}
	parts := make([]string, 0, len(names))
	for _, lang := range names {
		parts = append(parts, fmt.Sprintf("%s (%d)", lang, languages[lang]))
	}
	return strings.Join(parts, ", ")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailablePlaceholder
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

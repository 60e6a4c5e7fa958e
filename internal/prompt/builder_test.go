package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

func sampleInput() Input {
	registry := scoring.NewRegistry()
	return Input{
		Application: &types.Application{
			CandidateName:  "Jane Doe",
			CandidateEmail: "jane@example.com",
			CoverLetter:    "I would love to join.",
			JobTitle:       "Backend Engineer",
			JobDescription: "Build Go services.",
		},
		Family: types.FamilyEngineering,
		Rubric: registry.ForFamily(types.FamilyEngineering),
		Enrichment: &types.EnrichmentResult{
			ResumeTextExcerpt: "Five years building APIs.",
			ResumeLinks:       []string{"https://github.com/janedoe", "https://jane.dev"},
			GitHub: &types.GitHubEvidence{
				Owner:       "janedoe",
				PublicRepos: 12,
				Followers:   40,
				Languages:   map[string]int{"Go": 3, "Python": 1},
				Repos: []types.RepoEvidence{
					{Name: "svc", Language: "Go", Stars: 25, Description: "A service", ReadmeExcerpt: "How to run it"},
				},
			},
			Portfolio: &types.PortfolioEvidence{
				RootURL: "https://jane.dev",
				Pages: []types.PortfolioPage{
					{URL: "https://jane.dev", Title: "Home", Snippet: "Welcome"},
				},
			},
			Failures: []types.EvidenceFailure{
				{Source: types.FailureResume, URL: "https://files.example.com/resume", Reason: "fetch failed", Transient: true},
			},
		},
	}
}

func TestBuildFull_ContainsRubricAndEvidence(t *testing.T) {
	prompt := BuildFull(sampleInput())

	assert.Contains(t, prompt, scoring.RubricVersion)
	assert.Contains(t, prompt, "engineering")
	assert.Contains(t, prompt, "Technical Skills")
	assert.Contains(t, prompt, "max 30")
	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "Jane Doe")
	assert.Contains(t, prompt, "Five years building APIs.")
	assert.Contains(t, prompt, "janedoe")
	assert.Contains(t, prompt, "25 stars")
	assert.Contains(t, prompt, "How to run it")
	assert.Contains(t, prompt, "https://jane.dev")
	assert.Contains(t, prompt, "resume evidence unavailable")
	// The output contract travels with every prompt.
	assert.Contains(t, prompt, "scoreBreakdown")
}

func TestBuildFull_LanguagesAreStable(t *testing.T) {
	in := sampleInput()
	first := BuildFull(in)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildFull(in))
	}
	assert.Contains(t, first, "Go (3), Python (1)")
}

func TestBuildFull_MissingEvidenceGetsPlaceholders(t *testing.T) {
	in := sampleInput()
	in.Enrichment = nil

	prompt := BuildFull(in)
	assert.Contains(t, prompt, "(not available)")
	assert.Contains(t, prompt, "(none)")
}

func TestBuildFull_IsHardCapped(t *testing.T) {
	in := sampleInput()
	in.Application.JobDescription = strings.Repeat("responsibilities ", 4000)
	in.Application.CoverLetter = strings.Repeat("enthusiasm ", 4000)
	in.Enrichment.ResumeTextExcerpt = strings.Repeat("experience ", 4000)

	prompt := BuildFull(in)
	assert.LessOrEqual(t, len(prompt), MaxFullPromptChars)
}

func TestBuildFull_TruncatesSections(t *testing.T) {
	in := sampleInput()
	in.Application.JobDescription = strings.Repeat("x", maxJobDescriptionChars+500)

	prompt := BuildFull(in)
	assert.NotContains(t, prompt, strings.Repeat("x", maxJobDescriptionChars+1))
}

func TestBuildMinimal_OmitsHarvestedEvidence(t *testing.T) {
	in := sampleInput()
	prompt := BuildMinimal(in)

	assert.Contains(t, prompt, "Jane Doe")
	assert.Contains(t, prompt, "Five years building APIs.")
	assert.NotContains(t, prompt, "25 stars")
	assert.NotContains(t, prompt, "How to run it")
	assert.NotContains(t, prompt, "Welcome")
	assert.LessOrEqual(t, len(prompt), MaxMinimalPromptChars)
}

func TestBuildMinimal_IsSmallerThanFull(t *testing.T) {
	in := sampleInput()
	assert.Less(t, len(BuildMinimal(in)), len(BuildFull(in)))
}

func TestSystemInstruction_IsNonEmptyAndStable(t *testing.T) {
	first := SystemInstruction()
	require.NotEmpty(t, first)
	assert.Equal(t, first, SystemInstruction())
}

func TestBuildFull_ResumeLinkListIsBounded(t *testing.T) {
	in := sampleInput()
	links := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		links = append(links, "https://example.com/link")
	}
	in.Enrichment.ResumeLinks = links

	prompt := BuildFull(in)
	assert.Equal(t, maxResumeLinksInPrompt, strings.Count(prompt, "https://example.com/link"))
}

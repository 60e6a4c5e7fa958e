// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// URLSource identifies where an evidence URL came from.
type URLSource string

// Evidence URL sources.
const (
	SourceFormGitHub      URLSource = "form_github"
	SourceFormPortfolio   URLSource = "form_portfolio"
	SourceResumeExtracted URLSource = "resume_extracted"
)

// URLKind is the harvesting category assigned to a normalized URL.
type URLKind string

// Evidence URL kinds.
const (
	KindGitHubProfile URLKind = "github_profile"
	KindGitHubRepo    URLKind = "github_repo"
	KindPortfolio     URLKind = "portfolio"
	KindOther         URLKind = "other"
)

// EvidenceURL is a canonicalized, categorized candidate URL.
type EvidenceURL struct {
	OriginalURL   string    `json:"original_url"`
	NormalizedURL string    `json:"normalized_url"`
	Source        URLSource `json:"source"`
	Kind          URLKind   `json:"kind"`
	Host          string    `json:"host"`
}

// FailureSource identifies which harvester recorded a failure.
type FailureSource string

// Harvester failure sources.
const (
	FailureGitHub    FailureSource = "github"
	FailurePortfolio FailureSource = "portfolio"
	FailureResume    FailureSource = "resume"
)

// EvidenceFailure records a harvesting failure. Failures are append-only and
// never abort the pipeline.
type EvidenceFailure struct {
	Source    FailureSource `json:"source"`
	URL       string        `json:"url"`
	Reason    string        `json:"reason"`
	Transient bool          `json:"transient"`
}

// RepoEvidence summarizes a single harvested repository.
type RepoEvidence struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Language      string `json:"language,omitempty"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	ReadmeExcerpt string `json:"readme_excerpt,omitempty"`
	URL           string `json:"url"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// GitHubEvidence is the harvested GitHub profile summary.
type GitHubEvidence struct {
	Owner       string         `json:"owner"`
	Name        string         `json:"name,omitempty"`
	Bio         string         `json:"bio,omitempty"`
	PublicRepos int            `json:"public_repos"`
	Followers   int            `json:"followers"`
	Repos       []RepoEvidence `json:"repos"`
	Languages   map[string]int `json:"languages,omitempty"`
}

// PortfolioPage is one crawled portfolio page.
type PortfolioPage struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// PortfolioEvidence is the harvested portfolio summary.
type PortfolioEvidence struct {
	RootURL string          `json:"root_url"`
	Pages   []PortfolioPage `json:"pages"`
}

// EnrichmentResult aggregates all harvested evidence for one application.
// It is immutable once built: consumed by prompt building and score adjustment.
type EnrichmentResult struct {
	GitHub            *GitHubEvidence    `json:"github,omitempty"`
	Portfolio         *PortfolioEvidence `json:"portfolio,omitempty"`
	Failures          []EvidenceFailure  `json:"failures,omitempty"`
	EvidenceURLs      []EvidenceURL      `json:"evidence_urls,omitempty"`
	ResumeLinks       []string           `json:"resume_links,omitempty"`
	ResumeTextExcerpt string             `json:"resume_text_excerpt,omitempty"`
}
